// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestToProto(t *testing.T) {
	t.Parallel()
	tree := bin(OpAdd,
		&FunctionNode{Name: "SUM", Args: []Node{
			&SheetReferenceNode{Sheet: "Data", Area: NewCellArea(cell(AxisAbsolute, 1, AxisAbsolute, 1))},
			&BlankNode{},
		}},
		&ArrayNode{Rows: 1, Columns: 2, Elements: []ScalarValue{
			{Kind: ScalarNumber, Number: 1},
			{Kind: ScalarText, Text: "x"},
		}},
	)
	got, err := ToProto(tree)
	require.NoError(t, err)

	want, err := structpb.NewValue(map[string]any{
		"type": "binary",
		"op":   "+",
		"left": map[string]any{
			"type": "function",
			"name": "SUM",
			"args": []any{
				map[string]any{"type": "reference", "kind": "cell", "area": "$A$1", "sheet": "Data"},
				map[string]any{"type": "blank"},
			},
		},
		"right": map[string]any{
			"type":     "array",
			"rows":     1,
			"columns":  2,
			"elements": []any{[]any{1.0, "x"}},
		},
	})
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
		t.Errorf("unexpected value (-want +got):\n%s", diff)
	}
}

func TestToProtoNodes(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		node Node
		want map[string]any
	}{
		{&LogicalNode{Val: true}, map[string]any{"type": "logical", "value": true}},
		{&ErrorNode{Code: "#N/A"}, map[string]any{"type": "error", "value": "#N/A"}},
		{&UnaryNode{Op: OpPercent, Operand: num(5)}, map[string]any{
			"type": "unary", "op": "%", "operand": map[string]any{"type": "number", "value": 5.0},
		}},
		{&ExternalReference3DNode{WorkbookIndex: 2, FirstSheet: "Jan", LastSheet: "Mar", Area: NewCellArea(cell(AxisRelative, 3, AxisRelative, 3))},
			map[string]any{"type": "reference", "kind": "cell", "area": "C3", "workbook": 2.0, "firstSheet": "Jan", "lastSheet": "Mar"}},
		{&StructureReferenceNode{Table: "Sales", Specifier: "[Total]"}, map[string]any{"type": "structure", "table": "Sales", "specifier": "[Total]"}},
		{&ExternalNameNode{WorkbookIndex: 1, Name: "Rate"}, map[string]any{"type": "name", "workbook": 1.0, "name": "Rate"}},
	}
	for _, tc := range testCases {
		got, err := ToProto(tc.node)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.GetStructValue().AsMap())
	}

	_, err := ToProto(&FunctionNode{Name: "F", Args: []Node{bogusNode{}}})
	assert.ErrorContains(t, err, "unknown node type")
}
