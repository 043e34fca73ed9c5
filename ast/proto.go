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
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ToProto converts the tree rooted at n into a protobuf Value, for
// consumers that want the tree as data (for example as JSON, through
// protojson). Every node becomes a struct with a "type" field; references
// carry their area rendered in the style they were written in.
func ToProto(n Node) (*structpb.Value, error) {
	m, err := toMap(n)
	if err != nil {
		return nil, err
	}
	return structpb.NewValue(m)
}

func toMap(n Node) (map[string]any, error) {
	switch n := n.(type) {
	case *BlankNode:
		return map[string]any{"type": "blank"}, nil
	case *LogicalNode:
		return map[string]any{"type": "logical", "value": n.Val}, nil
	case *NumberNode:
		return map[string]any{"type": "number", "value": n.Val}, nil
	case *TextNode:
		return map[string]any{"type": "text", "value": n.Val}, nil
	case *ErrorNode:
		return map[string]any{"type": "error", "value": n.Code}, nil
	case *ArrayNode:
		rows := make([]any, n.Rows)
		for r := range rows {
			row := make([]any, n.Columns)
			for c := range row {
				row[c] = n.At(r, c).Value()
			}
			rows[r] = row
		}
		return map[string]any{"type": "array", "rows": n.Rows, "columns": n.Columns, "elements": rows}, nil
	case *ReferenceNode:
		return reference(n.Area, nil), nil
	case *SheetReferenceNode:
		return reference(n.Area, map[string]any{"sheet": n.Sheet}), nil
	case *Reference3DNode:
		return reference(n.Area, map[string]any{"firstSheet": n.FirstSheet, "lastSheet": n.LastSheet}), nil
	case *ExternalSheetReferenceNode:
		return reference(n.Area, map[string]any{"workbook": n.WorkbookIndex, "sheet": n.Sheet}), nil
	case *ExternalReference3DNode:
		return reference(n.Area, map[string]any{
			"workbook": n.WorkbookIndex, "firstSheet": n.FirstSheet, "lastSheet": n.LastSheet,
		}), nil
	case *StructureReferenceNode:
		m := map[string]any{"type": "structure", "specifier": n.Specifier}
		if n.Table != "" {
			m["table"] = n.Table
		}
		if n.HasWorkbook {
			m["workbook"] = n.WorkbookIndex
		}
		return m, nil
	case *NameNode:
		return map[string]any{"type": "name", "name": n.Name}, nil
	case *SheetNameNode:
		return map[string]any{"type": "name", "sheet": n.Sheet, "name": n.Name}, nil
	case *ExternalNameNode:
		m := map[string]any{"type": "name", "workbook": n.WorkbookIndex, "name": n.Name}
		if n.Sheet != "" {
			m["sheet"] = n.Sheet
		}
		return m, nil
	case *BinaryNode:
		left, err := toMap(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := toMap(n.Right)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "binary", "op": n.Op.String(), "left": left, "right": right}, nil
	case *UnaryNode:
		operand, err := toMap(n.Operand)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "unary", "op": n.Op.String(), "operand": operand}, nil
	case *FunctionNode:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			m, err := toMap(arg)
			if err != nil {
				return nil, err
			}
			args[i] = m
		}
		return map[string]any{"type": "function", "name": n.Name, "args": args}, nil
	default:
		return nil, fmt.Errorf("unknown node type %T", n)
	}
}

func reference(area ReferenceArea, m map[string]any) map[string]any {
	if m == nil {
		m = map[string]any{}
	}
	m["type"] = "reference"
	m["kind"] = area.Kind.String()
	m["area"] = area.String()
	return m
}
