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

package parser

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/kralicky/xlformula/ast"
	"github.com/kralicky/xlformula/reporter"
)

func area(t *testing.T, text string) ast.ReferenceArea {
	t.Helper()
	a, ok, err := TryParseA1(text)
	require.NoError(t, err)
	require.True(t, ok, text)
	return a
}

func num(v float64) ast.Node { return &ast.NumberNode{Val: v} }

func bin(op ast.BinaryOp, left, right ast.Node) ast.Node {
	return &ast.BinaryNode{Op: op, Left: left, Right: right}
}

func un(op ast.UnaryOp, operand ast.Node) ast.Node {
	return &ast.UnaryNode{Op: op, Operand: operand}
}

func TestParseFormulaTrees(t *testing.T) {
	t.Parallel()
	ref := func(text string) ast.Node { return &ast.ReferenceNode{Area: area(t, text)} }
	testCases := []struct {
		formula string
		want    ast.Node
	}{
		{"1+2*3", bin(ast.OpAdd, num(1), bin(ast.OpMul, num(2), num(3)))},
		{" 1 + 2 ", bin(ast.OpAdd, num(1), num(2))},
		{"2^3^2", bin(ast.OpPow, bin(ast.OpPow, num(2), num(3)), num(2))},
		{"-A1^2", bin(ast.OpPow, un(ast.OpMinus, ref("A1")), num(2))},
		{"A1%%", un(ast.OpPercent, un(ast.OpPercent, ref("A1")))},
		{"--1", un(ast.OpMinus, un(ast.OpMinus, num(1)))},
		{`"a"&"b"="ab"`, bin(ast.OpEqual, bin(ast.OpConcat, &ast.TextNode{Val: "a"}, &ast.TextNode{Val: "b"}), &ast.TextNode{Val: "ab"})},
		{"1<>2", bin(ast.OpNotEqual, num(1), num(2))},
		{"true", &ast.LogicalNode{Val: true}},
		{"#div/0!", &ast.ErrorNode{Code: "#DIV/0!"}},
		{"1E3", num(1000)},
		{`"say ""hi"""`, &ast.TextNode{Val: `say "hi"`}},
		{"A:A", ref("A:A")},
		{"A1:B2 B1:C3", bin(ast.OpIntersection, ref("A1:B2"), ref("B1:C3"))},
		{"(A1,B2)", bin(ast.OpUnion, ref("A1"), ref("B2"))},
		{"(A1,B2,C3)", bin(ast.OpUnion, bin(ast.OpUnion, ref("A1"), ref("B2")), ref("C3"))},
		{"A1:B2#", bin(ast.OpRange, ref("A1"), un(ast.OpSpill, ref("B2")))},
		{"A1#", un(ast.OpSpill, ref("A1"))},
		{"@A1:B2", un(ast.OpImplicitIntersection, ref("A1:B2"))},
		{"SUM(A1,B2)", &ast.FunctionNode{Name: "SUM", Args: []ast.Node{ref("A1"), ref("B2")}}},
		{"SUM(A1 B1)", &ast.FunctionNode{Name: "SUM", Args: []ast.Node{bin(ast.OpIntersection, ref("A1"), ref("B1"))}}},
		{"SUM((A1,B1))", &ast.FunctionNode{Name: "SUM", Args: []ast.Node{bin(ast.OpUnion, ref("A1"), ref("B1"))}}},
		{"IF(A1,,B1)", &ast.FunctionNode{Name: "IF", Args: []ast.Node{ref("A1"), &ast.BlankNode{}, ref("B1")}}},
		{"F()", &ast.FunctionNode{Name: "F"}},
		{"F(,)", &ast.FunctionNode{Name: "F", Args: []ast.Node{&ast.BlankNode{}, &ast.BlankNode{}}}},
		{"Sheet1!A1:B2", &ast.SheetReferenceNode{Sheet: "Sheet1", Area: area(t, "A1:B2")}},
		{"Sheet1!A1:Sheet1!B2", &ast.SheetReferenceNode{Sheet: "Sheet1", Area: area(t, "A1:B2")}},
		{"Sheet1!A1:Sheet2!B2", bin(ast.OpRange,
			&ast.SheetReferenceNode{Sheet: "Sheet1", Area: area(t, "A1")},
			&ast.SheetReferenceNode{Sheet: "Sheet2", Area: area(t, "B2")})},
		{"A1:Sheet2!B2", bin(ast.OpRange, ref("A1"), &ast.SheetReferenceNode{Sheet: "Sheet2", Area: area(t, "B2")})},
		{"'A1'!B2", &ast.SheetReferenceNode{Sheet: "A1", Area: area(t, "B2")}},
		{"(A1:B2)#", un(ast.OpSpill, ref("A1:B2"))},
		{"A1:(B2)", bin(ast.OpRange, ref("A1"), ref("B2"))},
		{"A1:(B2:C3)", bin(ast.OpRange, ref("A1"), ref("B2:C3"))},
		{"'Sales data'!$C:$C", &ast.SheetReferenceNode{Sheet: "Sales data", Area: area(t, "$C:$C")}},
		{"Jan:Mar!A1", &ast.Reference3DNode{FirstSheet: "Jan", LastSheet: "Mar", Area: area(t, "A1")}},
		{"[1]Sheet1!A1", &ast.ExternalSheetReferenceNode{WorkbookIndex: 1, Sheet: "Sheet1", Area: area(t, "A1")}},
		{"'[2]Jan:Mar'!C3", &ast.ExternalReference3DNode{WorkbookIndex: 2, FirstSheet: "Jan", LastSheet: "Mar", Area: area(t, "C3")}},
		{"Sheet1!#REF!", &ast.ErrorNode{Code: "#REF!"}},
		{"#REF!", &ast.ErrorNode{Code: "#REF!"}},
		{"Rate", &ast.NameNode{Name: "Rate"}},
		{"Sheet1!Rate", &ast.SheetNameNode{Sheet: "Sheet1", Name: "Rate"}},
		{"[1]!Rate", &ast.ExternalNameNode{WorkbookIndex: 1, Name: "Rate"}},
		{"[1]Sheet1!Rate", &ast.ExternalNameNode{WorkbookIndex: 1, Sheet: "Sheet1", Name: "Rate"}},
		{"Table1[Price]", &ast.StructureReferenceNode{Table: "Table1", Specifier: "[Price]"}},
		{"Table1[[#This Row],[Price]]", &ast.StructureReferenceNode{Table: "Table1", Specifier: "[[#This Row],[Price]]"}},
		{"[@Price]", &ast.StructureReferenceNode{Specifier: "[@Price]"}},
		{"[3]!Sales[Total]", &ast.StructureReferenceNode{HasWorkbook: true, WorkbookIndex: 3, Table: "Sales", Specifier: "[Total]"}},
		{`{1,-2;"a",#n/a}`, &ast.ArrayNode{Rows: 2, Columns: 2, Elements: []ast.ScalarValue{
			{Kind: ast.ScalarNumber, Number: 1},
			{Kind: ast.ScalarNumber, Number: -2},
			{Kind: ast.ScalarText, Text: "a"},
			{Kind: ast.ScalarError, Text: "#N/A"},
		}}},
		{"{TRUE;+3}", &ast.ArrayNode{Rows: 2, Columns: 1, Elements: []ast.ScalarValue{
			{Kind: ast.ScalarLogical, Logical: true},
			{Kind: ast.ScalarNumber, Number: 3},
		}}},
	}
	for _, tc := range testCases {
		got, err := ParseFormula(tc.formula, ast.A1)
		require.NoError(t, err, tc.formula)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s: unexpected tree (-want +got):\n%s", tc.formula, diff)
		}
	}
}

func TestParseFormulaR1C1(t *testing.T) {
	t.Parallel()
	got, err := ParseFormula("SUM(R[-1]C:R[-3]C)*RC[1]", ast.R1C1)
	require.NoError(t, err)
	rng, ok, err := TryParseR1C1("R[-1]C:R[-3]C")
	require.NoError(t, err)
	require.True(t, ok)
	cell, ok, err := TryParseR1C1("RC[1]")
	require.NoError(t, err)
	require.True(t, ok)
	want := bin(ast.OpMul,
		&ast.FunctionNode{Name: "SUM", Args: []ast.Node{&ast.ReferenceNode{Area: rng}}},
		&ast.ReferenceNode{Area: cell})
	assert.Empty(t, cmp.Diff(want, got))

	// A1 references are names in R1C1 formulas
	got, err = ParseFormula("A1", ast.R1C1)
	require.NoError(t, err)
	assert.Equal(t, &ast.NameNode{Name: "A1"}, got)
}

func TestParseFormulaErrors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		formula string
		offset  int
		message string
	}{
		{"", 0, "unexpected end of formula, expecting operand"},
		{"1+", 2, "unexpected end of formula, expecting operand"},
		{"1 2", 2, `unexpected "2", expecting operator or end of formula`},
		{"SUM(1", 5, "unexpected end of formula, expecting ',' or ')'"},
		{"(1", 2, "unexpected end of formula, expecting ')'"},
		{"A1,B1", 2, `unexpected ",", expecting operator or end of formula`},
		{"A1 ~", 3, `unrecognized input "~"`},
		{`1&"abc`, 2, `unterminated "\"abc"`},
		{"'Sheet", 0, `unterminated "'Sheet"`},
		{"A1!B2", 2, `unrecognized input "!"`},
		{"{1,2;3}", 6, "array row 2 has 1 columns, expecting 2"},
		{"{A1}", 1, `unexpected "A1", expecting array constant`},
		{"{-A1}", 2, `unexpected "A1", expecting number`},
		{"1E999", 0, "number 1E999 is out of range"},
		{"Sheet1! A1", 7, `unexpected " ", expecting reference or name after sheet prefix`},
		{"Jan:Mar!Rate", 8, `unexpected "Rate", expecting reference or name after sheet prefix`},
		{"[1]!A1", 4, `unexpected "A1", expecting name after workbook prefix`},
		{"SUM(1;2)", 5, `unexpected ";", expecting ',' or ')'`},
		{")", 0, `unexpected ")", expecting operand`},
	}
	for _, tc := range testCases {
		_, err := ParseFormula(tc.formula, ast.A1)
		require.Error(t, err, tc.formula)
		var ewp reporter.ErrorWithPos
		require.ErrorAs(t, err, &ewp, tc.formula)
		assert.Equal(t, tc.offset, ewp.GetPosition().Offset, tc.formula)
		assert.Equal(t, tc.message, ewp.Unwrap().Error(), tc.formula)
		assert.Equal(t, fmt.Sprintf("offset %d: %s", tc.offset, tc.message), err.Error(), tc.formula)
	}

	_, err := ParseFormula("1+\xff", ast.A1)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, 2, encErr.Offset)
}

func TestRenderCanonical(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		formula, canonical string
	}{
		{"1+2*3", "1+2*3"},
		{"(1+2)*3", "(1+2)*3"},
		{"1-(2-3)", "1-(2-3)"},
		{"(1-2)-3", "1-2-3"},
		{"2^(3^2)", "2^(3^2)"},
		{"-A1^2", "-A1^2"},
		{"-(A1^2)", "-(A1^2)"},
		{"(-1)%", "-1%"},
		{"-(1%)", "-(1%)"},
		{"--1", "--1"},
		{"1=2=3", "1=2=3"},
		{"1.50", "1.5"},
		{"1E3", "1000"},
		{`"a"&"b"`, `"a"&"b"`},
		{`"say ""hi"""`, `"say ""hi"""`},
		{"sum( a1 , 'Sheet1'!$b$2 )", "sum(A1,Sheet1!$B$2)"},
		{"((A1,B1),C1)", "(A1,B1,C1)"},
		{"(A1,(B1,C1))", "(A1,(B1,C1))"},
		{"SUM((A1,B1))", "SUM((A1,B1))"},
		{"A1:B2  C3", "A1:B2 C3"},
		{"'It''s'!A1", "'It''s'!A1"},
		{"Sheet1!A1:Sheet1!B2", "Sheet1!A1:B2"},
		{"Sheet1!A1:Sheet2!B2", "Sheet1!A1:Sheet2!B2"},
		{"A1:Sheet2!B2", "A1:Sheet2!B2"},
		{"(A1:B2)#", "(A1:B2)#"},
		{"(A1):B2", "A1:(B2)"},
		{"A1:(B2)", "A1:(B2)"},
		{"(Sheet1!A1):B2", "Sheet1!A1:(B2)"},
		{"(Sheet1!A1):Sheet1!B2", "Sheet1!A1:(Sheet1!B2)"},
		{"A1:(B2:C3)", "A1:(B2:C3)"},
		{"(Rate:A1):B2", "Rate:A1:(B2)"},
		{"Rate:B2:C3", "Rate:B2:C3"},
		{"'A1'!B2", "'A1'!B2"},
		{"'R1C1'!B2:C3", "'R1C1'!B2:C3"},
		{"'A1:Sheet2'!B2", "'A1:Sheet2'!B2"},
		{"#n/a", "#N/A"},
		{"false", "FALSE"},
		{`{1,-2.5;TRUE,"x"}`, `{1,-2.5;TRUE,"x"}`},
		{"A1:B2#", "A1:B2#"},
		{"@Table1[Price]", "@Table1[Price]"},
		{"F()", "F()"},
		{"IF(A1,,B1)", "IF(A1,,B1)"},
		{"[1]!Rate", "[1]!Rate"},
		{"[3]!Sales[Total]", "[3]!Sales[Total]"},
		{"'[1]Sheet 1'!A1", "'[1]Sheet 1'!A1"},
		{"Jan:Mar!A1", "Jan:Mar!A1"},
		{"'Jan:Mar'!A1", "Jan:Mar!A1"},
		{"'Jan:Mar 2'!A1", "'Jan:Mar 2'!A1"},
		{"Sheet1!#REF!+1", "#REF!+1"},
	}
	for _, tc := range testCases {
		tree, err := ParseFormula(tc.formula, ast.A1)
		require.NoError(t, err, tc.formula)
		rendered := tree.Render(ast.A1)
		assert.Equal(t, tc.canonical, rendered, tc.formula)

		reparsed, err := ParseFormula(rendered, ast.A1)
		require.NoError(t, err, rendered)
		if diff := cmp.Diff(tree, reparsed); diff != "" {
			t.Errorf("%s: tree changed after round trip (-first +second):\n%s", tc.formula, diff)
		}
		assert.Equal(t, rendered, reparsed.Render(ast.A1))
	}
}

func TestRenderConvertsStyle(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		a1          string
		row, column int
		r1c1        string
	}{
		{"A1", 1, 1, "RC"},
		{"$A$1", 5, 5, "R1C1"},
		{"B3", 2, 2, "R[1]C"},
		{"A1", 2, 3, "R[-1]C[-2]"},
		{"$B1", 3, 1, "R[-2]C2"},
		{"A:A", 1, 1, "C"},
		{"A:B", 1, 1, "C:C[1]"},
		{"1:1", 1, 1, "R"},
		{"SUM(C1:C3)", 2, 3, "SUM(R[-1]C:R[1]C)"},
		{"Sheet1!A1+[1]!Rate", 1, 1, "Sheet1!RC+[1]!Rate"},
	}
	for _, tc := range testCases {
		tree, err := ParseFormula(tc.a1, ast.A1)
		require.NoError(t, err, tc.a1)
		assert.Equal(t, tc.r1c1, ast.RenderAt(tree, ast.R1C1, tc.row, tc.column), tc.a1)

		back, err := ParseFormula(tc.r1c1, ast.R1C1)
		require.NoError(t, err, tc.r1c1)
		assert.Equal(t, tc.a1, ast.RenderAt(back, ast.A1, tc.row, tc.column), tc.r1c1)
	}

	// relative references that leave the sheet wrap around
	tree, err := ParseFormula("R[-1]C[-1]", ast.R1C1)
	require.NoError(t, err)
	assert.Equal(t, "XFD"+strconv.Itoa(ast.MaxRow), ast.RenderAt(tree, ast.A1, 1, 1))
}

// rpn renders the formula in reverse polish notation. It checks that the
// parser works with a representation other than the ast package.
type rpn struct{}

func (rpn) BlankValue() string            { return "_" }
func (rpn) LogicalValue(v bool) string    { return strconv.FormatBool(v) }
func (rpn) NumberValue(v float64) string  { return strconv.FormatFloat(v, 'g', -1, 64) }
func (rpn) TextValue(v string) string     { return strconv.Quote(v) }
func (rpn) ErrorValue(code string) string { return code }

func (rpn) BlankNode(ast.Span) string                   { return "_" }
func (r rpn) LogicalNode(_ ast.Span, v bool) string     { return r.LogicalValue(v) }
func (r rpn) NumberNode(_ ast.Span, v float64) string   { return r.NumberValue(v) }
func (r rpn) TextNode(_ ast.Span, v string) string      { return r.TextValue(v) }
func (rpn) ErrorNode(_ ast.Span, code string) string    { return code }
func (rpn) NameReference(_ ast.Span, name string) string { return name }

func (rpn) StructureReference(_ ast.Span, intra string) string {
	return intra
}

func (rpn) TableReference(_ ast.Span, table, intra string) string {
	return table + intra
}

func (rpn) ExternalTableReference(_ ast.Span, book int, table, intra string) string {
	return fmt.Sprintf("[%d]%s%s", book, table, intra)
}

func (rpn) SheetNameReference(_ ast.Span, sheet, name string) string {
	return sheet + "!" + name
}

func (rpn) ExternalNameReference(_ ast.Span, book int, sheet, name string) string {
	return fmt.Sprintf("[%d]%s!%s", book, sheet, name)
}

func (rpn) ArrayNode(_ ast.Span, rows, columns int, elements []string) string {
	return fmt.Sprintf("{%dx%d %s}", rows, columns, strings.Join(elements, " "))
}

func (rpn) LocalReference(_ ast.Span, sheets ast.SheetRange, area ast.ReferenceArea) string {
	if sheets.IsZero() {
		return area.String()
	}
	return sheets.First + "!" + area.String()
}

func (rpn) ExternalReference(_ ast.Span, book int, sheets ast.SheetRange, area ast.ReferenceArea) string {
	return fmt.Sprintf("[%d]%s!%s", book, sheets.First, area)
}

func (rpn) Function(_ ast.Span, name string, args []string) string {
	return strings.Join(append(args, fmt.Sprintf("%s/%d", name, len(args))), " ")
}

func (rpn) BinaryNode(_ ast.Span, op ast.BinaryOp, left, right string) string {
	sym := op.String()
	if op == ast.OpIntersection {
		sym = "isect"
	}
	return left + " " + right + " " + sym
}

func (rpn) UnaryNode(_ ast.Span, op ast.UnaryOp, operand string) string {
	sym := op.String()
	if op == ast.OpMinus {
		sym = "neg"
	}
	return operand + " " + sym
}

func TestParseCustomFactory(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		formula, want string
	}{
		{"1+2*3", "1 2 3 * +"},
		{"-(1+2)^2%", "1 2 + neg 2 % ^"},
		{"SUM(A1:B2 C1,,{1,2})", "A1:B2 C1 isect _ {1x2 1 2} SUM/3"},
		{`Sheet1!A1&"x"`, `Sheet1!A1 "x" &`},
		{"IF(TRUE,[2]!Rate)", "true [2]!Rate IF/2"},
	}
	for _, tc := range testCases {
		got, err := Parse[string, string](tc.formula, ast.A1, rpn{})
		require.NoError(t, err, tc.formula)
		assert.Equal(t, tc.want, got, tc.formula)
	}

	_, err := Parse[string, string]("1+", ast.A1, rpn{})
	assert.Error(t, err)
}

// spans records the source text of every node in creation order.
type spans struct {
	rpn
	src  string
	seen []string
}

func (s *spans) record(span ast.Span) string {
	text := s.src[span.Start:span.End]
	s.seen = append(s.seen, text)
	return text
}

func (s *spans) NumberNode(span ast.Span, _ float64) string { return s.record(span) }
func (s *spans) LocalReference(span ast.Span, _ ast.SheetRange, _ ast.ReferenceArea) string {
	return s.record(span)
}
func (s *spans) Function(span ast.Span, _ string, _ []string) string { return s.record(span) }
func (s *spans) BinaryNode(span ast.Span, _ ast.BinaryOp, _, _ string) string {
	return s.record(span)
}
func (s *spans) UnaryNode(span ast.Span, _ ast.UnaryOp, _ string) string { return s.record(span) }

func TestParseSpans(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		formula string
		want    []string
	}{
		{"1+2*3", []string{"1", "2", "3", "2*3", "1+2*3"}},
		{" 1 +  2 ", []string{"1", "2", "1 +  2"}},
		{"SUM(A1, -2)%", []string{"A1", "2", "-2", "SUM(A1, -2)", "SUM(A1, -2)%"}},
		{"Sheet1!A1:B2 C3", []string{"Sheet1!A1:B2", "C3", "Sheet1!A1:B2 C3"}},
		{"(1+2)*3", []string{"1", "2", "1+2", "3", "(1+2)*3"}},
	}
	for _, tc := range testCases {
		f := &spans{src: tc.formula}
		root, err := Parse[string, string](tc.formula, ast.A1, f)
		require.NoError(t, err, tc.formula)
		assert.Equal(t, tc.want, f.seen, tc.formula)
		assert.Equal(t, tc.want[len(tc.want)-1], root, tc.formula)
	}
}

func TestParseFunctionNames(t *testing.T) {
	t.Parallel()
	formula := "IFS(A1,1)+_xlfn._xlws.FILTER(A1:A3,TRUE)+sum(1)"

	tree, err := Parse[ast.ScalarValue, ast.Node](formula, ast.A1, &ast.Builder{FunctionNames: ast.FunctionNamesStorage})
	require.NoError(t, err)
	assert.Equal(t, "_xlfn.IFS(A1,1)+_xlfn._xlws.FILTER(A1:A3,TRUE)+SUM(1)", tree.Render(ast.A1))

	tree, err = Parse[ast.ScalarValue, ast.Node](formula, ast.A1, &ast.Builder{FunctionNames: ast.FunctionNamesDisplay})
	require.NoError(t, err)
	assert.Equal(t, "IFS(A1,1)+FILTER(A1:A3,TRUE)+SUM(1)", tree.Render(ast.A1))

	tree, err = ParseFormula(formula, ast.A1)
	require.NoError(t, err)
	assert.Equal(t, formula, tree.Render(ast.A1))
}

func TestParseConcurrently(t *testing.T) {
	t.Parallel()
	formulas := []string{
		"SUM(Sheet1!A1:B10)*2",
		"IF(A1>0,\"pos\",\"neg\")",
		"(A1:A3,C1:C3)",
		"VLOOKUP(A2,'Price list'!$A:$C,3,FALSE)",
		"{1,2;3,4}",
	}
	var grp errgroup.Group
	for i := 0; i < 32; i++ {
		formula := formulas[i%len(formulas)]
		grp.Go(func() error {
			tree, err := ParseFormula(formula, ast.A1)
			if err != nil {
				return err
			}
			if got := tree.Render(ast.A1); got != formula {
				return fmt.Errorf("rendered %q as %q", formula, got)
			}
			return nil
		})
	}
	require.NoError(t, grp.Wait())
}
