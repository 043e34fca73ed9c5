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

import "github.com/kralicky/xlformula/ast"

// ScalarFactory creates the values of array constants.
type ScalarFactory[S any] interface {
	BlankValue() S
	LogicalValue(v bool) S
	NumberValue(v float64) S
	// TextValue receives the text with quotes removed and escapes resolved.
	TextValue(v string) S
	ErrorValue(code string) S
}

// Factory is the set of callbacks the formula parser uses to build its
// result. The parser never inspects the values it gets back, so N can be
// any representation: a tree, a flat instruction list, or a string.
//
// Every node callback receives the span of formula text the node was
// parsed from. Children are always created before their parents.
type Factory[S, N any] interface {
	ScalarFactory[S]

	BlankNode(span ast.Span) N
	LogicalNode(span ast.Span, v bool) N
	NumberNode(span ast.Span, v float64) N
	TextNode(span ast.Span, v string) N
	ErrorNode(span ast.Span, code string) N
	ArrayNode(span ast.Span, rows, columns int, elements []S) N

	// LocalReference is a reference into the same workbook. sheets is zero
	// for references without a sheet prefix.
	LocalReference(span ast.Span, sheets ast.SheetRange, area ast.ReferenceArea) N
	// ExternalReference is a reference into the workbook with the given
	// index.
	ExternalReference(span ast.Span, book int, sheets ast.SheetRange, area ast.ReferenceArea) N

	Function(span ast.Span, name string, args []N) N

	// StructureReference is a table reference without a table name, e.g.
	// [@Price].
	StructureReference(span ast.Span, intra string) N
	TableReference(span ast.Span, table, intra string) N
	ExternalTableReference(span ast.Span, book int, table, intra string) N

	NameReference(span ast.Span, name string) N
	SheetNameReference(span ast.Span, sheet, name string) N
	// ExternalNameReference has an empty sheet for workbook-level names.
	ExternalNameReference(span ast.Span, book int, sheet, name string) N

	BinaryNode(span ast.Span, op ast.BinaryOp, left, right N) N
	UnaryNode(span ast.Span, op ast.UnaryOp, operand N) N
}

var _ Factory[ast.ScalarValue, ast.Node] = (*ast.Builder)(nil)
