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

// Node is the interface implemented by all nodes in the AST. The set of
// node types is closed: every implementation lives in this package, so a
// type switch over the types listed below is exhaustive.
//
// Nodes own their children and are never modified after construction.
type Node interface {
	// Render returns the formula text of the node in the given style. The
	// text parses back to an equal node.
	Render(style ReferenceStyle) string
	formulaNode()
}

var (
	_ Node = (*BlankNode)(nil)
	_ Node = (*LogicalNode)(nil)
	_ Node = (*NumberNode)(nil)
	_ Node = (*TextNode)(nil)
	_ Node = (*ErrorNode)(nil)
	_ Node = (*ArrayNode)(nil)
	_ Node = (*ReferenceNode)(nil)
	_ Node = (*SheetReferenceNode)(nil)
	_ Node = (*Reference3DNode)(nil)
	_ Node = (*ExternalSheetReferenceNode)(nil)
	_ Node = (*ExternalReference3DNode)(nil)
	_ Node = (*StructureReferenceNode)(nil)
	_ Node = (*NameNode)(nil)
	_ Node = (*SheetNameNode)(nil)
	_ Node = (*ExternalNameNode)(nil)
	_ Node = (*BinaryNode)(nil)
	_ Node = (*UnaryNode)(nil)
	_ Node = (*FunctionNode)(nil)
)

// Span is a range of byte offsets in formula text, End exclusive.
type Span struct {
	Start, End int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// SheetRange names the sheets of a reference. Last is empty unless the
// reference spans several sheets (a 3-D reference).
type SheetRange struct {
	First, Last string
}

// IsZero reports whether no sheet is named.
func (s SheetRange) IsZero() bool {
	return s.First == "" && s.Last == ""
}

// BlankNode is an omitted value, such as the missing argument in
// IF(A1,,B1).
type BlankNode struct{}

// ArrayNode is an array constant. Elements are stored row by row.
//
//	{1,2;3,4}
type ArrayNode struct {
	Rows, Columns int
	Elements      []ScalarValue
}

// At returns the element at the given 0-based row and column.
func (n *ArrayNode) At(row, column int) ScalarValue {
	return n.Elements[row*n.Columns+column]
}

// ReferenceNode is a reference without a sheet, e.g. $A$1:B4.
type ReferenceNode struct {
	Area ReferenceArea
}

// SheetReferenceNode is a reference to another sheet of the same
// workbook, e.g. 'Sales data'!B2.
type SheetReferenceNode struct {
	Sheet string
	Area  ReferenceArea
}

// Reference3DNode is a reference spanning several sheets of the same
// workbook, e.g. Jan:Mar!A1.
type Reference3DNode struct {
	FirstSheet, LastSheet string
	Area                  ReferenceArea
}

// ExternalSheetReferenceNode is a reference to a sheet of an external
// workbook, e.g. [1]Prices!A1.
type ExternalSheetReferenceNode struct {
	WorkbookIndex int
	Sheet         string
	Area          ReferenceArea
}

// ExternalReference3DNode is a reference into an external workbook
// spanning one or more sheets, e.g. '[2]Jan:Mar'!C3.
type ExternalReference3DNode struct {
	WorkbookIndex         int
	FirstSheet, LastSheet string
	Area                  ReferenceArea
}

// StructureReferenceNode is a structured reference to a table. Table is
// empty for references inside the table itself. Specifier is the bracketed
// intra-table reference as written, e.g. [[#This Row],[Price]].
type StructureReferenceNode struct {
	HasWorkbook   bool
	WorkbookIndex int
	Table         string
	Specifier     string
}

// NameNode is a reference to a defined name.
type NameNode struct {
	Name string
}

// SheetNameNode is a reference to a name defined on a sheet, e.g.
// Sheet1!Rate.
type SheetNameNode struct {
	Sheet string
	Name  string
}

// ExternalNameNode is a reference to a name of an external workbook, e.g.
// [1]!Rate or [1]Sheet1!Rate. Sheet is empty for workbook-level names.
type ExternalNameNode struct {
	WorkbookIndex int
	Sheet         string
	Name          string
}

// BinaryNode applies a binary operator.
type BinaryNode struct {
	Op          BinaryOp
	Left, Right Node
}

// UnaryNode applies a prefix or postfix operator.
type UnaryNode struct {
	Op      UnaryOp
	Operand Node
}

// FunctionNode is a function call. Name is written as it appears in the
// formula, without the opening parenthesis.
type FunctionNode struct {
	Name string
	Args []Node
}

func (*BlankNode) formulaNode()                  {}
func (*LogicalNode) formulaNode()                {}
func (*NumberNode) formulaNode()                 {}
func (*TextNode) formulaNode()                   {}
func (*ErrorNode) formulaNode()                  {}
func (*ArrayNode) formulaNode()                  {}
func (*ReferenceNode) formulaNode()              {}
func (*SheetReferenceNode) formulaNode()         {}
func (*Reference3DNode) formulaNode()            {}
func (*ExternalSheetReferenceNode) formulaNode() {}
func (*ExternalReference3DNode) formulaNode()    {}
func (*StructureReferenceNode) formulaNode()     {}
func (*NameNode) formulaNode()                   {}
func (*SheetNameNode) formulaNode()              {}
func (*ExternalNameNode) formulaNode()           {}
func (*BinaryNode) formulaNode()                 {}
func (*UnaryNode) formulaNode()                  {}
func (*FunctionNode) formulaNode()               {}

func (n *BlankNode) Render(style ReferenceStyle) string                  { return Render(n, style) }
func (n *LogicalNode) Render(style ReferenceStyle) string                { return Render(n, style) }
func (n *NumberNode) Render(style ReferenceStyle) string                 { return Render(n, style) }
func (n *TextNode) Render(style ReferenceStyle) string                   { return Render(n, style) }
func (n *ErrorNode) Render(style ReferenceStyle) string                  { return Render(n, style) }
func (n *ArrayNode) Render(style ReferenceStyle) string                  { return Render(n, style) }
func (n *ReferenceNode) Render(style ReferenceStyle) string              { return Render(n, style) }
func (n *SheetReferenceNode) Render(style ReferenceStyle) string         { return Render(n, style) }
func (n *Reference3DNode) Render(style ReferenceStyle) string            { return Render(n, style) }
func (n *ExternalSheetReferenceNode) Render(style ReferenceStyle) string { return Render(n, style) }
func (n *ExternalReference3DNode) Render(style ReferenceStyle) string    { return Render(n, style) }
func (n *StructureReferenceNode) Render(style ReferenceStyle) string     { return Render(n, style) }
func (n *NameNode) Render(style ReferenceStyle) string                   { return Render(n, style) }
func (n *SheetNameNode) Render(style ReferenceStyle) string              { return Render(n, style) }
func (n *ExternalNameNode) Render(style ReferenceStyle) string           { return Render(n, style) }
func (n *BinaryNode) Render(style ReferenceStyle) string                 { return Render(n, style) }
func (n *UnaryNode) Render(style ReferenceStyle) string                  { return Render(n, style) }
func (n *FunctionNode) Render(style ReferenceStyle) string               { return Render(n, style) }

// IsReference reports whether n is one of the reference node types.
func IsReference(n Node) bool {
	switch n.(type) {
	case *ReferenceNode, *SheetReferenceNode, *Reference3DNode,
		*ExternalSheetReferenceNode, *ExternalReference3DNode,
		*StructureReferenceNode:
		return true
	}
	return false
}
