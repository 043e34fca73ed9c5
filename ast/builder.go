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
	"strings"

	"github.com/kralicky/xlformula/functions"
)

// FunctionNameMode controls how a Builder records function names.
type FunctionNameMode int

const (
	// FunctionNamesAsWritten keeps names exactly as they appear in the
	// formula.
	FunctionNamesAsWritten FunctionNameMode = iota
	// FunctionNamesDisplay strips storage prefixes, e.g. _xlfn.IFS => IFS.
	FunctionNamesDisplay
	// FunctionNamesStorage adds storage prefixes, e.g. IFS => _xlfn.IFS.
	FunctionNamesStorage
)

// Builder creates the nodes of this package. It is the construction
// callback set used by the parser; the zero value is ready to use.
//
// Source spans are accepted but not recorded in the nodes.
type Builder struct {
	FunctionNames FunctionNameMode
	// Catalog is consulted to translate function names. If nil,
	// functions.Default() is used.
	Catalog *functions.Catalog
}

func (b *Builder) catalog() *functions.Catalog {
	if b.Catalog != nil {
		return b.Catalog
	}
	return functions.Default()
}

func (b *Builder) BlankValue() ScalarValue {
	return ScalarValue{Kind: ScalarBlank}
}

func (b *Builder) LogicalValue(v bool) ScalarValue {
	return ScalarValue{Kind: ScalarLogical, Logical: v}
}

func (b *Builder) NumberValue(v float64) ScalarValue {
	return ScalarValue{Kind: ScalarNumber, Number: v}
}

func (b *Builder) TextValue(v string) ScalarValue {
	return ScalarValue{Kind: ScalarText, Text: v}
}

func (b *Builder) ErrorValue(code string) ScalarValue {
	return ScalarValue{Kind: ScalarError, Text: strings.ToUpper(code)}
}

func (b *Builder) BlankNode(Span) Node {
	return &BlankNode{}
}

func (b *Builder) LogicalNode(_ Span, v bool) Node {
	return &LogicalNode{Val: v}
}

func (b *Builder) NumberNode(_ Span, v float64) Node {
	return &NumberNode{Val: v}
}

func (b *Builder) TextNode(_ Span, v string) Node {
	return &TextNode{Val: v}
}

func (b *Builder) ErrorNode(_ Span, code string) Node {
	return &ErrorNode{Code: strings.ToUpper(code)}
}

func (b *Builder) ArrayNode(_ Span, rows, columns int, elements []ScalarValue) Node {
	return &ArrayNode{Rows: rows, Columns: columns, Elements: elements}
}

func (b *Builder) LocalReference(_ Span, sheets SheetRange, area ReferenceArea) Node {
	switch {
	case sheets.IsZero():
		return &ReferenceNode{Area: area}
	case sheets.Last == "":
		return &SheetReferenceNode{Sheet: sheets.First, Area: area}
	default:
		return &Reference3DNode{FirstSheet: sheets.First, LastSheet: sheets.Last, Area: area}
	}
}

func (b *Builder) ExternalReference(_ Span, book int, sheets SheetRange, area ReferenceArea) Node {
	if sheets.Last == "" {
		return &ExternalSheetReferenceNode{WorkbookIndex: book, Sheet: sheets.First, Area: area}
	}
	return &ExternalReference3DNode{WorkbookIndex: book, FirstSheet: sheets.First, LastSheet: sheets.Last, Area: area}
}

func (b *Builder) Function(_ Span, name string, args []Node) Node {
	switch b.FunctionNames {
	case FunctionNamesDisplay:
		name = b.catalog().DisplayName(name)
	case FunctionNamesStorage:
		name = b.catalog().StorageName(name)
	}
	return &FunctionNode{Name: name, Args: args}
}

func (b *Builder) StructureReference(_ Span, intra string) Node {
	return &StructureReferenceNode{Specifier: intra}
}

func (b *Builder) TableReference(_ Span, table, intra string) Node {
	return &StructureReferenceNode{Table: table, Specifier: intra}
}

func (b *Builder) ExternalTableReference(_ Span, book int, table, intra string) Node {
	return &StructureReferenceNode{HasWorkbook: true, WorkbookIndex: book, Table: table, Specifier: intra}
}

func (b *Builder) NameReference(_ Span, name string) Node {
	return &NameNode{Name: name}
}

func (b *Builder) SheetNameReference(_ Span, sheet, name string) Node {
	return &SheetNameNode{Sheet: sheet, Name: name}
}

func (b *Builder) ExternalNameReference(_ Span, book int, sheet, name string) Node {
	return &ExternalNameNode{WorkbookIndex: book, Sheet: sheet, Name: name}
}

func (b *Builder) BinaryNode(_ Span, op BinaryOp, left, right Node) Node {
	return &BinaryNode{Op: op, Left: left, Right: right}
}

func (b *Builder) UnaryNode(_ Span, op UnaryOp, operand Node) Node {
	return &UnaryNode{Op: op, Operand: operand}
}
