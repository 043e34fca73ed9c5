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
	"log/slog"
	"strconv"
	"strings"

	"github.com/kralicky/xlformula/names"
)

// Render returns the formula text of n in the given style, without the
// leading '='. References written in the other style are converted
// relative to cell A1.
//
// The output is canonical: sheet names are quoted only when needed, error
// codes are upper case and parentheses are only emitted where operator
// precedence requires them. Unions are always parenthesized, since a bare
// comma would separate function arguments. Cells that would be read back
// as the two corners of one area are kept apart with parentheses, as in
// A1:(B2) and (A1:B2)#.
func Render(n Node, style ReferenceStyle) string {
	return RenderAt(n, style, origin.Row, origin.Column)
}

// RenderAt is like Render, but relative references are converted against
// the cell at the given 1-based row and column. This is how a formula is
// moved between A1 and R1C1 notation.
func RenderAt(n Node, style ReferenceStyle, row, column int) string {
	r := renderer{style: style, anchor: Anchor{Row: row, Column: column}}
	r.node(n, 0)
	return r.sb.String()
}

type renderer struct {
	sb     strings.Builder
	style  ReferenceStyle
	anchor Anchor
}

// precedence returns the binding strength of n as an operand.
func precedence(n Node) int {
	switch n := n.(type) {
	case *BinaryNode:
		return n.Op.Precedence()
	case *UnaryNode:
		return n.Op.Precedence()
	case *NumberNode:
		if n.Val < 0 {
			return PrecPrefix
		}
	}
	return PrecOperand
}

// node writes n, adding parentheses when n binds looser than minPrec.
func (r *renderer) node(n Node, minPrec int) {
	r.operand(n, needsParens(n, minPrec))
}

func (r *renderer) operand(n Node, paren bool) {
	if paren {
		r.sb.WriteByte('(')
	}
	r.write(n)
	if paren {
		r.sb.WriteByte(')')
	}
}

func needsParens(n Node, minPrec int) bool {
	if b, ok := n.(*BinaryNode); ok && b.Op == OpUnion {
		return true
	}
	return precedence(n) < minPrec
}

// areaOf returns the area of a reference node that has one, along
// with the sheet prefix it is written with.
func areaOf(n Node) (ReferenceArea, string, bool) {
	switch n := n.(type) {
	case *ReferenceNode:
		return n.Area, "", true
	case *SheetReferenceNode:
		return n.Area, names.SheetPrefix(0, false, n.Sheet, ""), true
	case *Reference3DNode:
		return n.Area, names.SheetPrefix(0, false, n.FirstSheet, n.LastSheet), true
	case *ExternalSheetReferenceNode:
		return n.Area, names.SheetPrefix(n.WorkbookIndex, true, n.Sheet, ""), true
	case *ExternalReference3DNode:
		return n.Area, names.SheetPrefix(n.WorkbookIndex, true, n.FirstSheet, n.LastSheet), true
	}
	return ReferenceArea{}, "", false
}

// trailingCell returns the single-cell reference that ends the text of n
// when it is written as an operand of minPrec, or nil. Such a cell is
// joined with a following ":CELL" when the text is parsed again.
func trailingCell(n Node, minPrec int) Node {
	if needsParens(n, minPrec) {
		return nil
	}
	switch n := n.(type) {
	case *BinaryNode:
		return trailingCell(n.Right, n.Op.Precedence()+1)
	case *UnaryNode:
		if n.Op.IsPostfix() {
			return nil
		}
		return trailingCell(n.Operand, n.Op.Precedence())
	}
	if area, _, ok := areaOf(n); ok && area.Kind == AreaCell {
		return n
	}
	return nil
}

// mergesWith reports whether right, written directly after "left:", would
// be read as the second corner of a range started by left. A second cell
// without a sheet prefix always continues the range; one with a prefix
// only continues it when the prefix is the same.
func mergesWith(left, right Node) bool {
	if left == nil {
		return false
	}
	area, prefix, ok := areaOf(right)
	if !ok || (area.Kind != AreaCell && area.Kind != AreaRange) {
		return false
	}
	if prefix == "" {
		return true
	}
	_, leftPrefix, _ := areaOf(left)
	return prefix == leftPrefix
}

func (r *renderer) write(n Node) {
	switch n := n.(type) {
	case *BlankNode:
	case *LogicalNode:
		writeLogical(&r.sb, n.Val)
	case *NumberNode:
		writeNumber(&r.sb, n.Val)
	case *TextNode:
		writeText(&r.sb, n.Val)
	case *ErrorNode:
		r.sb.WriteString(strings.ToUpper(n.Code))
	case *ArrayNode:
		r.array(n)
	case *ReferenceNode, *SheetReferenceNode, *Reference3DNode,
		*ExternalSheetReferenceNode, *ExternalReference3DNode:
		area, prefix, _ := areaOf(n)
		r.sb.WriteString(prefix)
		area.write(&r.sb, r.style, r.anchor)
	case *StructureReferenceNode:
		if n.HasWorkbook {
			r.book(n.WorkbookIndex)
		}
		r.sb.WriteString(n.Table)
		r.sb.WriteString(n.Specifier)
	case *NameNode:
		r.sb.WriteString(n.Name)
	case *SheetNameNode:
		r.sb.WriteString(names.SheetPrefix(0, false, n.Sheet, ""))
		r.sb.WriteString(n.Name)
	case *ExternalNameNode:
		if n.Sheet == "" {
			r.book(n.WorkbookIndex)
		} else {
			r.sb.WriteString(names.SheetPrefix(n.WorkbookIndex, true, n.Sheet, ""))
		}
		r.sb.WriteString(n.Name)
	case *BinaryNode:
		r.binary(n)
	case *UnaryNode:
		r.unary(n)
	case *FunctionNode:
		r.sb.WriteString(n.Name)
		r.sb.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				r.sb.WriteByte(',')
			}
			r.node(arg, 0)
		}
		r.sb.WriteByte(')')
	default:
		slog.Error("ast: cannot render node", "type", fmt.Sprintf("%T", n))
		panic(fmt.Sprintf("unknown node type %T", n))
	}
}

func (r *renderer) book(index int) {
	r.sb.WriteByte('[')
	r.sb.WriteString(strconv.Itoa(index))
	r.sb.WriteString("]!")
}

func (r *renderer) binary(n *BinaryNode) {
	prec := n.Op.Precedence()
	if left, ok := n.Left.(*BinaryNode); ok && n.Op == OpUnion && left.Op == OpUnion {
		r.write(left)
	} else {
		r.node(n.Left, prec)
	}
	r.sb.WriteString(n.Op.String())
	// left-associative: an operand of equal precedence on the right needs
	// parentheses
	paren := needsParens(n.Right, prec+1)
	if n.Op == OpRange && mergesWith(trailingCell(n.Left, prec), n.Right) {
		paren = true
	}
	r.operand(n.Right, paren)
}

func (r *renderer) unary(n *UnaryNode) {
	prec := n.Op.Precedence()
	if n.Op.IsPostfix() {
		paren := needsParens(n.Operand, prec)
		if area, _, ok := areaOf(n.Operand); ok && n.Op == OpSpill && area.Kind == AreaRange {
			// A1:B2# spills B2 alone
			paren = true
		}
		r.operand(n.Operand, paren)
		r.sb.WriteString(n.Op.String())
		return
	}
	r.sb.WriteString(n.Op.String())
	r.node(n.Operand, prec)
}

func (r *renderer) array(n *ArrayNode) {
	r.sb.WriteByte('{')
	for row := 0; row < n.Rows; row++ {
		if row > 0 {
			r.sb.WriteByte(';')
		}
		for col := 0; col < n.Columns; col++ {
			if col > 0 {
				r.sb.WriteByte(',')
			}
			n.At(row, col).write(&r.sb)
		}
	}
	r.sb.WriteByte('}')
}
