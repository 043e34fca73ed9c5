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
	"strconv"
	"strings"

	"github.com/kralicky/xlformula/ast"
	"github.com/kralicky/xlformula/reporter"
)

// ParseFormula parses formula text, without the leading '=', into a tree
// of ast nodes.
func ParseFormula(formula string, style ast.ReferenceStyle) (ast.Node, error) {
	return Parse[ast.ScalarValue, ast.Node](formula, style, &ast.Builder{})
}

// Parse parses formula text, without the leading '=', calling f to build
// the result. Syntax errors are returned as reporter.ErrorWithPos; text
// that is not valid UTF-8 yields an *EncodingError.
//
// Operators bind, from loosest to tightest: comparisons, &, + and -, * and
// /, ^, postfix %, prefix + and -, the union comma (only inside
// parentheses), intersection (whitespace), prefix @, the range colon and
// postfix #. All binary operators are left-associative.
func Parse[S, N any](formula string, style ast.ReferenceStyle, f Factory[S, N]) (N, error) {
	var zero N
	tokens, err := Tokenize(formula, style)
	if err != nil {
		return zero, err
	}
	p := &formulaParser[S, N]{src: formula, tokens: tokens, style: style, f: f}
	if style == ast.R1C1 {
		p.cell, p.cellSpan = SymbolR1C1Cell, SymbolR1C1SpanReference
	} else {
		p.cell, p.cellSpan = SymbolA1Cell, SymbolA1SpanReference
	}
	root, err := p.parseExpr()
	if err != nil {
		return zero, err
	}
	if t := p.peek(); t.Symbol != SymbolEOF {
		return zero, p.unexpected(t, "operator or end of formula")
	}
	return root, nil
}

type formulaParser[S, N any] struct {
	src    string
	tokens []Token
	pos    int
	style  ast.ReferenceStyle
	f      Factory[S, N]

	// reference symbols of the style
	cell, cellSpan Symbol
	// union is set inside parentheses, where a comma is the union operator
	// rather than an argument separator
	union bool
}

// peek returns the next token that is not whitespace.
func (p *formulaParser[S, N]) peek() Token {
	for i := p.pos; i < len(p.tokens); i++ {
		if p.tokens[i].Symbol != SymbolSpace {
			return p.tokens[i]
		}
	}
	return p.tokens[len(p.tokens)-1]
}

// next consumes and returns the next token that is not whitespace.
func (p *formulaParser[S, N]) next() Token {
	for p.pos < len(p.tokens)-1 && p.tokens[p.pos].Symbol == SymbolSpace {
		p.pos++
	}
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

// end returns the end offset of the last consumed token.
func (p *formulaParser[S, N]) end() int {
	if p.pos == 0 {
		return 0
	}
	return p.tokens[p.pos-1].End()
}

func (p *formulaParser[S, N]) span(start int) ast.Span {
	return ast.Span{Start: start, End: p.end()}
}

func (p *formulaParser[S, N]) text(t Token) string {
	return t.Text(p.src)
}

func (p *formulaParser[S, N]) unexpected(t Token, expected string) error {
	pos := reporter.Position{Offset: t.Start, Length: t.Length}
	switch t.Symbol {
	case SymbolError:
		if t.Length == 0 {
			return reporter.Errorf(pos, "unterminated %q", p.src[t.Start:])
		}
		return reporter.Errorf(pos, "unrecognized input %q", p.text(t))
	case SymbolEOF:
		return reporter.Error(pos, reporter.UnexpectedTokenError{Expected: expected})
	}
	return reporter.Error(pos, reporter.UnexpectedTokenError{Found: p.text(t), Expected: expected})
}

func (p *formulaParser[S, N]) expect(sym Symbol, expected string) (Token, error) {
	if t := p.peek(); t.Symbol != sym {
		return t, p.unexpected(t, expected)
	}
	return p.next(), nil
}

var comparisonOps = map[Symbol]ast.BinaryOp{
	SymbolEq: ast.OpEqual,
	SymbolNe: ast.OpNotEqual,
	SymbolLt: ast.OpLess,
	SymbolLe: ast.OpLessOrEqual,
	SymbolGt: ast.OpGreater,
	SymbolGe: ast.OpGreaterOrEqual,
}

var (
	concatOps         = map[Symbol]ast.BinaryOp{SymbolConcat: ast.OpConcat}
	additiveOps       = map[Symbol]ast.BinaryOp{SymbolPlus: ast.OpAdd, SymbolMinus: ast.OpSub}
	multiplicativeOps = map[Symbol]ast.BinaryOp{SymbolMult: ast.OpMul, SymbolDiv: ast.OpDiv}
	powerOps          = map[Symbol]ast.BinaryOp{SymbolPow: ast.OpPow}
)

func (p *formulaParser[S, N]) parseExpr() (N, error) {
	return p.parseBinary(0)
}

// binaryLevels lists the arithmetic and comparison operators, loosest
// first. Below the last level is parsePercent.
var binaryLevels = []map[Symbol]ast.BinaryOp{
	comparisonOps,
	concatOps,
	additiveOps,
	multiplicativeOps,
	powerOps,
}

func (p *formulaParser[S, N]) parseBinary(level int) (N, error) {
	if level == len(binaryLevels) {
		return p.parsePercent()
	}
	start := p.peek().Start
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return left, err
	}
	for {
		op, ok := binaryLevels[level][p.peek().Symbol]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return right, err
		}
		left = p.f.BinaryNode(p.span(start), op, left, right)
	}
}

func (p *formulaParser[S, N]) parsePercent() (N, error) {
	start := p.peek().Start
	n, err := p.parsePrefix()
	if err != nil {
		return n, err
	}
	for p.peek().Symbol == SymbolPercent {
		p.next()
		n = p.f.UnaryNode(p.span(start), ast.OpPercent, n)
	}
	return n, nil
}

func (p *formulaParser[S, N]) parsePrefix() (N, error) {
	t := p.peek()
	var op ast.UnaryOp
	switch t.Symbol {
	case SymbolPlus:
		op = ast.OpPlus
	case SymbolMinus:
		op = ast.OpMinus
	default:
		return p.parseUnion()
	}
	p.next()
	operand, err := p.parsePrefix()
	if err != nil {
		return operand, err
	}
	return p.f.UnaryNode(p.span(t.Start), op, operand), nil
}

func (p *formulaParser[S, N]) parseUnion() (N, error) {
	start := p.peek().Start
	left, err := p.parseIntersection()
	if err != nil || !p.union {
		return left, err
	}
	for p.peek().Symbol == SymbolComma {
		p.next()
		right, err := p.parseIntersection()
		if err != nil {
			return right, err
		}
		left = p.f.BinaryNode(p.span(start), ast.OpUnion, left, right)
	}
	return left, nil
}

func (p *formulaParser[S, N]) parseIntersection() (N, error) {
	start := p.peek().Start
	left, err := p.parseImplicit()
	if err != nil {
		return left, err
	}
	// whitespace is an operator only when another operand follows it
	for p.tokens[p.pos].Symbol == SymbolSpace && p.startsOperand(p.peek().Symbol) {
		right, err := p.parseImplicit()
		if err != nil {
			return right, err
		}
		left = p.f.BinaryNode(p.span(start), ast.OpIntersection, left, right)
	}
	return left, nil
}

func (p *formulaParser[S, N]) startsOperand(sym Symbol) bool {
	switch sym {
	case SymbolAt, p.cell, p.cellSpan, SymbolSheetRangePrefix, SymbolSingleSheetPrefix,
		SymbolBookPrefix, SymbolFunction, SymbolName, SymbolIntraTableReference,
		SymbolLParen, SymbolRefError:
		return true
	}
	return false
}

func (p *formulaParser[S, N]) parseImplicit() (N, error) {
	t := p.peek()
	if t.Symbol != SymbolAt {
		return p.parseRange()
	}
	p.next()
	operand, err := p.parseImplicit()
	if err != nil {
		return operand, err
	}
	return p.f.UnaryNode(p.span(t.Start), ast.OpImplicitIntersection, operand), nil
}

func (p *formulaParser[S, N]) parseRange() (N, error) {
	start := p.peek().Start
	left, err := p.parseSpill()
	if err != nil {
		return left, err
	}
	for p.peek().Symbol == SymbolColon {
		p.next()
		right, err := p.parseSpill()
		if err != nil {
			return right, err
		}
		left = p.f.BinaryNode(p.span(start), ast.OpRange, left, right)
	}
	return left, nil
}

func (p *formulaParser[S, N]) parseSpill() (N, error) {
	start := p.peek().Start
	n, err := p.parsePrimary()
	if err != nil {
		return n, err
	}
	for p.peek().Symbol == SymbolHash {
		p.next()
		n = p.f.UnaryNode(p.span(start), ast.OpSpill, n)
	}
	return n, nil
}

func (p *formulaParser[S, N]) parsePrimary() (N, error) {
	var zero N
	t := p.peek()
	switch t.Symbol {
	case SymbolNumber:
		p.next()
		v, err := p.number(t)
		if err != nil {
			return zero, err
		}
		return p.f.NumberNode(p.span(t.Start), v), nil
	case SymbolString:
		p.next()
		return p.f.TextNode(p.span(t.Start), ParseString(p.text(t))), nil
	case SymbolLogical:
		p.next()
		return p.f.LogicalNode(p.span(t.Start), strings.EqualFold(p.text(t), "TRUE")), nil
	case SymbolErrorLiteral, SymbolRefError:
		p.next()
		return p.f.ErrorNode(p.span(t.Start), strings.ToUpper(p.text(t))), nil
	case p.cell, p.cellSpan:
		p.next()
		area := p.area(t, nil)
		return p.f.LocalReference(p.span(t.Start), ast.SheetRange{}, area), nil
	case SymbolSingleSheetPrefix, SymbolSheetRangePrefix:
		return p.parsePrefixed()
	case SymbolBookPrefix:
		return p.parseBook()
	case SymbolFunction:
		return p.parseFunction()
	case SymbolName:
		p.next()
		name := p.text(t)
		if p.tokens[p.pos].Symbol == SymbolIntraTableReference {
			intra := p.next()
			return p.f.TableReference(p.span(t.Start), name, p.text(intra)), nil
		}
		return p.f.NameReference(p.span(t.Start), name), nil
	case SymbolIntraTableReference:
		p.next()
		return p.f.StructureReference(p.span(t.Start), p.text(t)), nil
	case SymbolLParen:
		p.next()
		saved := p.union
		p.union = true
		n, err := p.parseExpr()
		p.union = saved
		if err != nil {
			return n, err
		}
		if _, err := p.expect(SymbolRParen, "')'"); err != nil {
			return zero, err
		}
		return n, nil
	case SymbolLBrace:
		return p.parseArray()
	}
	return zero, p.unexpected(t, "operand")
}

func (p *formulaParser[S, N]) number(t Token) (float64, error) {
	v, err := strconv.ParseFloat(p.text(t), 64)
	if err != nil {
		return 0, reporter.Errorf(reporter.Position{Offset: t.Start, Length: t.Length}, "number %s is out of range", p.text(t))
	}
	return v, nil
}

// area decodes the reference token t. A following ":CELL" with the same
// sheet prefix is merged into a single range, unless the second cell is
// spilled: A1:B2# is A1:(B2#).
func (p *formulaParser[S, N]) area(t Token, prefix *Token) ast.ReferenceArea {
	area := ParseReference(p.text(t), p.style)
	if t.Symbol != p.cell || p.peek().Symbol != SymbolColon {
		return area
	}
	save := p.pos
	p.next()
	second := p.next()
	if prefix != nil && second.Symbol == prefix.Symbol {
		if !p.samePrefix(second, *prefix) {
			p.pos = save
			return area
		}
		// no whitespace between the prefix and the cell
		second = p.tokens[p.pos]
		if second.Symbol == p.cell {
			p.next()
		}
	}
	if second.Symbol != p.cell || p.peek().Symbol == SymbolHash {
		p.pos = save
		return area
	}
	last := ParseReference(p.text(second), p.style)
	return ast.ReferenceArea{Kind: ast.AreaRange, First: area.First, Last: last.First}
}

func (p *formulaParser[S, N]) samePrefix(a, b Token) bool {
	if a.Symbol == SymbolSingleSheetPrefix {
		s1, b1, h1 := ParseSingleSheetPrefix(p.text(a))
		s2, b2, h2 := ParseSingleSheetPrefix(p.text(b))
		return s1 == s2 && b1 == b2 && h1 == h2
	}
	f1, l1, b1, h1 := ParseSheetRangePrefix(p.text(a))
	f2, l2, b2, h2 := ParseSheetRangePrefix(p.text(b))
	return f1 == f2 && l1 == l2 && b1 == b2 && h1 == h2
}

// parsePrefixed parses a reference, name or #REF! after a sheet prefix.
func (p *formulaParser[S, N]) parsePrefixed() (N, error) {
	var zero N
	prefix := p.next()
	var sheets ast.SheetRange
	var book int
	var hasBook bool
	if prefix.Symbol == SymbolSingleSheetPrefix {
		sheets.First, book, hasBook = ParseSingleSheetPrefix(p.text(prefix))
	} else {
		sheets.First, sheets.Last, book, hasBook = ParseSheetRangePrefix(p.text(prefix))
	}

	// no whitespace is allowed after the '!'
	t := p.tokens[p.pos]
	switch {
	case t.Symbol == p.cell || t.Symbol == p.cellSpan:
		p.next()
		area := p.area(t, &prefix)
		if hasBook {
			return p.f.ExternalReference(p.span(prefix.Start), book, sheets, area), nil
		}
		return p.f.LocalReference(p.span(prefix.Start), sheets, area), nil
	case t.Symbol == SymbolName && sheets.Last == "":
		p.next()
		if hasBook {
			return p.f.ExternalNameReference(p.span(prefix.Start), book, sheets.First, p.text(t)), nil
		}
		return p.f.SheetNameReference(p.span(prefix.Start), sheets.First, p.text(t)), nil
	case t.Symbol == SymbolRefError:
		// a reference to a deleted area keeps its sheet prefix in the
		// text, but there is nothing left to refer to
		p.next()
		return p.f.ErrorNode(p.span(prefix.Start), "#REF!"), nil
	}
	return zero, p.unexpected(t, "reference or name after sheet prefix")
}

// parseBook parses [n]!Name or [n]!Table[Column].
func (p *formulaParser[S, N]) parseBook() (N, error) {
	var zero N
	prefix := p.next()
	book := ParseBookPrefix(p.text(prefix))
	t := p.tokens[p.pos]
	if t.Symbol != SymbolName {
		return zero, p.unexpected(t, "name after workbook prefix")
	}
	p.next()
	if p.tokens[p.pos].Symbol == SymbolIntraTableReference {
		intra := p.next()
		return p.f.ExternalTableReference(p.span(prefix.Start), book, p.text(t), p.text(intra)), nil
	}
	return p.f.ExternalNameReference(p.span(prefix.Start), book, "", p.text(t)), nil
}

func (p *formulaParser[S, N]) parseFunction() (N, error) {
	var zero N
	t := p.next()
	name := strings.TrimSuffix(p.text(t), "(")

	saved := p.union
	p.union = false
	defer func() { p.union = saved }()

	var args []N
	if p.peek().Symbol == SymbolRParen {
		p.next()
		return p.f.Function(p.span(t.Start), name, args), nil
	}
	for {
		arg, err := p.parseArgument()
		if err != nil {
			return zero, err
		}
		args = append(args, arg)
		sep := p.next()
		switch sep.Symbol {
		case SymbolComma:
			continue
		case SymbolRParen:
			return p.f.Function(p.span(t.Start), name, args), nil
		}
		return zero, p.unexpected(sep, "',' or ')'")
	}
}

func (p *formulaParser[S, N]) parseArgument() (N, error) {
	switch t := p.peek(); t.Symbol {
	case SymbolComma, SymbolRParen:
		return p.f.BlankNode(ast.Span{Start: t.Start, End: t.Start}), nil
	}
	return p.parseExpr()
}

func (p *formulaParser[S, N]) parseArray() (N, error) {
	var zero N
	open := p.next()
	var elements []S
	rows, columns, width := 1, 0, 0
	for {
		v, err := p.parseScalar()
		if err != nil {
			return zero, err
		}
		elements = append(elements, v)
		width++
		sep := p.next()
		switch sep.Symbol {
		case SymbolComma:
			continue
		case SymbolSemicolon, SymbolRBrace:
			if rows == 1 {
				columns = width
			} else if width != columns {
				return zero, reporter.Errorf(reporter.Position{Offset: sep.Start, Length: sep.Length},
					"array row %d has %d columns, expecting %d", rows, width, columns)
			}
			if sep.Symbol == SymbolRBrace {
				return p.f.ArrayNode(p.span(open.Start), rows, columns, elements), nil
			}
			rows++
			width = 0
			continue
		}
		return zero, p.unexpected(sep, "',', ';' or '}'")
	}
}

func (p *formulaParser[S, N]) parseScalar() (S, error) {
	var zero S
	t := p.next()
	switch t.Symbol {
	case SymbolPlus, SymbolMinus:
		num := p.next()
		if num.Symbol != SymbolNumber {
			return zero, p.unexpected(num, "number")
		}
		v, err := p.number(num)
		if err != nil {
			return zero, err
		}
		if t.Symbol == SymbolMinus {
			v = -v
		}
		return p.f.NumberValue(v), nil
	case SymbolNumber:
		v, err := p.number(t)
		if err != nil {
			return zero, err
		}
		return p.f.NumberValue(v), nil
	case SymbolString:
		return p.f.TextValue(ParseString(p.text(t))), nil
	case SymbolLogical:
		return p.f.LogicalValue(strings.EqualFold(p.text(t), "TRUE")), nil
	case SymbolErrorLiteral, SymbolRefError:
		return p.f.ErrorValue(strings.ToUpper(p.text(t))), nil
	}
	return zero, p.unexpected(t, "array constant")
}
