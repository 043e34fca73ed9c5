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
	"sync"
	"unicode"

	"github.com/kralicky/xlformula/ast"
	"github.com/kralicky/xlformula/internal/dfagen"
	"github.com/kralicky/xlformula/names"
)

var (
	a1Table   = sync.OnceValue(func() *Table { return buildTable(a1Rules()) })
	r1c1Table = sync.OnceValue(func() *Table { return buildTable(r1c1Rules()) })
)

// TableFor returns the lexer table of the given reference style. Tables
// are built on first use.
func TableFor(style ast.ReferenceStyle) *Table {
	if style == ast.R1C1 {
		return r1c1Table()
	}
	return a1Table()
}

func buildTable(rules []dfagen.Rule) *Table {
	states := dfagen.Compile(rules)
	t := &Table{States: make([]State, len(states))}
	for i, s := range states {
		st := State{Accept: s.Accept, Transitions: make([]Transition, len(s.Transitions))}
		for j, tr := range s.Transitions {
			ranges := make([]CharRange, len(tr.Ranges))
			for k, r := range tr.Ranges {
				ranges[k] = CharRange{First: r.First, Last: r.Last}
			}
			st.Transitions[j] = Transition{Ranges: ranges, Next: tr.Next}
		}
		t.States[i] = st
	}
	return t
}

func rule(sym Symbol, e dfagen.Expr) dfagen.Rule {
	return dfagen.Rule{Accept: int(sym) - symbolOffset, Expr: e}
}

var (
	digit   = dfagen.Char(dfagen.Between('0', '9'))
	asciiAZ = dfagen.Char(dfagen.Between('A', 'Z').Union(dfagen.Between('a', 'z')))
	dollar  = dfagen.Opt(dfagen.Lit("$"))

	errorCodes = []string{
		"#NULL!", "#DIV/0!", "#VALUE!", "#NAME?", "#NUM!", "#N/A",
		"#GETTING_DATA", "#SPILL!", "#CALC!", "#FIELD!", "#BLOCKED!",
		"#CONNECT!", "#BUSY!", "#UNKNOWN!",
	}
)

func digits(min, max int) dfagen.Expr {
	return dfagen.Repeat(digit, min, max)
}

// a1Rules and r1c1Rules only differ in their reference tokens.
func a1Rules() []dfagen.Rule {
	column := dfagen.Seq(dollar, dfagen.Repeat(asciiAZ, 1, 3))
	row := dfagen.Seq(dollar, digits(1, 7))
	refs := []dfagen.Rule{
		rule(SymbolA1Cell, dfagen.Seq(column, row)),
		rule(SymbolA1SpanReference, dfagen.Alt(
			dfagen.Seq(column, dfagen.Lit(":"), column),
			dfagen.Seq(row, dfagen.Lit(":"), row),
		)),
	}
	return commonRules(refs)
}

func r1c1Rules() []dfagen.Rule {
	axis := func(marker string) dfagen.Expr {
		offset := dfagen.Seq(dfagen.Lit("["), dfagen.Opt(dfagen.Char(dfagen.Runes('+', '-'))), digits(1, 7), dfagen.Lit("]"))
		return dfagen.Seq(dfagen.Fold(marker), dfagen.Opt(dfagen.Alt(digits(1, 7), offset)))
	}
	row, column := axis("R"), axis("C")
	span := func(part dfagen.Expr) dfagen.Expr {
		return dfagen.Seq(part, dfagen.Opt(dfagen.Seq(dfagen.Lit(":"), part)))
	}
	refs := []dfagen.Rule{
		rule(SymbolR1C1Cell, dfagen.Seq(row, column)),
		rule(SymbolR1C1SpanReference, dfagen.Alt(span(row), span(column))),
	}
	return commonRules(refs)
}

func commonRules(refs []dfagen.Rule) []dfagen.Rule {
	exponent := dfagen.Opt(dfagen.Seq(dfagen.Char(dfagen.Runes('e', 'E')), dfagen.Opt(dfagen.Char(dfagen.Runes('+', '-'))), dfagen.Plus(digit)))
	number := dfagen.Alt(
		dfagen.Seq(dfagen.Plus(digit), dfagen.Opt(dfagen.Seq(dfagen.Lit("."), dfagen.Star(digit))), exponent),
		dfagen.Seq(dfagen.Lit("."), dfagen.Plus(digit), exponent),
	)
	str := dfagen.Seq(dfagen.Lit(`"`), dfagen.Star(dfagen.Alt(dfagen.Char(dfagen.Any.Minus(dfagen.Runes('"'))), dfagen.Lit(`""`))), dfagen.Lit(`"`))

	errs := make([]dfagen.Expr, len(errorCodes))
	for i, code := range errorCodes {
		errs[i] = dfagen.Fold(code)
	}

	book := dfagen.Seq(dfagen.Lit("["), digits(1, 9), dfagen.Lit("]"))
	sheetFirst := dfagen.FromPredicate(0, 0xFFFF, func(r rune) bool { return !names.NeedsQuoteFirst(r) })
	sheetNext := dfagen.FromPredicate(0, 0xFFFF, func(r rune) bool { return !names.NeedsQuoteNext(r) })
	// a bare sheet name that reads as a cell would swallow the cell
	// of Sheet1!A1:Sheet2!B2 into a 3-D prefix
	cellShaped := dfagen.Alt(
		dfagen.Seq(dfagen.Repeat(asciiAZ, 1, 3), digits(1, 7)),
		dfagen.Seq(dfagen.Fold("R"), dfagen.Opt(digits(1, 7)), dfagen.Fold("C"), dfagen.Opt(digits(1, 7))),
	)
	sheet := dfagen.Without(dfagen.Seq(dfagen.Char(sheetFirst), dfagen.Star(dfagen.Char(sheetNext))), cellShaped)
	quoted := dfagen.Plus(dfagen.Alt(
		dfagen.Char(dfagen.Any.Minus(dfagen.Runes('\'', '[', ']', '*', '?', '/', '\\', ':'))),
		dfagen.Lit("''"),
	))
	prefix := func(name dfagen.Expr, quotedName dfagen.Expr) dfagen.Expr {
		return dfagen.Alt(
			dfagen.Seq(dfagen.Opt(book), name, dfagen.Lit("!")),
			dfagen.Seq(dfagen.Lit("'"), dfagen.Opt(book), quotedName, dfagen.Lit("'!")),
		)
	}

	letters := dfagen.FromTable(unicode.L).Union(dfagen.FromTable(unicode.Nl))
	nameFirst := dfagen.Char(letters.Union(dfagen.Runes('_', '\\')))
	nameNext := dfagen.Char(letters.Union(dfagen.FromTable(unicode.Nd), dfagen.Runes('_', '.', '\\', '?')))
	name := dfagen.Seq(nameFirst, dfagen.Star(nameNext))

	intraChar := dfagen.Alt(
		dfagen.Char(dfagen.Any.Minus(dfagen.Runes('[', ']', '\''))),
		dfagen.Seq(dfagen.Lit("'"), dfagen.Char(dfagen.Any)),
	)
	intra := dfagen.Seq(dfagen.Lit("["), dfagen.Star(dfagen.Alt(
		intraChar,
		dfagen.Seq(dfagen.Lit("["), dfagen.Star(intraChar), dfagen.Lit("]")),
	)), dfagen.Lit("]"))

	rules := []dfagen.Rule{
		rule(SymbolSpace, dfagen.Plus(dfagen.Char(dfagen.Runes(' ', '\t', '\r', '\n')))),
		rule(SymbolNumber, number),
		rule(SymbolString, str),
		rule(SymbolLogical, dfagen.Alt(dfagen.Fold("TRUE"), dfagen.Fold("FALSE"))),
		rule(SymbolRefError, dfagen.Fold("#REF!")),
		rule(SymbolErrorLiteral, dfagen.Alt(errs...)),
	}
	rules = append(rules, refs...)
	rules = append(rules,
		rule(SymbolSheetRangePrefix, prefix(
			dfagen.Seq(sheet, dfagen.Lit(":"), sheet),
			dfagen.Seq(quoted, dfagen.Lit(":"), quoted),
		)),
		rule(SymbolSingleSheetPrefix, prefix(sheet, quoted)),
		rule(SymbolBookPrefix, dfagen.Seq(book, dfagen.Lit("!"))),
		rule(SymbolFunction, dfagen.Seq(name, dfagen.Lit("("))),
		rule(SymbolName, name),
		rule(SymbolIntraTableReference, intra),
	)
	for _, p := range []struct {
		sym  Symbol
		text string
	}{
		{SymbolColon, ":"}, {SymbolComma, ","}, {SymbolSemicolon, ";"},
		{SymbolLParen, "("}, {SymbolRParen, ")"}, {SymbolLBrace, "{"}, {SymbolRBrace, "}"},
		{SymbolPlus, "+"}, {SymbolMinus, "-"}, {SymbolMult, "*"}, {SymbolDiv, "/"},
		{SymbolPow, "^"}, {SymbolConcat, "&"}, {SymbolPercent, "%"},
		{SymbolEq, "="}, {SymbolNe, "<>"}, {SymbolLt, "<"}, {SymbolLe, "<="},
		{SymbolGt, ">"}, {SymbolGe, ">="}, {SymbolAt, "@"}, {SymbolHash, "#"},
	} {
		rules = append(rules, rule(p.sym, dfagen.Lit(p.text)))
	}
	return rules
}
