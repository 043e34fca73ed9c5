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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kralicky/xlformula/ast"
	"github.com/kralicky/xlformula/names"
)

func a1(colType ast.AxisType, col int, rowType ast.AxisType, row int) ast.RowCol {
	return ast.RowCol{Style: ast.A1, ColumnType: colType, Column: col, RowType: rowType, Row: row}
}

func r1c1(rowType ast.AxisType, row int, colType ast.AxisType, col int) ast.RowCol {
	return ast.RowCol{Style: ast.R1C1, RowType: rowType, Row: row, ColumnType: colType, Column: col}
}

const (
	rel = ast.AxisRelative
	abs = ast.AxisAbsolute
	no  = ast.AxisNone
)

func TestTryParseA1(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		text string
		want ast.ReferenceArea
	}{
		{"A1", ast.NewCellArea(a1(rel, 1, rel, 1))},
		{"$B$7", ast.NewCellArea(a1(abs, 2, abs, 7))},
		{"aa10", ast.NewCellArea(a1(rel, 27, rel, 10))},
		{"B$2:$C3", ast.ReferenceArea{Kind: ast.AreaRange, First: a1(rel, 2, abs, 2), Last: a1(abs, 3, rel, 3)}},
		// endpoints keep their written order
		{"D4:A1", ast.ReferenceArea{Kind: ast.AreaRange, First: a1(rel, 4, rel, 4), Last: a1(rel, 1, rel, 1)}},
		{"A:$C", ast.ReferenceArea{Kind: ast.AreaColumnSpan, First: a1(rel, 1, no, 0), Last: a1(abs, 3, no, 0)}},
		{"$2:10", ast.ReferenceArea{Kind: ast.AreaRowSpan, First: a1(no, 0, abs, 2), Last: a1(no, 0, rel, 10)}},
	}
	for _, tc := range testCases {
		area, ok, err := TryParseA1(tc.text)
		require.NoError(t, err, tc.text)
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.want, area, tc.text)
		assert.Equal(t, strings.ToUpper(tc.text), area.String(), tc.text)
	}
}

func TestTryParseA1Rejects(t *testing.T) {
	t.Parallel()
	for _, text := range []string{
		"", " A1", "A1 ", "A1:", "A1:B", "A1B", "Sheet1!A1", "A1,B1", "R1C1", "1", "#REF!", "A1#",
	} {
		_, ok, err := TryParseA1(text)
		assert.NoError(t, err, text)
		assert.False(t, ok, text)
	}
	_, ok, err := TryParseA1("A\xc0")
	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
	assert.False(t, ok)
}

func TestParseA1(t *testing.T) {
	t.Parallel()
	area, err := ParseA1("C3")
	require.NoError(t, err)
	assert.Equal(t, ast.NewCellArea(a1(rel, 3, rel, 3)), area)

	_, err = ParseA1("Sheet1!C3")
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.ErrorContains(t, err, `"Sheet1!C3"`)
}

func TestTryParseSheetA1(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		text  string
		sheet string
		want  ast.ReferenceArea
	}{
		{"Sheet1!A1", "Sheet1", ast.NewCellArea(a1(rel, 1, rel, 1))},
		{"'Sales data'!$A$1:B4", "Sales data", ast.ReferenceArea{Kind: ast.AreaRange, First: a1(abs, 1, abs, 1), Last: a1(rel, 2, rel, 4)}},
		{"'Monty''s'!C:C", "Monty's", ast.ReferenceArea{Kind: ast.AreaColumnSpan, First: a1(rel, 3, no, 0), Last: a1(rel, 3, no, 0)}},
	}
	for _, tc := range testCases {
		sheet, area, ok, err := TryParseSheetA1(tc.text)
		require.NoError(t, err, tc.text)
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.sheet, sheet, tc.text)
		assert.Equal(t, tc.want, area, tc.text)

		sheet, area, ok, err = TryParseSheetOrLocalA1(tc.text)
		require.NoError(t, err, tc.text)
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.sheet, sheet, tc.text)
		assert.Equal(t, tc.want, area, tc.text)
	}

	for _, text := range []string{"A1", "[1]Sheet1!A1", "Jan:Mar!A1", "Sheet1!", "Sheet1!Rate", "Sheet1!A1 "} {
		_, _, ok, err := TryParseSheetA1(text)
		assert.NoError(t, err, text)
		assert.False(t, ok, text)
	}
}

func TestTryParseSheetOrLocalA1(t *testing.T) {
	t.Parallel()
	sheet, area, ok, err := TryParseSheetOrLocalA1("B2:C3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, sheet)
	assert.Equal(t, ast.AreaRange, area.Kind)

	_, _, ok, err = TryParseSheetOrLocalA1("SUM(A1)")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestTryParseR1C1(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		text string
		want ast.ReferenceArea
	}{
		{"RC", ast.NewCellArea(r1c1(rel, 0, rel, 0))},
		{"R2C3", ast.NewCellArea(r1c1(abs, 2, abs, 3))},
		{"R[-1]C[+2]", ast.NewCellArea(r1c1(rel, -1, rel, 2))},
		{"R[-1]C:R2C3", ast.ReferenceArea{Kind: ast.AreaRange, First: r1c1(rel, -1, rel, 0), Last: r1c1(abs, 2, abs, 3)}},
		{"C[1]", ast.ReferenceArea{Kind: ast.AreaColumnSpan, First: r1c1(no, 0, rel, 1), Last: r1c1(no, 0, rel, 1)}},
		{"R1:R[3]", ast.ReferenceArea{Kind: ast.AreaRowSpan, First: r1c1(abs, 1, no, 0), Last: r1c1(rel, 3, no, 0)}},
	}
	for _, tc := range testCases {
		area, ok, err := TryParseR1C1(tc.text)
		require.NoError(t, err, tc.text)
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.want, area, tc.text)
	}

	sheet, area, ok, err := TryParseSheetR1C1("'My Sheet'!R1C1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "My Sheet", sheet)
	assert.Equal(t, ast.NewCellArea(r1c1(abs, 1, abs, 1)), area)

	_, ok, err = TryParseR1C1("A1")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestTryParseName(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		text        string
		sheet, name string
		ok          bool
	}{
		{text: "Rate", name: "Rate", ok: true},
		{text: "_tax.rate", name: "_tax.rate", ok: true},
		{text: "Sheet1!Rate", sheet: "Sheet1", name: "Rate", ok: true},
		{text: "'My Sheet'!Rate", sheet: "My Sheet", name: "Rate", ok: true},
		{text: "A1"},
		{text: "[1]Sheet1!Rate"},
		{text: "Rate "},
		{text: "TRUE"},
		{text: "Rate("},
	}
	for _, tc := range testCases {
		sheet, name, ok, err := TryParseName(tc.text)
		require.NoError(t, err, tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		assert.Equal(t, tc.sheet, sheet, tc.text)
		assert.Equal(t, tc.name, name, tc.text)
	}

	_, _, ok, err := TryParseSheetName("Rate")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestSheetPrefixTokens(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		text        string
		first, last string
		book        int
		hasBook     bool
	}{
		{text: "Sheet1!", first: "Sheet1"},
		{text: "'Sheet 1'!", first: "Sheet 1"},
		{text: "[1]Sheet1!", first: "Sheet1", book: 1, hasBook: true},
		{text: "'[2]Monty''s'!", first: "Monty's", book: 2, hasBook: true},
		{text: "Jan:Mar!", first: "Jan", last: "Mar"},
		{text: "'[1]Jan:Mar 2'!", first: "Jan", last: "Mar 2", book: 1, hasBook: true},
		{text: "'It''s:Q''4'!", first: "It's", last: "Q'4"},
		{text: "'A1'!", first: "A1"},
		{text: "'[3]R2C3'!", first: "R2C3", book: 3, hasBook: true},
		{text: "'Jan:B2'!", first: "Jan", last: "B2"},
		{text: "A1B!", first: "A1B"},
	}
	for _, tc := range testCases {
		tokens, err := TokenizeA1(tc.text + "A1")
		require.NoError(t, err, tc.text)
		require.Len(t, tokens, 3, tc.text)
		prefix := tokens[0].Text(tc.text + "A1")
		require.Equal(t, tc.text, prefix)

		if tc.last == "" {
			require.Equal(t, SymbolSingleSheetPrefix, tokens[0].Symbol, tc.text)
			sheet, book, hasBook := ParseSingleSheetPrefix(prefix)
			assert.Equal(t, tc.first, sheet, tc.text)
			assert.Equal(t, tc.book, book, tc.text)
			assert.Equal(t, tc.hasBook, hasBook, tc.text)
		} else {
			require.Equal(t, SymbolSheetRangePrefix, tokens[0].Symbol, tc.text)
			first, last, book, hasBook := ParseSheetRangePrefix(prefix)
			assert.Equal(t, tc.first, first, tc.text)
			assert.Equal(t, tc.last, last, tc.text)
			assert.Equal(t, tc.book, book, tc.text)
			assert.Equal(t, tc.hasBook, hasBook, tc.text)
		}

		// the canonical prefix decodes to the same sheets
		canonical := names.SheetPrefix(tc.book, tc.hasBook, tc.first, tc.last)
		assert.Equal(t, tc.text, canonical, tc.text)
	}
}

func TestParseTokenText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 3, ParseBookPrefix("[3]!"))
	assert.Equal(t, 123456789, ParseBookPrefix("[123456789]!"))
	assert.Equal(t, `say "hi"`, ParseString(`"say ""hi"""`))
	assert.Equal(t, "", ParseString(`""`))
}

func TestBareSheetNames(t *testing.T) {
	t.Parallel()
	for _, name := range []string{
		"Sheet1", "Sales", "Ünïcode", "R", "C", "Jan", "A1B", "ABCD1",
		"A1", "a1", "A0", "XFD1048576", "R1C1", "rc", "R1C", "RC3",
	} {
		bare := !names.ShouldQuote(name) && !names.LooksLikeReference(name)
		for _, style := range []ast.ReferenceStyle{ast.A1, ast.R1C1} {
			text := name + "!Rate"
			tokens, err := Tokenize(text, style)
			require.NoError(t, err, text)
			isPrefix := tokens[0].Symbol == SymbolSingleSheetPrefix && tokens[0].Length == len(name)+1
			assert.Equal(t, bare, isPrefix, "%s in %v", text, style)

			// the rendered prefix is always read back as one token
			text = names.SheetPrefix(0, false, name, "") + "Rate"
			tokens, err = Tokenize(text, style)
			require.NoError(t, err, text)
			assert.Equal(t, []Symbol{SymbolSingleSheetPrefix, SymbolName, SymbolEOF},
				[]Symbol{tokens[0].Symbol, tokens[1].Symbol, tokens[len(tokens)-1].Symbol}, text)
		}
	}
}
