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
)

// The functions in this file decode the text of single tokens. They expect
// text the lexer has already accepted and do not validate it again.

// ParseSingleSheetPrefix decodes a SINGLE_SHEET_PREFIX token, e.g.
// '[2]Monty''s'! => ("Monty's", 2, true).
func ParseSingleSheetPrefix(text string) (sheet string, book int, hasBook bool) {
	body, quoted := stripPrefix(text)
	book, hasBook, body = splitBook(body)
	return unescape(body, quoted), book, hasBook
}

// ParseSheetRangePrefix decodes a SHEET_RANGE_PREFIX token, e.g.
// '[1]Jan:Mar 2'! => ("Jan", "Mar 2", 1, true).
func ParseSheetRangePrefix(text string) (first, last string, book int, hasBook bool) {
	body, quoted := stripPrefix(text)
	book, hasBook, body = splitBook(body)
	// sheet names never contain ':'
	first, last, _ = strings.Cut(body, ":")
	return unescape(first, quoted), unescape(last, quoted), book, hasBook
}

// ParseBookPrefix decodes a BOOK_PREFIX token, e.g. [3]! => 3.
func ParseBookPrefix(text string) int {
	book, _, _ := splitBook(strings.TrimSuffix(text, "!"))
	return book
}

// ParseString decodes a STRING token, e.g. "say ""hi""" => say "hi".
func ParseString(text string) string {
	if len(text) >= 2 {
		text = text[1 : len(text)-1]
	}
	return strings.ReplaceAll(text, `""`, `"`)
}

func stripPrefix(text string) (body string, quoted bool) {
	body = strings.TrimSuffix(text, "!")
	if len(body) >= 2 && body[0] == '\'' && body[len(body)-1] == '\'' {
		return body[1 : len(body)-1], true
	}
	return body, false
}

func splitBook(text string) (book int, hasBook bool, rest string) {
	if !strings.HasPrefix(text, "[") {
		return 0, false, text
	}
	end := strings.IndexByte(text, ']')
	if end < 0 {
		return 0, false, text
	}
	book, err := strconv.Atoi(text[1:end])
	if err != nil {
		return 0, false, text
	}
	return book, true, text[end+1:]
}

func unescape(name string, quoted bool) string {
	if !quoted {
		return name
	}
	return strings.ReplaceAll(name, "''", "'")
}

// ParseReference decodes the text of a cell, range, column span or row span
// in the given style. Endpoints are returned in the order written.
func ParseReference(text string, style ast.ReferenceStyle) ast.ReferenceArea {
	first, last, isSpan := strings.Cut(text, ":")
	parse := parseA1Part
	if style == ast.R1C1 {
		parse = parseR1C1Part
	}
	from := parse(first)
	to := from
	if isSpan {
		to = parse(last)
	}
	var kind ast.AreaKind
	switch {
	case from.RowType == ast.AxisNone:
		kind = ast.AreaColumnSpan
	case from.ColumnType == ast.AxisNone:
		kind = ast.AreaRowSpan
	case isSpan:
		kind = ast.AreaRange
	default:
		kind = ast.AreaCell
	}
	return ast.ReferenceArea{Kind: kind, First: from, Last: to}
}

// parseA1Part decodes $A$1, A1, $A or 1.
func parseA1Part(text string) ast.RowCol {
	rc := ast.RowCol{Style: ast.A1}
	i := 0
	absolute := false
	if i < len(text) && text[i] == '$' {
		absolute = true
		i++
	}
	start := i
	for i < len(text) && isASCIILetter(text[i]) {
		i++
	}
	if i > start {
		rc.ColumnType = axisType(absolute)
		rc.Column = ast.ColumnNumber(text[start:i])
		absolute = false
		if i < len(text) && text[i] == '$' {
			absolute = true
			i++
		}
	}
	if i < len(text) {
		rc.RowType = axisType(absolute)
		rc.Row, _ = strconv.Atoi(text[i:])
	}
	return rc
}

// parseR1C1Part decodes RC, R2C[-1], R[3], C or similar.
func parseR1C1Part(text string) ast.RowCol {
	rc := ast.RowCol{Style: ast.R1C1}
	for len(text) > 0 {
		marker := text[0] | 0x20
		var typ ast.AxisType
		var value int
		typ, value, text = parseR1C1Axis(text[1:])
		if marker == 'r' {
			rc.RowType, rc.Row = typ, value
		} else {
			rc.ColumnType, rc.Column = typ, value
		}
	}
	return rc
}

func parseR1C1Axis(text string) (ast.AxisType, int, string) {
	if strings.HasPrefix(text, "[") {
		end := strings.IndexByte(text, ']')
		v, _ := strconv.Atoi(strings.TrimPrefix(text[1:end], "+"))
		return ast.AxisRelative, v, text[end+1:]
	}
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == 0 {
		return ast.AxisRelative, 0, text
	}
	v, _ := strconv.Atoi(text[:i])
	return ast.AxisAbsolute, v, text[i:]
}

func axisType(absolute bool) ast.AxisType {
	if absolute {
		return ast.AxisAbsolute
	}
	return ast.AxisRelative
}

func isASCIILetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
