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
	"errors"
	"fmt"

	"github.com/kralicky/xlformula/ast"
)

// ErrInvalidReference is wrapped by the error ParseA1 returns for text that
// is not a reference.
var ErrInvalidReference = errors.New("invalid reference")

// The TryParse functions accept exactly one grammar shape each: leading or
// trailing whitespace, extra tokens and workbook indices are rejected. A
// mismatch is reported with ok == false; the error result is only set when
// the text is not valid UTF-8.

// TryParseA1 parses a bare A1 area: a cell, a column or row span, or two
// cells separated by a colon.
func TryParseA1(text string) (area ast.ReferenceArea, ok bool, err error) {
	tokens, err := TokenizeA1(text)
	if err != nil {
		return ast.ReferenceArea{}, false, err
	}
	area, ok = matchArea(text, tokens, ast.A1)
	return area, ok, nil
}

// TryParseSheetA1 parses an A1 area preceded by a sheet prefix without a
// workbook index, e.g. 'Sales data'!A1:B4.
func TryParseSheetA1(text string) (sheet string, area ast.ReferenceArea, ok bool, err error) {
	return trySheetArea(text, ast.A1)
}

// TryParseSheetOrLocalA1 accepts the inputs of both TryParseA1 and
// TryParseSheetA1. sheet is empty for local areas.
func TryParseSheetOrLocalA1(text string) (sheet string, area ast.ReferenceArea, ok bool, err error) {
	area, ok, err = TryParseA1(text)
	if err != nil || ok {
		return "", area, ok, err
	}
	return TryParseSheetA1(text)
}

// TryParseR1C1 is TryParseA1 for R1C1 notation, e.g. R[-1]C:R2C3.
func TryParseR1C1(text string) (area ast.ReferenceArea, ok bool, err error) {
	tokens, err := TokenizeR1C1(text)
	if err != nil {
		return ast.ReferenceArea{}, false, err
	}
	area, ok = matchArea(text, tokens, ast.R1C1)
	return area, ok, nil
}

// TryParseSheetR1C1 is TryParseSheetA1 for R1C1 notation.
func TryParseSheetR1C1(text string) (sheet string, area ast.ReferenceArea, ok bool, err error) {
	return trySheetArea(text, ast.R1C1)
}

// TryParseName parses a defined name, optionally preceded by a sheet
// prefix without a workbook index. sheet is empty for bare names.
func TryParseName(text string) (sheet, name string, ok bool, err error) {
	tokens, err := TokenizeA1(text)
	if err != nil {
		return "", "", false, err
	}
	if len(tokens) == 2 && tokens[0].Symbol == SymbolName && tokens[1].Symbol == SymbolEOF {
		return "", tokens[0].Text(text), true, nil
	}
	return TryParseSheetName(text)
}

// TryParseSheetName parses a defined name preceded by a sheet prefix
// without a workbook index, e.g. Sheet1!Rate.
func TryParseSheetName(text string) (sheet, name string, ok bool, err error) {
	tokens, err := TokenizeA1(text)
	if err != nil {
		return "", "", false, err
	}
	if len(tokens) != 3 || tokens[0].Symbol != SymbolSingleSheetPrefix ||
		tokens[1].Symbol != SymbolName || tokens[2].Symbol != SymbolEOF {
		return "", "", false, nil
	}
	sheet, _, hasBook := ParseSingleSheetPrefix(tokens[0].Text(text))
	if hasBook {
		return "", "", false, nil
	}
	return sheet, tokens[1].Text(text), true, nil
}

// ParseA1 is like TryParseA1 but reports text that is not an A1 area as an
// error wrapping ErrInvalidReference.
func ParseA1(text string) (ast.ReferenceArea, error) {
	area, ok, err := TryParseA1(text)
	if err != nil {
		return ast.ReferenceArea{}, err
	}
	if !ok {
		return ast.ReferenceArea{}, fmt.Errorf("%w: %q is not an A1 reference", ErrInvalidReference, text)
	}
	return area, nil
}

func trySheetArea(text string, style ast.ReferenceStyle) (string, ast.ReferenceArea, bool, error) {
	tokens, err := Tokenize(text, style)
	if err != nil {
		return "", ast.ReferenceArea{}, false, err
	}
	if len(tokens) == 0 || tokens[0].Symbol != SymbolSingleSheetPrefix {
		return "", ast.ReferenceArea{}, false, nil
	}
	sheet, _, hasBook := ParseSingleSheetPrefix(tokens[0].Text(text))
	if hasBook {
		return "", ast.ReferenceArea{}, false, nil
	}
	area, ok := matchArea(text, tokens[1:], style)
	if !ok {
		return "", ast.ReferenceArea{}, false, nil
	}
	return sheet, area, true, nil
}

// matchArea accepts {CELL}, {SPAN} or {CELL, COLON, CELL}, each followed by
// EOF.
func matchArea(text string, tokens []Token, style ast.ReferenceStyle) (ast.ReferenceArea, bool) {
	cell, span := SymbolA1Cell, SymbolA1SpanReference
	if style == ast.R1C1 {
		cell, span = SymbolR1C1Cell, SymbolR1C1SpanReference
	}
	var end int
	switch {
	case len(tokens) == 2 && (tokens[0].Symbol == cell || tokens[0].Symbol == span):
		end = tokens[0].End()
	case len(tokens) == 4 && tokens[0].Symbol == cell && tokens[1].Symbol == SymbolColon && tokens[2].Symbol == cell:
		end = tokens[2].End()
	default:
		return ast.ReferenceArea{}, false
	}
	if tokens[len(tokens)-1].Symbol != SymbolEOF {
		return ast.ReferenceArea{}, false
	}
	return ParseReference(text[tokens[0].Start:end], style), true
}
