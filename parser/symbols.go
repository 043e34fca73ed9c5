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

import "fmt"

// Symbol is the kind of a token.
type Symbol int

const (
	// SymbolError marks input that no token matches. It is always the last
	// token produced.
	SymbolError Symbol = -2
	// SymbolEOF is appended once the whole input has been consumed.
	SymbolEOF Symbol = -1
)

const (
	SymbolSpace Symbol = iota + 1
	SymbolNumber
	SymbolString
	SymbolLogical
	SymbolErrorLiteral
	SymbolRefError
	SymbolA1Cell
	SymbolA1SpanReference
	SymbolR1C1Cell
	SymbolR1C1SpanReference
	SymbolSheetRangePrefix
	SymbolSingleSheetPrefix
	SymbolBookPrefix
	SymbolFunction
	SymbolName
	SymbolIntraTableReference
	SymbolColon
	SymbolComma
	SymbolSemicolon
	SymbolLParen
	SymbolRParen
	SymbolLBrace
	SymbolRBrace
	SymbolPlus
	SymbolMinus
	SymbolMult
	SymbolDiv
	SymbolPow
	SymbolConcat
	SymbolPercent
	SymbolEq
	SymbolNe
	SymbolLt
	SymbolLe
	SymbolGt
	SymbolGe
	SymbolAt
	SymbolHash

	symbolCount = iota
)

// symbolOffset is added to the accept value of a table state to obtain the
// symbol. Tables number symbols from zero while the symbol enumeration
// starts at one.
const symbolOffset = 1

var symbolNames = [...]string{
	SymbolSpace:               "SPACE",
	SymbolNumber:              "NUMBER",
	SymbolString:              "STRING",
	SymbolLogical:             "LOGICAL",
	SymbolErrorLiteral:        "ERROR",
	SymbolRefError:            "REF_ERROR",
	SymbolA1Cell:              "A1_CELL",
	SymbolA1SpanReference:     "A1_SPAN_REFERENCE",
	SymbolR1C1Cell:            "R1C1_CELL",
	SymbolR1C1SpanReference:   "R1C1_SPAN_REFERENCE",
	SymbolSheetRangePrefix:    "SHEET_RANGE_PREFIX",
	SymbolSingleSheetPrefix:   "SINGLE_SHEET_PREFIX",
	SymbolBookPrefix:          "BOOK_PREFIX",
	SymbolFunction:            "FUNCTION",
	SymbolName:                "NAME",
	SymbolIntraTableReference: "INTRA_TABLE_REFERENCE",
	SymbolColon:               "COLON",
	SymbolComma:               "COMMA",
	SymbolSemicolon:           "SEMICOLON",
	SymbolLParen:              "LPAREN",
	SymbolRParen:              "RPAREN",
	SymbolLBrace:              "LBRACE",
	SymbolRBrace:              "RBRACE",
	SymbolPlus:                "PLUS",
	SymbolMinus:               "MINUS",
	SymbolMult:                "MULT",
	SymbolDiv:                 "DIV",
	SymbolPow:                 "POW",
	SymbolConcat:              "CONCAT",
	SymbolPercent:             "PERCENT",
	SymbolEq:                  "EQ",
	SymbolNe:                  "NE",
	SymbolLt:                  "LT",
	SymbolLe:                  "LE",
	SymbolGt:                  "GT",
	SymbolGe:                  "GE",
	SymbolAt:                  "AT",
	SymbolHash:                "HASH",
}

func (s Symbol) String() string {
	switch {
	case s == SymbolError:
		return "ERROR_TOKEN"
	case s == SymbolEOF:
		return "EOF"
	case s > 0 && int(s) < len(symbolNames):
		return symbolNames[s]
	}
	return fmt.Sprintf("Symbol(%d)", int(s))
}
