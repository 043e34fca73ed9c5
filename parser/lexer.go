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
	"fmt"
	"unicode/utf8"

	"github.com/kralicky/xlformula/ast"
)

// Token is a typed span of formula text. Start and Length are byte offsets
// into the text that was tokenized.
type Token struct {
	Symbol Symbol
	Start  int
	Length int
}

// End returns the offset just past the token.
func (t Token) End() int {
	return t.Start + t.Length
}

// Text returns the source text of the token.
func (t Token) Text(src string) string {
	return src[t.Start:t.End()]
}

func (t Token) String() string {
	return fmt.Sprintf("%v@%d+%d", t.Symbol, t.Start, t.Length)
}

// CharRange is an inclusive range of code points.
type CharRange struct {
	First, Last rune
}

// Transition is an edge of the lexer automaton. Ranges are sorted.
type Transition struct {
	Ranges []CharRange
	Next   int
}

func (t *Transition) matches(r rune) bool {
	lo, hi := 0, len(t.Ranges)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch rng := t.Ranges[mid]; {
		case r < rng.First:
			hi = mid
		case r > rng.Last:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// State is a state of the lexer automaton. Accept is -1 for states that
// do not accept, otherwise it is the accepted symbol minus one.
type State struct {
	Accept      int
	Transitions []Transition
}

// next returns the state reached by r, or -1. The first matching
// transition wins.
func (s *State) next(r rune) int {
	for i := range s.Transitions {
		if s.Transitions[i].matches(r) {
			return s.Transitions[i].Next
		}
	}
	return -1
}

// Table is a lexer automaton. State 0 is the start state. Tables are
// read-only once built and may be shared between goroutines.
type Table struct {
	States []State
}

// EncodingError is returned when formula text is not valid UTF-8.
type EncodingError struct {
	// Offset is the byte offset of the invalid sequence.
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("invalid UTF-8 encoding at offset %d", e.Offset)
}

// Tokenize splits input into tokens using the grammar of the given
// reference style.
func Tokenize(input string, style ast.ReferenceStyle) ([]Token, error) {
	return TokenizeTable(input, TableFor(style))
}

// TokenizeA1 splits input into tokens using the A1 grammar.
func TokenizeA1(input string) ([]Token, error) {
	return TokenizeTable(input, a1Table())
}

// TokenizeR1C1 splits input into tokens using the R1C1 grammar.
func TokenizeR1C1(input string) ([]Token, error) {
	return TokenizeTable(input, r1c1Table())
}

// TokenizeTable splits input into tokens. Each token is the longest prefix
// of the remaining input that the table accepts. If no prefix is
// accepted, an error token is produced and tokenizing stops. The error
// token covers the character that could not be matched, or nothing when
// the input ended in the middle of a token, as in an unterminated string.
// Otherwise the result ends with an EOF token.
//
// Invalid UTF-8 is not formula text at all, so it is reported as an
// *EncodingError instead of an error token.
func TokenizeTable(input string, table *Table) ([]Token, error) {
	var tokens []Token
	pos := 0
	for pos < len(input) {
		state := 0
		accept, end := -1, pos
		exhausted := true
		for i := pos; i < len(input); {
			r, size := utf8.DecodeRuneInString(input[i:])
			if r == utf8.RuneError && size <= 1 {
				return nil, &EncodingError{Offset: i}
			}
			state = table.States[state].next(r)
			if state < 0 {
				exhausted = false
				break
			}
			i += size
			// keep the last accepting state, not the first
			if a := table.States[state].Accept; a >= 0 {
				accept, end = a, i
			}
		}
		if accept < 0 {
			size := 0
			if !exhausted {
				_, size = utf8.DecodeRuneInString(input[pos:])
			}
			return append(tokens, Token{Symbol: SymbolError, Start: pos, Length: size}), nil
		}
		tokens = append(tokens, Token{Symbol: Symbol(accept + symbolOffset), Start: pos, Length: end - pos})
		pos = end
	}
	return append(tokens, Token{Symbol: SymbolEOF, Start: len(input)}), nil
}
