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

// Package names contains the rules for sheet names: which names a
// workbook accepts, and which ones must be wrapped in single quotes when
// they are written into a formula.
//
// The quoting decision is not derived from a single Unicode property. It
// reproduces the behavior observed in the spreadsheet application, where
// letter-like characters may start an unquoted name and letters, digits
// and a few symbols may follow. Characters outside the basic multilingual
// plane always require quotes.
package names

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxSheetNameLength is the maximum length of a sheet name, in UTF-16 code
// units.
const MaxSheetNameLength = 31

const forbiddenSheetChars = `*/:?[\]`

// IsSheetNameValid reports whether name can be used as a sheet name.
func IsSheetNameValid(name string) bool {
	if name == "" {
		return false
	}
	units := 0
	for _, r := range name {
		units++
		if r > 0xFFFF {
			// surrogate pair
			units++
		}
	}
	if units > MaxSheetNameLength {
		return false
	}
	return !strings.ContainsAny(name, forbiddenSheetChars)
}

// ShouldQuote reports whether the sheet name must be quoted when used in a
// formula.
func ShouldQuote(name string) bool {
	first, size := utf8.DecodeRuneInString(name)
	if size == 0 || NeedsQuoteFirst(first) {
		return true
	}
	for _, r := range name[size:] {
		if NeedsQuoteNext(r) {
			return true
		}
	}
	return false
}

// EscapeSheetName returns the sheet name as it is written in a formula:
// verbatim when no quoting is needed, otherwise wrapped in single quotes
// with embedded quotes doubled. Names that look like a cell reference are
// quoted too.
func EscapeSheetName(name string) string {
	if !needsQuotes(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// SheetPrefix renders a complete sheet prefix, including the trailing '!'.
// The workbook index is written when hasBook is true. A non-empty last
// sheet produces a 3-D prefix (First:Last!). The whole prefix is quoted
// when any of the sheet names requires it.
//
// Names that read as a cell reference, such as A1 or R2C3, are quoted as
// well, even though ShouldQuote accepts them.
func SheetPrefix(book int, hasBook bool, first, last string) string {
	quote := needsQuotes(first) || (last != "" && needsQuotes(last))

	var sb strings.Builder
	if quote {
		sb.WriteByte('\'')
	}
	if hasBook {
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(book))
		sb.WriteByte(']')
	}
	writeName(&sb, first, quote)
	if last != "" {
		sb.WriteByte(':')
		writeName(&sb, last, quote)
	}
	if quote {
		sb.WriteByte('\'')
	}
	sb.WriteByte('!')
	return sb.String()
}

func needsQuotes(name string) bool {
	return ShouldQuote(name) || LooksLikeReference(name)
}

// LooksLikeReference reports whether name, written without quotes, would
// be read as a cell in A1 notation (one to three letters and one to seven
// digits) or in R1C1 notation (R, optional digits, C, optional digits).
func LooksLikeReference(name string) bool {
	return isA1Cell(name) || isR1C1Cell(name)
}

func isA1Cell(s string) bool {
	letters := 0
	for letters < len(s) && isASCIILetter(s[letters]) {
		letters++
	}
	digits := countDigits(s[letters:])
	return letters >= 1 && letters <= 3 &&
		digits >= 1 && digits <= 7 && letters+digits == len(s)
}

func isR1C1Cell(s string) bool {
	if s == "" || (s[0] != 'R' && s[0] != 'r') {
		return false
	}
	i := 1 + countDigits(s[1:])
	if i > 8 || i >= len(s) || (s[i] != 'C' && s[i] != 'c') {
		return false
	}
	rest := s[i+1:]
	return len(rest) <= 7 && countDigits(rest) == len(rest)
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func writeName(sb *strings.Builder, name string, quoted bool) {
	if quoted {
		sb.WriteString(strings.ReplaceAll(name, "'", "''"))
		return
	}
	sb.WriteString(name)
}
