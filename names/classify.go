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

package names

import (
	"sync"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// bitmask holds one bit per code point of the basic multilingual plane. A
// set bit means a sheet name containing that code point must be quoted.
type bitmask [0x10000 / 32]uint32

func (b *bitmask) set(r rune) {
	b[r>>5] |= 1 << (uint(r) & 31)
}

func (b *bitmask) has(r rune) bool {
	return b[r>>5]&(1<<(uint(r)&31)) != 0
}

type quoteTables struct {
	// first is consulted for the first character of a name, next for
	// every following character.
	first, next bitmask
}

// Code points assigned after Unicode 5.1 are always quoted.
const tableVersion = "5.1.0"

// The tables are derived from Unicode categories rather than copied from
// the application's own bitmasks. They are known to be approximate in
// these ranges, which should be replaced first when the exact masks are
// imported:
//   - U+2100-U+214F letterlike symbols: the whole block may start a name,
//     including non-letters such as U+2117 and U+214A.
//   - U+3300-U+33DF CJK compatibility squares: U+33DE and U+33DF are quoted.
//   - U+0300-U+036F, U+0483-U+0487 and other Mn/Mc runs: accepted after the
//     first character, never as the first one; Me is always quoted.
//   - U+16EE-U+16F0, U+2160-U+2188, U+3007, U+3021-U+3029 (Nl): treated as
//     letters.
//   - U+0660-U+0669 and the other non-ASCII Nd digits: accepted after the
//     first character.
var tables = sync.OnceValue(func() *quoteTables {
	assigned := rangetable.Assigned(tableVersion)
	if assigned == nil {
		assigned = rangetable.Merge(unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C)
	}
	t := &quoteTables{}
	for r := rune(0); r <= 0xFFFF; r++ {
		old := unicode.Is(assigned, r)
		if !old || !letterLike(r) {
			t.first.set(r)
		}
		if !old || !(letterLike(r) || digitLike(r) || symbolLike(r)) {
			t.next.set(r)
		}
	}
	return t
})

func letterLike(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.Is(unicode.Nl, r):
		return true
	case r >= 0x2100 && r <= 0x214F:
		// letterlike symbols block
		return true
	case r >= 0x3300 && r <= 0x33DD:
		// CJK compatibility squares up to SQUARE WB; the later
		// additions at U+33DE and U+33DF are quoted
		return true
	}
	return false
}

func digitLike(r rune) bool {
	return unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}

func symbolLike(r rune) bool {
	return r == '.' || r == '_'
}

// NeedsQuoteFirst reports whether r forces quoting when it is the first
// character of a sheet name.
func NeedsQuoteFirst(r rune) bool {
	if r < 0 || r > 0xFFFF {
		return true
	}
	return tables().first.has(r)
}

// NeedsQuoteNext reports whether r forces quoting anywhere after the first
// character of a sheet name.
func NeedsQuoteNext(r rune) bool {
	if r < 0 || r > 0xFFFF {
		return true
	}
	return tables().next.has(r)
}
