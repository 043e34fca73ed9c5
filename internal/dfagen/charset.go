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

package dfagen

import (
	"slices"
	"unicode"
	"unicode/utf8"
)

// Range is an inclusive range of code points.
type Range struct {
	First, Last rune
}

// Set is a sorted list of disjoint, non-adjacent code point ranges. All
// constructors and operations in this package return normalized sets.
type Set []Range

// Any matches every valid code point.
var Any = Set{{First: 0, Last: utf8.MaxRune}}

// Runes returns a set containing exactly the given runes.
func Runes(rs ...rune) Set {
	ranges := make([]Range, 0, len(rs))
	for _, r := range rs {
		ranges = append(ranges, Range{First: r, Last: r})
	}
	return normalize(ranges)
}

// Between returns the set of runes from first to last, inclusive.
func Between(first, last rune) Set {
	return normalize([]Range{{First: first, Last: last}})
}

// FromTable converts a unicode.RangeTable into a Set. Strided entries are
// expanded into individual code points.
func FromTable(tab *unicode.RangeTable) Set {
	var ranges []Range
	for _, r := range tab.R16 {
		ranges = appendStrided(ranges, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	for _, r := range tab.R32 {
		ranges = appendStrided(ranges, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	return normalize(ranges)
}

func appendStrided(ranges []Range, lo, hi, stride rune) []Range {
	if stride == 1 {
		return append(ranges, Range{First: lo, Last: hi})
	}
	for r := lo; r <= hi; r += stride {
		ranges = append(ranges, Range{First: r, Last: r})
	}
	return ranges
}

// FromPredicate builds the set of runes in [first, last] for which fn
// reports true.
func FromPredicate(first, last rune, fn func(rune) bool) Set {
	var ranges []Range
	start := rune(-1)
	for r := first; r <= last; r++ {
		if fn(r) {
			if start < 0 {
				start = r
			}
			continue
		}
		if start >= 0 {
			ranges = append(ranges, Range{First: start, Last: r - 1})
			start = -1
		}
	}
	if start >= 0 {
		ranges = append(ranges, Range{First: start, Last: last})
	}
	return normalize(ranges)
}

// Union returns the runes in s or in any of the others.
func (s Set) Union(others ...Set) Set {
	merged := slices.Clone([]Range(s))
	for _, o := range others {
		merged = append(merged, o...)
	}
	return normalize(merged)
}

// Complement returns every valid rune that is not in s.
func (s Set) Complement() Set {
	out := make([]Range, 0, len(s)+1)
	cur := rune(0)
	for _, r := range s {
		if cur < r.First {
			out = append(out, Range{First: cur, Last: r.First - 1})
		}
		cur = r.Last + 1
	}
	if cur <= utf8.MaxRune {
		out = append(out, Range{First: cur, Last: utf8.MaxRune})
	}
	return out
}

// Minus returns the runes in s that are not in o.
func (s Set) Minus(o Set) Set {
	return s.intersect(o.Complement())
}

func (s Set) intersect(o Set) Set {
	var out []Range
	i, j := 0, 0
	for i < len(s) && j < len(o) {
		lo := max(s[i].First, o[j].First)
		hi := min(s[i].Last, o[j].Last)
		if lo <= hi {
			out = append(out, Range{First: lo, Last: hi})
		}
		if s[i].Last < o[j].Last {
			i++
		} else {
			j++
		}
	}
	return out
}

// Contains reports whether r is in the set.
func (s Set) Contains(r rune) bool {
	i, found := slices.BinarySearchFunc(s, r, func(rg Range, r rune) int {
		switch {
		case rg.Last < r:
			return -1
		case rg.First > r:
			return 1
		default:
			return 0
		}
	})
	return found && i < len(s)
}

func normalize(in []Range) Set {
	ranges := make([]Range, 0, len(in))
	for _, r := range in {
		if r.Last < r.First || r.Last < 0 || r.First > utf8.MaxRune {
			continue
		}
		r.First = max(r.First, 0)
		r.Last = min(r.Last, utf8.MaxRune)
		ranges = append(ranges, r)
	}
	if len(ranges) == 0 {
		return nil
	}
	slices.SortFunc(ranges, func(a, b Range) int {
		if a.First != b.First {
			return int(a.First - b.First)
		}
		return int(a.Last - b.Last)
	})

	out := make([]Range, 0, len(ranges))
	cur := ranges[0]
	for _, r := range ranges[1:] {
		if r.First <= cur.Last+1 {
			cur.Last = max(cur.Last, r.Last)
			continue
		}
		out = append(out, cur)
		cur = r
	}
	return append(out, cur)
}
