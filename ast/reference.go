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

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ReferenceStyle is the addressing convention of a formula.
type ReferenceStyle int

const (
	// A1 addresses cells by column letters and row numbers, e.g. $B2.
	A1 ReferenceStyle = iota
	// R1C1 addresses cells by row and column numbers, where bracketed
	// numbers are offsets from the cell containing the formula, e.g. R[1]C2.
	R1C1
)

func (s ReferenceStyle) String() string {
	switch s {
	case A1:
		return "A1"
	case R1C1:
		return "R1C1"
	default:
		return fmt.Sprintf("ReferenceStyle(%d)", int(s))
	}
}

// Sheet dimensions. Relative references that fall outside of the sheet
// after conversion wrap around, the same way the spreadsheet does.
const (
	MaxColumn = 16384
	MaxRow    = 1048576
)

// AxisType describes one coordinate of a RowCol.
type AxisType int

const (
	// AxisNone means the coordinate is not present, e.g. the row of a
	// column span.
	AxisNone AxisType = iota
	// AxisRelative coordinates move when a formula is copied. In A1 style
	// the value is a position, in R1C1 style it is an offset.
	AxisRelative
	// AxisAbsolute coordinates are fixed positions ($ in A1 style).
	AxisAbsolute
)

// RowCol is one endpoint of a reference.
type RowCol struct {
	// Style is the notation the values are expressed in.
	Style      ReferenceStyle
	RowType    AxisType
	Row        int
	ColumnType AxisType
	Column     int
}

// AreaKind is the shape of a ReferenceArea.
type AreaKind int

const (
	AreaCell AreaKind = iota
	AreaRange
	AreaColumnSpan
	AreaRowSpan
)

func (k AreaKind) String() string {
	switch k {
	case AreaCell:
		return "cell"
	case AreaRange:
		return "range"
	case AreaColumnSpan:
		return "column span"
	case AreaRowSpan:
		return "row span"
	default:
		return fmt.Sprintf("AreaKind(%d)", int(k))
	}
}

// ReferenceArea is the decoded geometry of a reference. For a single cell
// First and Last are equal. Endpoints are kept in the order they were
// written; the area is never normalized to top-left/bottom-right.
type ReferenceArea struct {
	Kind  AreaKind
	First RowCol
	Last  RowCol
}

// NewCellArea returns the area of a single cell.
func NewCellArea(cell RowCol) ReferenceArea {
	return ReferenceArea{Kind: AreaCell, First: cell, Last: cell}
}

// Style returns the notation of the area.
func (a ReferenceArea) Style() ReferenceStyle {
	return a.First.Style
}

// Render returns the text of the area in the given style. Coordinates
// written in the other style are converted relative to cell A1.
func (a ReferenceArea) Render(style ReferenceStyle) string {
	var sb strings.Builder
	a.write(&sb, style, origin)
	return sb.String()
}

func (a ReferenceArea) String() string {
	return a.Render(a.Style())
}

// Anchor is the cell that relative references are resolved against when a
// reference is converted between styles. Row and Column are 1-based.
type Anchor struct {
	Row, Column int
}

var origin = Anchor{Row: 1, Column: 1}

func (a ReferenceArea) write(sb *strings.Builder, style ReferenceStyle, anchor Anchor) {
	first := a.First.convert(style, anchor)
	last := a.Last.convert(style, anchor)
	switch a.Kind {
	case AreaCell:
		first.writeCell(sb)
	case AreaRange:
		first.writeCell(sb)
		sb.WriteByte(':')
		last.writeCell(sb)
	case AreaColumnSpan:
		if style == R1C1 && first == last {
			first.writeColumn(sb)
			return
		}
		first.writeColumn(sb)
		sb.WriteByte(':')
		last.writeColumn(sb)
	case AreaRowSpan:
		if style == R1C1 && first == last {
			first.writeRow(sb)
			return
		}
		first.writeRow(sb)
		sb.WriteByte(':')
		last.writeRow(sb)
	}
}

// Convert returns the coordinate expressed in the given style, resolving
// relative values against the anchor.
func (rc RowCol) Convert(style ReferenceStyle, anchor Anchor) RowCol {
	return rc.convert(style, anchor)
}

func (rc RowCol) convert(style ReferenceStyle, anchor Anchor) RowCol {
	if rc.Style == style {
		return rc
	}
	out := rc
	out.Style = style
	if rc.RowType == AxisRelative {
		out.Row = convertAxis(rc.Row, anchor.Row, style, MaxRow)
	}
	if rc.ColumnType == AxisRelative {
		out.Column = convertAxis(rc.Column, anchor.Column, style, MaxColumn)
	}
	return out
}

func convertAxis(value, anchor int, to ReferenceStyle, limit int) int {
	if to == R1C1 {
		// position -> offset
		return value - anchor
	}
	// offset -> position, wrapping around the sheet
	pos := (anchor - 1 + value) % limit
	if pos < 0 {
		pos += limit
	}
	return pos + 1
}

func (rc RowCol) writeCell(sb *strings.Builder) {
	if rc.Style == R1C1 {
		rc.writeRow(sb)
		rc.writeColumn(sb)
		return
	}
	rc.writeColumn(sb)
	rc.writeRow(sb)
}

func (rc RowCol) writeRow(sb *strings.Builder) {
	if rc.RowType == AxisNone {
		return
	}
	if rc.Style == R1C1 {
		writeR1C1Axis(sb, 'R', rc.RowType, rc.Row)
		return
	}
	if rc.RowType == AxisAbsolute {
		sb.WriteByte('$')
	}
	sb.WriteString(strconv.Itoa(rc.Row))
}

func (rc RowCol) writeColumn(sb *strings.Builder) {
	if rc.ColumnType == AxisNone {
		return
	}
	if rc.Style == R1C1 {
		writeR1C1Axis(sb, 'C', rc.ColumnType, rc.Column)
		return
	}
	if rc.ColumnType == AxisAbsolute {
		sb.WriteByte('$')
	}
	sb.WriteString(ColumnName(rc.Column))
}

func writeR1C1Axis(sb *strings.Builder, marker byte, typ AxisType, value int) {
	sb.WriteByte(marker)
	switch {
	case typ == AxisAbsolute:
		sb.WriteString(strconv.Itoa(value))
	case value != 0:
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(value))
		sb.WriteByte(']')
	}
}

// ColumnName returns the A1 letters of a 1-based column number, e.g. 28 is
// "AB". It returns an empty string for numbers below 1.
func ColumnName(column int) string {
	var buf [8]byte
	i := len(buf)
	for column > 0 && i > 0 {
		column--
		i--
		buf[i] = byte('A' + column%26)
		column /= 26
	}
	return string(buf[i:])
}

// ColumnNumber returns the 1-based column number of A1 column letters.
// Letters are case-insensitive. It returns 0 if letters contains anything
// other than ASCII letters.
func ColumnNumber(letters string) int {
	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		switch {
		case c >= 'A' && c <= 'Z':
			n = n*26 + int(c-'A') + 1
		case c >= 'a' && c <= 'z':
			n = n*26 + int(c-'a') + 1
		default:
			return 0
		}
	}
	return n
}
