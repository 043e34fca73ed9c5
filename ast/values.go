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

// LogicalNode is a TRUE or FALSE constant.
type LogicalNode struct {
	Val bool
}

// NumberNode is a numeric constant. Numbers in formulas are never
// negative; a leading minus is a UnaryNode.
type NumberNode struct {
	Val float64
}

// TextNode is a string constant. Val holds the unescaped text.
//
//	"say ""hi""" => say "hi"
type TextNode struct {
	Val string
}

// ErrorNode is an error constant such as #DIV/0!. Code is upper case.
type ErrorNode struct {
	Code string
}

// ScalarKind is the type of a ScalarValue.
type ScalarKind int

const (
	ScalarBlank ScalarKind = iota
	ScalarLogical
	ScalarNumber
	ScalarText
	ScalarError
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarBlank:
		return "blank"
	case ScalarLogical:
		return "logical"
	case ScalarNumber:
		return "number"
	case ScalarText:
		return "text"
	case ScalarError:
		return "error"
	default:
		return fmt.Sprintf("ScalarKind(%d)", int(k))
	}
}

// ScalarValue is an element of an array constant. Only the field that
// matches Kind is meaningful; Text holds both text values and error codes.
type ScalarValue struct {
	Kind    ScalarKind
	Logical bool
	Number  float64
	Text    string
}

// Value returns a Go representation of the value: nil, bool, float64 or
// string.
func (v ScalarValue) Value() any {
	switch v.Kind {
	case ScalarLogical:
		return v.Logical
	case ScalarNumber:
		return v.Number
	case ScalarText, ScalarError:
		return v.Text
	default:
		return nil
	}
}

func (v ScalarValue) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v ScalarValue) write(sb *strings.Builder) {
	switch v.Kind {
	case ScalarLogical:
		writeLogical(sb, v.Logical)
	case ScalarNumber:
		// arrays are the only place a negative number is a single value
		writeNumber(sb, v.Number)
	case ScalarText:
		writeText(sb, v.Text)
	case ScalarError:
		sb.WriteString(v.Text)
	}
}

func writeLogical(sb *strings.Builder, b bool) {
	if b {
		sb.WriteString("TRUE")
	} else {
		sb.WriteString("FALSE")
	}
}

func writeNumber(sb *strings.Builder, f float64) {
	sb.WriteString(strconv.FormatFloat(f, 'G', -1, 64))
}

func writeText(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	sb.WriteString(strings.ReplaceAll(s, `"`, `""`))
	sb.WriteByte('"')
}
