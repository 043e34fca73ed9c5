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

import "fmt"

// BinaryOp is a binary operator.
type BinaryOp int

const (
	OpEqual BinaryOp = iota
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
	OpConcat
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	// OpUnion joins references, (A1,B2). It is only valid inside
	// parentheses.
	OpUnion
	// OpIntersection intersects references separated by whitespace.
	OpIntersection
	// OpRange builds the smallest area containing both operands.
	OpRange
)

// UnaryOp is a prefix or postfix operator.
type UnaryOp int

const (
	OpPlus UnaryOp = iota
	OpMinus
	// OpPercent is the postfix %.
	OpPercent
	// OpImplicitIntersection is the prefix @.
	OpImplicitIntersection
	// OpSpill is the postfix # of a spilled range reference.
	OpSpill
)

// Precedence levels, from loosest to tightest. Operands are always
// tighter than any operator.
const (
	PrecComparison = iota + 1
	PrecConcat
	PrecAdditive
	PrecMultiplicative
	PrecPower
	PrecPercent
	PrecPrefix
	PrecUnion
	PrecIntersection
	PrecImplicitIntersection
	PrecRange
	PrecSpill
	PrecOperand
)

var binaryText = [...]string{
	OpEqual:          "=",
	OpNotEqual:       "<>",
	OpLess:           "<",
	OpLessOrEqual:    "<=",
	OpGreater:        ">",
	OpGreaterOrEqual: ">=",
	OpConcat:         "&",
	OpAdd:            "+",
	OpSub:            "-",
	OpMul:            "*",
	OpDiv:            "/",
	OpPow:            "^",
	OpUnion:          ",",
	OpIntersection:   " ",
	OpRange:          ":",
}

func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(binaryText) {
		return fmt.Sprintf("BinaryOp(%d)", int(op))
	}
	return binaryText[op]
}

// Precedence returns the binding strength of the operator. All binary
// operators are left-associative.
func (op BinaryOp) Precedence() int {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual:
		return PrecComparison
	case OpConcat:
		return PrecConcat
	case OpAdd, OpSub:
		return PrecAdditive
	case OpMul, OpDiv:
		return PrecMultiplicative
	case OpPow:
		return PrecPower
	case OpUnion:
		return PrecUnion
	case OpIntersection:
		return PrecIntersection
	case OpRange:
		return PrecRange
	}
	return PrecOperand
}

var unaryText = [...]string{
	OpPlus:                 "+",
	OpMinus:                "-",
	OpPercent:              "%",
	OpImplicitIntersection: "@",
	OpSpill:                "#",
}

func (op UnaryOp) String() string {
	if op < 0 || int(op) >= len(unaryText) {
		return fmt.Sprintf("UnaryOp(%d)", int(op))
	}
	return unaryText[op]
}

// IsPostfix reports whether the operator follows its operand.
func (op UnaryOp) IsPostfix() bool {
	return op == OpPercent || op == OpSpill
}

// Precedence returns the binding strength of the operator.
func (op UnaryOp) Precedence() int {
	switch op {
	case OpPlus, OpMinus:
		return PrecPrefix
	case OpPercent:
		return PrecPercent
	case OpImplicitIntersection:
		return PrecImplicitIntersection
	case OpSpill:
		return PrecSpill
	}
	return PrecOperand
}
