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

package reporter

import (
	"errors"
	"fmt"
)

// ErrInvalidFormula is a sentinel error that is returned by parsing steps
// when one or more errors is reported but the configured ErrorReporter
// always returns nil.
var ErrInvalidFormula = errors.New("parse failed: invalid formula")

// Position is a location in formula text. Offset is a byte offset; Length
// is the number of bytes of the offending construct and may be zero.
type Position struct {
	Offset int
	Length int
}

func (p Position) String() string {
	return fmt.Sprintf("offset %d", p.Offset)
}

// ErrorWithPos is an error about a formula that adds information about the
// location in the text that caused the error.
type ErrorWithPos interface {
	error
	// GetPosition returns the source position that caused the underlying error.
	GetPosition() Position
	// Unwrap returns the underlying error.
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and source position.
func Error(pos Position, err error) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created using the
// given message format and arguments (via fmt.Errorf).
func Errorf(pos Position, format string, args ...interface{}) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithPos struct {
	underlying error
	pos        Position
}

func (e errorWithPos) Error() string {
	return fmt.Sprintf("%s: %v", e.pos, e.underlying)
}

func (e errorWithPos) GetPosition() Position {
	return e.pos
}

func (e errorWithPos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithPos{}

// Custom error types that contain additional information for each error.

// UnexpectedTokenError reports a token the grammar does not allow at its
// position.
type UnexpectedTokenError struct {
	// Found is the text of the token, empty at the end of the formula.
	Found string
	// Expected describes what the parser was looking for.
	Expected string
}

func (e UnexpectedTokenError) Error() string {
	found := fmt.Sprintf("%q", e.Found)
	if e.Found == "" {
		found = "end of formula"
	}
	if e.Expected == "" {
		return fmt.Sprintf("unexpected %s", found)
	}
	return fmt.Sprintf("unexpected %s, expecting %s", found, e.Expected)
}
