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

// Package reporter contains the types used for reporting errors from
// parsing formulas. Errors carry the position in the formula text that
// caused them.
package reporter

import "sync"

// ErrorReporter is responsible for reporting the given error. If the
// reporter returns a non-nil error, parsing of the current formula stops
// and that error is returned. If it returns nil, the error is recorded and
// ErrInvalidFormula is returned instead.
type ErrorReporter func(err ErrorWithPos) error

// Reporter is a type that handles reporting errors.
type Reporter interface {
	// Error is called when the given error is encountered and needs to be
	// reported to the calling program. This signature matches ErrorReporter
	// because it has the same semantics.
	Error(ErrorWithPos) error
}

// NewReporter creates a new reporter that invokes the given function when
// an error is reported. If errs is nil, the error is returned as is.
func NewReporter(errs ErrorReporter) Reporter {
	if errs == nil {
		errs = func(err ErrorWithPos) error {
			return err
		}
	}
	return reporterFuncs{errs: errs}
}

type reporterFuncs struct {
	errs ErrorReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	return r.errs(err)
}

// Handler is used by callers that report errors from several goroutines.
// It wraps a Reporter, remembers the first error the reporter returned and
// counts every reported error. A Handler is safe for concurrent use.
type Handler struct {
	reporter Reporter

	mu       sync.Mutex
	errsSeen int
	err      error
}

// NewHandler creates a new Handler that reports errors to the given
// reporter. If rep is nil, the default reporter is used, which stops at
// the first error.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil)
	}
	return &Handler{reporter: rep}
}

// HandleError handles the given error. The returned error is the one the
// reporter returned, or ErrInvalidFormula if the reporter accepted it.
// Once the reporter has returned an error, that error is returned for
// every later call without invoking the reporter again.
func (h *Handler) HandleError(err ErrorWithPos) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.errsSeen++
	if repErr := h.reporter.Error(err); repErr != nil {
		h.err = repErr
		return repErr
	}
	return ErrInvalidFormula
}

// HandleErrorf handles an error with the given source position, creating
// the error using the given message format and arguments.
func (h *Handler) HandleErrorf(pos Position, format string, args ...interface{}) error {
	return h.HandleError(Errorf(pos, format, args...))
}

// Error returns the error the reporter stopped with, ErrInvalidFormula if
// errors were reported but none stopped it, or nil.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	if h.errsSeen > 0 {
		return ErrInvalidFormula
	}
	return nil
}

// ErrorsReported returns the number of errors passed to the reporter.
func (h *Handler) ErrorsReported() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errsSeen
}
