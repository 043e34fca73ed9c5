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

// Package xlformula parses spreadsheet formulas in bulk and converts them
// between A1 and R1C1 notation.
//
// The building blocks live in sub-packages: parser tokenizes and parses
// formula text, ast holds the resulting trees and renders them back to
// text, and names decides how sheet names are quoted.
package xlformula

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/kralicky/xlformula/ast"
	"github.com/kralicky/xlformula/parser"
	"github.com/kralicky/xlformula/reporter"
)

// Parser parses formulas, concurrently when given several at once. The
// zero value parses A1 formulas with default settings.
type Parser struct {
	// The notation of the formulas.
	Style ast.ReferenceStyle
	// The maximum parallelism to use when parsing. If unspecified or set to
	// a non-positive value, then min(runtime.NumCPU(), runtime.GOMAXPROCS(-1))
	// will be used.
	MaxParallelism int
	// How function names are recorded in the trees.
	FunctionNames ast.FunctionNameMode
	// A custom error reporter. If unspecified a default reporter is used,
	// which stops parsing after the first formula that fails.
	Reporter reporter.Reporter
	// Logger receives debug output. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Result is the outcome of parsing one formula.
type Result struct {
	Formula string
	// Root is nil if the formula could not be parsed.
	Root ast.Node
	Err  error
}

// References returns the reference nodes of the tree, in source order.
func (r Result) References() []ast.Node {
	if r.Root == nil {
		return nil
	}
	var refs []ast.Node
	ast.Inspect(r.Root, func(n ast.Node) bool {
		if ast.IsReference(n) {
			refs = append(refs, n)
		}
		return true
	})
	return refs
}

func (p *Parser) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Parse parses a single formula, without the leading '='.
func (p *Parser) Parse(formula string) (ast.Node, error) {
	b := &ast.Builder{FunctionNames: p.FunctionNames}
	return parser.Parse[ast.ScalarValue, ast.Node](formula, p.Style, b)
}

// ParseAll parses the given formulas. The returned slice has one result per
// formula, in the same order, even when an error is returned.
//
// Every failure is passed to the reporter. If the reporter returns an
// error, formulas not yet started are skipped and that error is returned.
// Otherwise ParseAll returns reporter.ErrInvalidFormula if any formula
// failed.
func (p *Parser) ParseAll(ctx context.Context, formulas ...string) ([]Result, error) {
	results := make([]Result, len(formulas))
	for i, formula := range formulas {
		results[i].Formula = formula
	}
	if len(formulas) == 0 {
		return results, nil
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := p.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if par > cpus {
			par = cpus
		}
	}
	sem := semaphore.NewWeighted(int64(par))
	h := reporter.NewHandler(p.Reporter)
	logger := p.logger()

	var wg sync.WaitGroup
	for i := range formulas {
		err := sem.Acquire(ctx, 1)
		if err == nil && ctx.Err() != nil {
			// Acquire may succeed on a done context
			sem.Release(1)
			err = ctx.Err()
		}
		if err != nil {
			for j := i; j < len(results); j++ {
				results[j].Err = err
			}
			break
		}
		wg.Add(1)
		go func(res *Result) {
			defer wg.Done()
			defer sem.Release(1)
			res.Root, res.Err = p.Parse(res.Formula)
			if res.Err == nil {
				return
			}
			logger.Debug("formula failed to parse", "formula", res.Formula, "error", res.Err)
			if err := h.HandleError(withPos(res.Err)); !errors.Is(err, reporter.ErrInvalidFormula) {
				cancel()
			}
		}(&results[i])
	}
	wg.Wait()

	logger.Debug("parsed formulas", "count", len(formulas), "errors", h.ErrorsReported())
	if err := h.Error(); err != nil {
		return results, err
	}
	return results, parent.Err()
}

func withPos(err error) reporter.ErrorWithPos {
	var ewp reporter.ErrorWithPos
	if errors.As(err, &ewp) {
		return ewp
	}
	var encErr *parser.EncodingError
	if errors.As(err, &encErr) {
		return reporter.Error(reporter.Position{Offset: encErr.Offset}, err)
	}
	return reporter.Error(reporter.Position{}, err)
}

// ToR1C1 converts an A1 formula to R1C1 notation, as seen from the cell at
// the given 1-based row and column.
func ToR1C1(formula string, row, column int) (string, error) {
	return convert(formula, ast.A1, ast.R1C1, row, column)
}

// ToA1 converts an R1C1 formula to A1 notation, as seen from the cell at
// the given 1-based row and column. Relative references that point outside
// of the sheet wrap around.
func ToA1(formula string, row, column int) (string, error) {
	return convert(formula, ast.R1C1, ast.A1, row, column)
}

func convert(formula string, from, to ast.ReferenceStyle, row, column int) (string, error) {
	root, err := parser.ParseFormula(formula, from)
	if err != nil {
		return "", err
	}
	return ast.RenderAt(root, to, row, column), nil
}
