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

// Command xlformula parses spreadsheet formulas and prints their tokens,
// their syntax tree, or the formula converted to the other notation.
//
// Formulas are taken from the arguments, or one per line from standard
// input. A leading '=' is ignored.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"

	"github.com/kralicky/xlformula"
	"github.com/kralicky/xlformula/ast"
	"github.com/kralicky/xlformula/ast/paths"
	"github.com/kralicky/xlformula/functions"
	"github.com/kralicky/xlformula/parser"
	"github.com/kralicky/xlformula/reporter"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	r1c1     bool
	tokens   bool
	json     bool
	refs     bool
	convert  bool
	row, col int
	storage  bool
	complete string
	verbose  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("xlformula", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.r1c1, "r1c1", false, "Formulas use R1C1 notation")
	fs.BoolVar(&opts.tokens, "tokens", false, "Output the token stream")
	fs.BoolVar(&opts.json, "json", false, "Output the syntax tree as JSON")
	fs.BoolVar(&opts.refs, "refs", false, "Output the references of each formula with their tree paths")
	fs.BoolVar(&opts.convert, "convert", false, "Output the formula in the other notation")
	fs.IntVar(&opts.row, "row", 1, "Row of the formula cell, for -convert")
	fs.IntVar(&opts.col, "col", 1, "Column of the formula cell, for -convert")
	fs.BoolVar(&opts.storage, "storage", false, "Write function names as stored in files")
	fs.StringVar(&opts.complete, "complete", "", "List built-in functions starting with the prefix")
	fs.BoolVar(&opts.verbose, "v", false, "Debug logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: xlformula [options] [formula...]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if opts.complete != "" {
		for _, fn := range functions.Default().Complete(opts.complete) {
			fmt.Fprintln(stdout, fn.Name)
		}
		return 0
	}

	formulas := fs.Args()
	if len(formulas) == 0 {
		var err error
		formulas, err = readLines(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	for i, f := range formulas {
		formulas[i] = strings.TrimPrefix(f, "=")
	}

	style := ast.A1
	if opts.r1c1 {
		style = ast.R1C1
	}
	if opts.tokens {
		return printTokens(formulas, style, stdout, stderr)
	}

	p := &xlformula.Parser{
		Style:  style,
		Logger: logger,
		// report every failure, keep going
		Reporter: reporter.NewReporter(func(err reporter.ErrorWithPos) error {
			return nil
		}),
	}
	if opts.storage {
		p.FunctionNames = ast.FunctionNamesStorage
	}
	results, err := p.ParseAll(context.Background(), formulas...)
	if err != nil {
		logger.Debug("parse finished with errors", "error", err)
	}

	code := 0
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", res.Formula, res.Err)
			code = 1
			continue
		}
		if err := printResult(res, style, opts, stdout); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", res.Formula, err)
			code = 1
		}
	}
	return code
}

func printResult(res xlformula.Result, style ast.ReferenceStyle, opts options, out io.Writer) error {
	switch {
	case opts.json:
		v, err := ast.ToProto(res.Root)
		if err != nil {
			return err
		}
		data, err := protojson.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case opts.refs:
		for _, ref := range paths.Collect(res.Root, ast.IsReference) {
			fmt.Fprintf(out, "%s\t%s\n", ref.Path, ast.Render(ref.Node, style))
		}
	case opts.convert:
		other := ast.R1C1
		if style == ast.R1C1 {
			other = ast.A1
		}
		fmt.Fprintln(out, "="+ast.RenderAt(res.Root, other, opts.row, opts.col))
	default:
		fmt.Fprintln(out, "="+ast.Render(res.Root, style))
	}
	return nil
}

func printTokens(formulas []string, style ast.ReferenceStyle, out, errOut io.Writer) int {
	code := 0
	for _, f := range formulas {
		tokens, err := parser.Tokenize(f, style)
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", f, err)
			code = 1
			continue
		}
		for _, t := range tokens {
			fmt.Fprintf(out, "%-22s %3d %q\n", t.Symbol, t.Start, t.Text(f))
			if t.Symbol == parser.SymbolError {
				code = 1
			}
		}
	}
	return code
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
