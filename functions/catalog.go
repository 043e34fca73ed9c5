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

// Package functions is a catalog of built-in spreadsheet function names.
//
// Functions added to the spreadsheet application after the original file
// format was defined are stored in files with a prefix, e.g. XLOOKUP is
// stored as _xlfn.XLOOKUP and FILTER as _xlfn._xlws.FILTER, while the user
// sees and types the bare name. The catalog converts between both forms.
package functions

import (
	"slices"
	"strings"
	"sync"

	art "github.com/plar/go-adaptive-radix-tree"
)

// Storage prefixes of future functions.
const (
	PrefixFuture    = "_xlfn."
	PrefixWorksheet = "_xlfn._xlws."
)

// Function describes a built-in function.
type Function struct {
	// Name is the upper case display name, e.g. XLOOKUP.
	Name string
	// Prefix is prepended to Name when the function is stored in a file.
	// It is empty for functions of the original file format.
	Prefix string
}

// StorageName returns the name the function has in a stored formula.
func (f Function) StorageName() string {
	return f.Prefix + f.Name
}

// Catalog is a case-insensitive registry of functions. Names are kept in an
// adaptive radix tree, so completions come out in lexical order.
//
// A Catalog is not safe for concurrent use while functions are being added.
// Once populated it may be read from any number of goroutines.
type Catalog struct {
	tree art.Tree
}

// NewCatalog returns a catalog holding the given functions.
func NewCatalog(fns ...Function) *Catalog {
	c := &Catalog{tree: art.New()}
	for _, fn := range fns {
		c.Add(fn)
	}
	return c
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	return NewCatalog(builtins()...)
})

// Default returns the catalog of the built-in functions. It must not be
// modified.
func Default() *Catalog {
	return defaultCatalog()
}

// Add registers fn, replacing any function of the same name.
func (c *Catalog) Add(fn Function) {
	fn.Name = strings.ToUpper(fn.Name)
	c.tree.Insert(art.Key(fn.Name), fn)
}

// Len returns the number of functions in the catalog.
func (c *Catalog) Len() int {
	return c.tree.Size()
}

// Lookup finds a function by name. The name may be written in any case and
// may carry its storage prefix.
func (c *Catalog) Lookup(name string) (Function, bool) {
	v, ok := c.tree.Search(art.Key(strings.ToUpper(StripPrefix(name))))
	if !ok {
		return Function{}, false
	}
	return v.(Function), true
}

// StorageName returns name as it is written in a stored formula. Names the
// catalog does not know are returned unchanged.
func (c *Catalog) StorageName(name string) string {
	fn, ok := c.Lookup(name)
	if !ok {
		return name
	}
	return fn.StorageName()
}

// DisplayName returns name as it is shown to the user, without any storage
// prefix. Names the catalog does not know only lose their prefix.
func (c *Catalog) DisplayName(name string) string {
	fn, ok := c.Lookup(name)
	if !ok {
		return StripPrefix(name)
	}
	return fn.Name
}

// Complete returns the functions whose display name starts with prefix,
// ordered by name.
func (c *Catalog) Complete(prefix string) []Function {
	var out []Function
	collect := func(node art.Node) bool {
		if node.Kind() == art.Leaf {
			out = append(out, node.Value().(Function))
		}
		return true
	}
	if prefix == "" {
		c.tree.ForEach(collect)
	} else {
		c.tree.ForEachPrefix(art.Key(strings.ToUpper(prefix)), collect)
	}
	slices.SortFunc(out, func(a, b Function) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// StripPrefix removes a storage prefix from name, in any case.
func StripPrefix(name string) string {
	for _, p := range []string{PrefixWorksheet, PrefixFuture} {
		if len(name) >= len(p) && strings.EqualFold(name[:len(p)], p) {
			return name[len(p):]
		}
	}
	return name
}
