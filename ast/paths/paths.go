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

// Package paths addresses nodes of a formula tree by the child indexes
// leading to them from the root.
package paths

import (
	"slices"
	"strconv"
	"strings"

	"github.com/kralicky/xlformula/ast"
)

// Path is a sequence of child indexes, as returned by ast.Children. The
// empty path denotes the root.
type Path []int

func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	var sb strings.Builder
	for i, idx := range p {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}

// Parse parses the output of Path.String.
func Parse(s string) (Path, bool) {
	if s == "." {
		return Path{}, true
	}
	parts := strings.Split(s, ".")
	p := make(Path, len(parts))
	for i, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, false
		}
		p[i] = idx
	}
	return p, true
}

// Join returns a new path constructed by appending the steps of b to a.
func Join(a, b Path) Path {
	p := slices.Clone(a)
	return append(p, b...)
}

// Located is a node together with its path.
type Located struct {
	Path Path
	Node ast.Node
}

// Collect returns the nodes below root, root included, for which match
// returns true, in depth-first order.
func Collect(root ast.Node, match func(ast.Node) bool) []Located {
	var out []Located
	var visit func(n ast.Node, p Path)
	visit = func(n ast.Node, p Path) {
		if match(n) {
			out = append(out, Located{Path: slices.Clone(p), Node: n})
		}
		for i, child := range ast.Children(n) {
			visit(child, append(p, i))
		}
	}
	visit(root, nil)
	return out
}

// Of returns the path of target, compared by identity, within the tree
// rooted at root.
func Of(root, target ast.Node) (Path, bool) {
	found := Collect(root, func(n ast.Node) bool { return n == target })
	if len(found) == 0 {
		return nil, false
	}
	return found[0].Path, true
}

// Dereference walks the given path from the root node and returns the node
// at the end of the path. It returns false if the path leaves the tree.
func Dereference(root ast.Node, path Path) (ast.Node, bool) {
	nodes := DereferenceAll(root, path)
	if len(nodes) != len(path)+1 {
		return nil, false
	}
	return nodes[len(nodes)-1], true
}

// DereferenceAll walks the given path from the root node and returns all
// nodes visited. The first node in the returned slice is the root node. If
// the path leaves the tree, the slice ends with the last node that exists.
func DereferenceAll(root ast.Node, path Path) []ast.Node {
	list := []ast.Node{root}
	node := root
	for _, idx := range path {
		children := ast.Children(node)
		if idx < 0 || idx >= len(children) {
			break
		}
		node = children[idx]
		list = append(list, node)
	}
	return list
}

// NodeAt returns the node at path if it has type T.
func NodeAt[T ast.Node](root ast.Node, path Path) (t T, ok bool) {
	n, ok := Dereference(root, path)
	if !ok {
		return t, false
	}
	t, ok = n.(T)
	return t, ok
}
