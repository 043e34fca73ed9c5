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

import "errors"

// ErrBreak may be returned from a before hook to skip a node and its
// descendants without aborting the walk.
var ErrBreak = errors.New("skip node")

// WalkOption represents an option used with the Walk and Inspect
// functions. These allow optional before and after hooks to be invoked as
// each node in the tree is visited.
type WalkOption func(*walkOptions)

type walkOptions struct {
	before func(Node) error
	after  func(Node) error

	depthLimit int
}

// WithBefore returns a WalkOption that will cause the given function to be
// invoked before a node is visited during a walk operation. If this hook
// returns an error, the node is not visited and the walk operation is
// aborted, unless the error is ErrBreak.
func WithBefore(fn func(Node) error) WalkOption {
	return func(options *walkOptions) {
		options.before = fn
	}
}

// WithAfter returns a WalkOption that will cause the given function to be
// invoked after a node (as well as any descendants) is visited during a walk
// operation.
//
// If the walk is aborted due to some other visitor or before hook returning an
// error, the after hook is still called for all nodes that have been visited.
// However, the walk operation fails with the first error it encountered, so any
// error returned from an after hook is effectively ignored.
func WithAfter(fn func(Node) error) WalkOption {
	return func(options *walkOptions) {
		options.after = fn
	}
}

// WithDepthLimit stops descending below the given depth. The root is at
// depth 1.
func WithDepthLimit(limit int) WalkOption {
	return func(options *walkOptions) {
		options.depthLimit = limit
	}
}

// Children returns the direct children of n, in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *BinaryNode:
		return []Node{n.Left, n.Right}
	case *UnaryNode:
		return []Node{n.Operand}
	case *FunctionNode:
		return n.Args
	}
	return nil
}

// Walk visits n and its descendants in depth-first order, calling visit for
// each node. If visit returns an error, the walk stops and returns it.
func Walk(n Node, visit func(Node) error, opts ...WalkOption) error {
	return walk(n, func(n Node) (bool, error) {
		return true, visit(n)
	}, newWalkOptions(opts), 1)
}

// Inspect traverses an AST in depth-first order: It starts by calling
// visit(node); node must not be nil. If visit returns true, Inspect invokes
// visit recursively for each of the children of node.
func Inspect(node Node, visit func(Node) bool, opts ...WalkOption) {
	_ = walk(node, func(n Node) (bool, error) {
		return visit(n), nil
	}, newWalkOptions(opts), 1)
}

func newWalkOptions(opts []WalkOption) *walkOptions {
	var wOpts walkOptions
	for _, opt := range opts {
		opt(&wOpts)
	}
	return &wOpts
}

func walk(n Node, visit func(Node) (bool, error), opts *walkOptions, depth int) (err error) {
	if opts.depthLimit > 0 && depth > opts.depthLimit {
		return nil
	}
	if opts.before != nil {
		if err := opts.before(n); err != nil {
			if err == ErrBreak {
				return nil
			}
			return err
		}
	}
	if opts.after != nil {
		defer func() {
			if afterErr := opts.after(n); err == nil {
				err = afterErr
			}
		}()
	}
	descend, err := visit(n)
	if err != nil || !descend {
		return err
	}
	for _, child := range Children(n) {
		if err := walk(child, visit, opts, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// AncestorTracker is used to track the path of nodes during a walk
// operation. By passing AsWalkOptions to a call to Walk or Inspect, a
// visitor can inspect the path to the node being visited using this
// tracker.
type AncestorTracker struct {
	ancestors []Node
}

// AsWalkOptions returns WalkOption values that will cause this ancestor
// tracker to track the path through the AST during the walk operation.
func (t *AncestorTracker) AsWalkOptions() []WalkOption {
	return []WalkOption{
		WithBefore(func(n Node) error {
			t.ancestors = append(t.ancestors, n)
			return nil
		}),
		WithAfter(func(Node) error {
			t.ancestors = t.ancestors[:len(t.ancestors)-1]
			return nil
		}),
	}
}

// Path returns a slice of nodes that represents the path from the root of
// the walk operation to the currently visited node. The first element in the
// path is the root supplied to Walk or Inspect. The last element in the path
// is the currently visited node.
//
// The returned slice is not a defensive copy; so callers should NOT mutate
// it.
func (t *AncestorTracker) Path() []Node {
	return t.ancestors
}

// Parent returns the parent of the currently visited node, or nil for the
// root.
func (t *AncestorTracker) Parent() Node {
	if len(t.ancestors) < 2 {
		return nil
	}
	return t.ancestors[len(t.ancestors)-2]
}
