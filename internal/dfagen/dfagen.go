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

// Package dfagen compiles an ordered list of lexical rules into a
// deterministic finite automaton over code point ranges.
//
// Rules are ordered by priority: when two rules accept the same input, the
// rule listed first wins. The resulting table is meant to be driven with a
// longest-match policy, so priorities only matter for matches of equal
// length.
package dfagen

import (
	"encoding/binary"
	"slices"
	"sort"
	"unicode"
)

// Expr is a regular expression over code points.
type Expr interface {
	build(n *nfa) fragment
}

// Rule associates an expression with the value reported by the states that
// accept it.
type Rule struct {
	Accept int
	Expr   Expr
}

// State is one state of a compiled DFA. Accept is -1 for states that do not
// accept.
type State struct {
	Accept      int
	Transitions []Transition
}

// Transition is a DFA edge. Ranges are sorted and disjoint; transitions of
// a single state never overlap.
type Transition struct {
	Ranges Set
	Next   int
}

type charExpr struct{ set Set }

type seqExpr struct{ items []Expr }

type altExpr struct{ items []Expr }

type starExpr struct{ item Expr }

type emptyExpr struct{}

// Char matches one rune from the set.
func Char(set Set) Expr {
	return charExpr{set: set}
}

// Lit matches the exact text.
func Lit(s string) Expr {
	items := make([]Expr, 0, len(s))
	for _, r := range s {
		items = append(items, Char(Runes(r)))
	}
	return Seq(items...)
}

// Fold matches the text under simple case folding.
func Fold(s string) Expr {
	items := make([]Expr, 0, len(s))
	for _, r := range s {
		rs := []rune{r}
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			rs = append(rs, f)
		}
		items = append(items, Char(Runes(rs...)))
	}
	return Seq(items...)
}

// Seq matches each expression in turn.
func Seq(items ...Expr) Expr {
	return seqExpr{items: items}
}

// Alt matches any one of the expressions.
func Alt(items ...Expr) Expr {
	return altExpr{items: items}
}

// Star matches zero or more repetitions.
func Star(e Expr) Expr {
	return starExpr{item: e}
}

// Plus matches one or more repetitions.
func Plus(e Expr) Expr {
	return Seq(e, Star(e))
}

// Opt matches zero or one occurrence.
func Opt(e Expr) Expr {
	return Alt(e, emptyExpr{})
}

// Repeat matches between min and max repetitions, inclusive.
func Repeat(e Expr, min, max int) Expr {
	items := make([]Expr, 0, max)
	for i := 0; i < min; i++ {
		items = append(items, e)
	}
	// nest the optional tail so each extra copy requires the previous one
	var tail Expr = emptyExpr{}
	for i := min; i < max; i++ {
		tail = Opt(Seq(e, tail))
	}
	return Seq(append(items, tail)...)
}

type diffExpr struct{ expr, except Expr }

// Without matches what expr matches, except the strings except matches.
func Without(expr, except Expr) Expr {
	return diffExpr{expr: expr, except: except}
}

type fragment struct {
	start, end int
}

type edge struct {
	set Set
	to  int
}

type nfaNode struct {
	eps   []int
	edges []edge
}

type nfa struct {
	nodes  []nfaNode
	accept map[int]int
}

func (n *nfa) node() int {
	n.nodes = append(n.nodes, nfaNode{})
	return len(n.nodes) - 1
}

func (n *nfa) epsilon(from, to int) {
	n.nodes[from].eps = append(n.nodes[from].eps, to)
}

func (c charExpr) build(n *nfa) fragment {
	s, e := n.node(), n.node()
	n.nodes[s].edges = append(n.nodes[s].edges, edge{set: c.set, to: e})
	return fragment{start: s, end: e}
}

func (c seqExpr) build(n *nfa) fragment {
	if len(c.items) == 0 {
		return emptyExpr{}.build(n)
	}
	first := c.items[0].build(n)
	end := first.end
	for _, item := range c.items[1:] {
		f := item.build(n)
		n.epsilon(end, f.start)
		end = f.end
	}
	return fragment{start: first.start, end: end}
}

func (c altExpr) build(n *nfa) fragment {
	s, e := n.node(), n.node()
	for _, item := range c.items {
		f := item.build(n)
		n.epsilon(s, f.start)
		n.epsilon(f.end, e)
	}
	return fragment{start: s, end: e}
}

func (c starExpr) build(n *nfa) fragment {
	s, e := n.node(), n.node()
	f := c.item.build(n)
	n.epsilon(s, e)
	n.epsilon(s, f.start)
	n.epsilon(f.end, f.start)
	n.epsilon(f.end, e)
	return fragment{start: s, end: e}
}

func (emptyExpr) build(n *nfa) fragment {
	s := n.node()
	return fragment{start: s, end: s}
}

// build runs both expressions as DFAs in lockstep and accepts where only
// expr accepts. An except state of -1 means except can no longer match.
func (d diffExpr) build(n *nfa) fragment {
	in := Compile([]Rule{{Expr: d.expr}})
	out := Compile([]Rule{{Expr: d.except}})

	type pair struct{ in, out int }
	ids := map[pair]int{}
	var queue []pair
	end := n.node()
	visit := func(p pair) int {
		if id, ok := ids[p]; ok {
			return id
		}
		id := n.node()
		ids[p] = id
		queue = append(queue, p)
		if in[p.in].Accept >= 0 && (p.out < 0 || out[p.out].Accept < 0) {
			n.epsilon(id, end)
		}
		return id
	}
	start := visit(pair{0, 0})
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		from := ids[p]
		for _, t := range in[p.in].Transitions {
			rest := t.Ranges
			if p.out >= 0 {
				for _, u := range out[p.out].Transitions {
					both := t.Ranges.intersect(u.Ranges)
					if len(both) == 0 {
						continue
					}
					to := visit(pair{t.Next, u.Next})
					n.nodes[from].edges = append(n.nodes[from].edges, edge{set: both, to: to})
					rest = rest.Minus(u.Ranges)
				}
			}
			if len(rest) > 0 {
				to := visit(pair{t.Next, -1})
				n.nodes[from].edges = append(n.nodes[from].edges, edge{set: rest, to: to})
			}
		}
	}
	return fragment{start: start, end: end}
}

// Compile builds the DFA for the given rules. State 0 is the start state.
// No rule may match the empty string.
func Compile(rules []Rule) []State {
	n := &nfa{accept: map[int]int{}}
	start := n.node()
	for i, r := range rules {
		f := r.Expr.build(n)
		n.epsilon(start, f.start)
		n.accept[f.end] = i
	}

	b := &builder{nfa: n, rules: rules, ids: map[string]int{}}
	b.add(b.closure([]int{start}))
	for i := 0; i < len(b.sets); i++ {
		b.states[i].Transitions = b.transitions(b.sets[i])
	}
	return b.states
}

type builder struct {
	nfa    *nfa
	rules  []Rule
	ids    map[string]int
	sets   [][]int
	states []State
}

func (b *builder) closure(seed []int) []int {
	seen := map[int]bool{}
	stack := slices.Clone(seed)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, b.nfa.nodes[cur].eps...)
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (b *builder) add(set []int) int {
	key := setKey(set)
	if id, ok := b.ids[key]; ok {
		return id
	}
	accept := -1
	best := len(b.rules)
	for _, id := range set {
		if rule, ok := b.nfa.accept[id]; ok && rule < best {
			best = rule
		}
	}
	if best < len(b.rules) {
		accept = b.rules[best].Accept
	}
	id := len(b.states)
	b.ids[key] = id
	b.sets = append(b.sets, set)
	b.states = append(b.states, State{Accept: accept})
	return id
}

func (b *builder) transitions(set []int) []Transition {
	var edges []edge
	for _, id := range set {
		edges = append(edges, b.nfa.nodes[id].edges...)
	}
	if len(edges) == 0 {
		return nil
	}

	// split the alphabet at every range boundary so each elementary
	// interval leads to exactly one target set
	var points []rune
	for _, e := range edges {
		for _, r := range e.set {
			points = append(points, r.First, r.Last+1)
		}
	}
	slices.Sort(points)
	points = slices.Compact(points)

	targets := map[int][]Range{}
	resolved := map[string]int{}
	var order []int
	for i := 0; i+1 < len(points); i++ {
		lo, hi := points[i], points[i+1]-1
		var next []int
		for _, e := range edges {
			if e.set.Contains(lo) {
				next = append(next, e.to)
			}
		}
		if len(next) == 0 {
			continue
		}
		key := setKey(next)
		to, ok := resolved[key]
		if !ok {
			to = b.add(b.closure(next))
			resolved[key] = to
		}
		if _, ok := targets[to]; !ok {
			order = append(order, to)
		}
		targets[to] = append(targets[to], Range{First: lo, Last: hi})
	}

	out := make([]Transition, 0, len(order))
	for _, to := range order {
		out = append(out, Transition{Ranges: normalize(targets[to]), Next: to})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ranges[0].First < out[j].Ranges[0].First
	})
	return out
}

func setKey(set []int) string {
	buf := make([]byte, 0, len(set)*binary.MaxVarintLen32)
	for _, id := range set {
		buf = binary.AppendUvarint(buf, uint64(id))
	}
	return string(buf)
}
