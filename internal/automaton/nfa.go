package automaton

import "sort"

// Edge is one row of a finished automaton's transition table.
type Edge struct {
	From   State
	Symbol Symbol
	To     []State
}

// NFA is a finished automaton. It is immutable and safe for concurrent
// reads.
//
// Transition is a direct lookup of the edges inserted during assembly.
// Epsilon edges are reported as they are; closing over them is left to
// the caller.
type NFA struct {
	start  State
	accept StateSet
	delta  map[edgeKey][]State

	// Derived on build.
	states   []State
	edges    []Edge
	alphabet []rune
}

func (n *NFA) index() {
	all := NewStateSet(n.start)
	for st := range n.accept {
		all.Add(st)
	}
	runes := make(map[rune]struct{})

	n.edges = make([]Edge, 0, len(n.delta))
	for k, dst := range n.delta {
		all.Add(k.from)
		for _, st := range dst {
			all.Add(st)
		}
		if r, ok := k.sym.Rune(); ok {
			runes[r] = struct{}{}
		}
		n.edges = append(n.edges, Edge{From: k.from, Symbol: k.sym, To: dst})
	}
	sort.Slice(n.edges, func(i, j int) bool {
		a, b := n.edges[i], n.edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		return a.Symbol.less(b.Symbol)
	})

	n.states = all.Sorted()

	n.alphabet = make([]rune, 0, len(runes))
	for r := range runes {
		n.alphabet = append(n.alphabet, r)
	}
	sort.Slice(n.alphabet, func(i, j int) bool { return n.alphabet[i] < n.alphabet[j] })
}

func (n *NFA) Start() State {
	return n.start
}

// Accept returns the accepting states in ascending order.
func (n *NFA) Accept() []State {
	return n.accept.Sorted()
}

func (n *NFA) IsAccept(s State) bool {
	return n.accept.Has(s)
}

// Transition returns the states reachable from s by exactly one edge
// labelled sym, in ascending order. It returns nil when there is none.
func (n *NFA) Transition(s State, sym Symbol) []State {
	dst := n.delta[edgeKey{from: s, sym: sym}]
	if len(dst) == 0 {
		return nil
	}
	out := make([]State, len(dst))
	copy(out, dst)
	return out
}

// States returns every state of the automaton in ascending order.
func (n *NFA) States() []State {
	out := make([]State, len(n.states))
	copy(out, n.states)
	return out
}

// Edges returns all table rows ordered by source state, then symbol with
// epsilon first.
func (n *NFA) Edges() []Edge {
	out := make([]Edge, len(n.edges))
	for i, e := range n.edges {
		to := make([]State, len(e.To))
		copy(to, e.To)
		out[i] = Edge{From: e.From, Symbol: e.Symbol, To: to}
	}
	return out
}

// Alphabet returns the distinct runes consumed by any edge, ascending.
func (n *NFA) Alphabet() []rune {
	out := make([]rune, len(n.alphabet))
	copy(out, n.alphabet)
	return out
}

func (n *NFA) NumStates() int {
	return len(n.states)
}

// NumEdges returns the number of (source, symbol, destination) triples.
func (n *NFA) NumEdges() int {
	total := 0
	for _, dst := range n.delta {
		total += len(dst)
	}
	return total
}
