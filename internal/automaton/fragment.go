package automaton

// edgeKey addresses one row of a transition table.
type edgeKey struct {
	from State
	sym  Symbol
}

// table maps (source, symbol) to the set of destination states.
type table map[edgeKey]StateSet

func (t table) clone() table {
	c := make(table, len(t))
	for k, dst := range t {
		c[k] = dst.Clone()
	}
	return c
}

// Fragment is a partially built automaton: one start state, a set of
// acceptable states and a transition table.
//
// Fragments are values. Connect, Merge, Copy, WithStart and WithAcceptable
// return a new Fragment and leave the receiver untouched.
type Fragment struct {
	start      State
	acceptable StateSet
	table      table
}

// NewFragment returns a fragment with an empty table.
func NewFragment(start State, acceptable ...State) Fragment {
	return Fragment{
		start:      start,
		acceptable: NewStateSet(acceptable...),
		table:      make(table),
	}
}

func (f Fragment) Start() State {
	return f.start
}

// Acceptable returns the acceptable states in ascending order.
func (f Fragment) Acceptable() []State {
	return f.acceptable.Sorted()
}

func (f Fragment) IsAcceptable(s State) bool {
	return f.acceptable.Has(s)
}

// Targets returns the destinations of (from, sym) in ascending order.
func (f Fragment) Targets(from State, sym Symbol) []State {
	return f.table[edgeKey{from: from, sym: sym}].Sorted()
}

// NumEdges returns the number of (source, symbol, destination) triples.
func (f Fragment) NumEdges() int {
	n := 0
	for _, dst := range f.table {
		n += len(dst)
	}
	return n
}

// States returns every state the fragment mentions, in ascending order.
func (f Fragment) States() []State {
	all := NewStateSet(f.start)
	for st := range f.acceptable {
		all.Add(st)
	}
	for k, dst := range f.table {
		all.Add(k.from)
		for st := range dst {
			all.Add(st)
		}
	}
	return all.Sorted()
}

// Connect returns a fragment with an additional edge from --sym--> to.
// Connecting an edge that already exists yields an equal fragment.
func (f Fragment) Connect(from State, sym Symbol, to State) Fragment {
	c := f.Copy()
	c.link(from, sym, to)
	return c
}

// Merge returns a fragment whose table is the union of both tables. Start
// and acceptable states are taken from f; callers reset them as needed.
//
// The two fragments are expected to come from the same Context and so to
// have disjoint states. Keys present in both are unioned, never replaced.
func (f Fragment) Merge(other Fragment) Fragment {
	m := f.Copy()
	for k, dst := range other.table {
		cur, ok := m.table[k]
		if !ok {
			m.table[k] = dst.Clone()
			continue
		}
		for st := range dst {
			cur.Add(st)
		}
	}
	return m
}

// Copy returns a fragment with an independent table and acceptable set.
func (f Fragment) Copy() Fragment {
	return Fragment{
		start:      f.start,
		acceptable: f.acceptable.Clone(),
		table:      f.table.clone(),
	}
}

// WithStart returns a copy of f starting at s.
func (f Fragment) WithStart(s State) Fragment {
	c := f.Copy()
	c.start = s
	return c
}

// WithAcceptable returns a copy of f whose acceptable set is exactly states.
func (f Fragment) WithAcceptable(states ...State) Fragment {
	c := f.Copy()
	c.acceptable = NewStateSet(states...)
	return c
}

// Build freezes the fragment into an NFA. Edges are carried over as
// inserted; no epsilon closure is computed.
func (f Fragment) Build() *NFA {
	n := &NFA{
		start:  f.start,
		accept: f.acceptable.Clone(),
		delta:  make(map[edgeKey][]State, len(f.table)),
	}
	for k, dst := range f.table {
		if len(dst) == 0 {
			continue
		}
		n.delta[k] = dst.Sorted()
	}
	n.index()
	return n
}

// link adds an edge in place. Only used on fragments the caller owns
// exclusively: an operand's freshly assembled fragment or a Copy of one.
func (f *Fragment) link(from State, sym Symbol, to State) {
	k := edgeKey{from: from, sym: sym}
	dst, ok := f.table[k]
	if !ok {
		dst = make(StateSet, 1)
		f.table[k] = dst
	}
	dst.Add(to)
}

// absorb moves other's edges into f in place. other must not be used
// afterwards; its destination sets may now be shared with f.
func (f *Fragment) absorb(other Fragment) {
	for k, dst := range other.table {
		cur, ok := f.table[k]
		if !ok {
			f.table[k] = dst
			continue
		}
		for st := range dst {
			cur.Add(st)
		}
	}
}
