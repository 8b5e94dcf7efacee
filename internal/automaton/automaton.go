package automaton

import (
	"sort"
	"strconv"
)

// State identifies a state of a nondeterministic finite automaton.
// States are unique within one compilation and are issued by a Context.
type State uint32

// DeadState is never issued by a Context. It marks the absence of a state.
const DeadState State = 0

func (s State) String() string {
	return "s" + strconv.FormatUint(uint64(s), 10)
}

// Context allocates states for a single compilation.
//
// Every state issued by one Context is strictly greater than all states it
// issued before, which is what lets two fragments assembled from the same
// Context be merged without key collisions.
//
// A Context is not safe for concurrent use.
type Context struct {
	last State
}

// NewContext returns a Context whose first issued state is 1.
func NewContext() *Context {
	return &Context{}
}

// NextState issues a fresh state.
func (c *Context) NextState() State {
	c.last++
	return c.last
}

// Allocated returns the number of states issued so far.
func (c *Context) Allocated() int {
	return int(c.last)
}

// StateSet is a set of states.
type StateSet map[State]struct{}

// NewStateSet returns a set holding the given states.
func NewStateSet(states ...State) StateSet {
	s := make(StateSet, len(states))
	for _, st := range states {
		s[st] = struct{}{}
	}
	return s
}

// Add inserts st and reports whether it was absent.
func (s StateSet) Add(st State) bool {
	if _, ok := s[st]; ok {
		return false
	}
	s[st] = struct{}{}
	return true
}

func (s StateSet) Has(st State) bool {
	_, ok := s[st]
	return ok
}

func (s StateSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of s.
func (s StateSet) Clone() StateSet {
	c := make(StateSet, len(s))
	for st := range s {
		c[st] = struct{}{}
	}
	return c
}

// Sorted returns the states in ascending order.
func (s StateSet) Sorted() []State {
	if len(s) == 0 {
		return nil
	}
	out := make([]State, 0, len(s))
	for st := range s {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
