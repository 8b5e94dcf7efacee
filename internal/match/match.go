// Package match runs input against a finished automaton by Thompson
// simulation: the set of live states advances one rune at a time, so no
// input position is ever revisited.
package match

import (
	"context"
	"log/slog"

	"GoNFA/internal/automaton"
)

// EpsilonClosure returns states together with every state reachable from
// them through epsilon edges only.
func EpsilonClosure(nfa *automaton.NFA, states automaton.StateSet) automaton.StateSet {
	closure := states.Clone()
	stack := make([]automaton.State, 0, len(states))
	for s := range states {
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range nfa.Transition(s, automaton.Epsilon) {
			if closure.Add(next) {
				stack = append(stack, next)
			}
		}
	}
	return closure
}

// Matcher simulates one NFA. It holds no per-call state and is safe for
// concurrent use.
type Matcher struct {
	nfa    *automaton.NFA
	opts   Options
	logger *slog.Logger

	start automaton.StateSet
}

// New returns a Matcher for nfa.
func New(nfa *automaton.NFA, opts Options) *Matcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		nfa:    nfa,
		opts:   opts,
		logger: logger,
		start:  EpsilonClosure(nfa, automaton.NewStateSet(nfa.Start())),
	}
}

// Start returns the epsilon closure of the start state.
func (m *Matcher) Start() automaton.StateSet {
	return m.start.Clone()
}

// Step consumes r from every state in set and closes the result over
// epsilon edges.
func (m *Matcher) Step(set automaton.StateSet, r rune) automaton.StateSet {
	next := make(automaton.StateSet)
	sym := automaton.Sym(r)
	for s := range set {
		for _, dst := range m.nfa.Transition(s, sym) {
			next.Add(dst)
		}
	}
	if len(next) == 0 {
		return next
	}
	return EpsilonClosure(m.nfa, next)
}

// IsAccept reports whether set holds an accepting state.
func (m *Matcher) IsAccept(set automaton.StateSet) bool {
	for s := range set {
		if m.nfa.IsAccept(s) {
			return true
		}
	}
	return false
}

// CanMatch reports whether any further input could still be accepted from
// set. Every state produced by the node assemblers reaches an accepting
// state, so for compiled patterns this is the same as set being non-empty.
func (m *Matcher) CanMatch(set automaton.StateSet) bool {
	return len(set) > 0
}

// MatchString reports whether the whole of s is accepted.
func (m *Matcher) MatchString(s string) (bool, error) {
	return m.MatchStringContext(context.Background(), s)
}

// MatchStringContext is MatchString with cancellation.
func (m *Matcher) MatchStringContext(ctx context.Context, s string) (bool, error) {
	ec := m.newExecutionContext(ctx)
	set := m.Start()
	for _, r := range s {
		set = m.Step(set, r)
		if !m.CanMatch(set) {
			return false, nil
		}
		if err := ec.Visit(len(set)); err != nil {
			m.limitExceeded(ec, err, "full")
			return false, err
		}
	}
	return m.IsAccept(set), nil
}

// Contains reports whether any substring of s is accepted.
func (m *Matcher) Contains(s string) (bool, error) {
	return m.ContainsContext(context.Background(), s)
}

// ContainsContext is Contains with cancellation.
func (m *Matcher) ContainsContext(ctx context.Context, s string) (bool, error) {
	ec := m.newExecutionContext(ctx)
	set := m.Start()
	if m.IsAccept(set) {
		return true, nil
	}
	for _, r := range s {
		// Threads that started earlier advance; a new one starts here.
		set = m.Step(set, r)
		for st := range m.start {
			set.Add(st)
		}
		if m.IsAccept(set) {
			return true, nil
		}
		if err := ec.Visit(len(set)); err != nil {
			m.limitExceeded(ec, err, "contains")
			return false, err
		}
	}
	return false, nil
}

func (m *Matcher) newExecutionContext(ctx context.Context) *ExecutionContext {
	return NewExecutionContext(ctx, m.opts.Timeout, m.opts.MaxStatesVisited)
}

func (m *Matcher) limitExceeded(ec *ExecutionContext, err error, mode string) {
	m.logger.Warn("match aborted",
		"mode", mode,
		"states_visited", ec.StatesVisited,
		"max_states_visited", ec.MaxStatesVisited,
		"timed_out", ec.TimedOut,
		"error", err,
	)
}
