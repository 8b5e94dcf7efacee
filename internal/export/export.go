// Package export renders finished automata for people and other programs.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"GoNFA/internal/automaton"
)

// Format selects an output encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatDOT
)

var ErrUnknownFormat = errors.New("unknown output format")

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatDOT:
		return "dot"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a format name to a Format. The empty string is JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "dot", "graphviz":
		return FormatDOT, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Document is the serialized form of an automaton.
type Document struct {
	Pattern string         `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Start   uint32         `json:"start" yaml:"start"`
	Accept  []uint32       `json:"accept" yaml:"accept"`
	States  []uint32       `json:"states" yaml:"states"`
	Edges   []DocumentEdge `json:"edges" yaml:"edges"`
}

// DocumentEdge is one (source, symbol) row. Symbol is empty for epsilon
// edges, which set Epsilon instead.
type DocumentEdge struct {
	From    uint32   `json:"from" yaml:"from"`
	Symbol  string   `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Epsilon bool     `json:"epsilon,omitempty" yaml:"epsilon,omitempty"`
	To      []uint32 `json:"to" yaml:"to,flow"`
}

// NewDocument converts nfa. pattern is informational and may be empty.
func NewDocument(pattern string, nfa *automaton.NFA) Document {
	doc := Document{
		Pattern: pattern,
		Start:   uint32(nfa.Start()),
		Accept:  toUint32(nfa.Accept()),
		States:  toUint32(nfa.States()),
		Edges:   make([]DocumentEdge, 0, len(nfa.Edges())),
	}
	for _, e := range nfa.Edges() {
		de := DocumentEdge{From: uint32(e.From), To: toUint32(e.To)}
		if r, ok := e.Symbol.Rune(); ok {
			de.Symbol = string(r)
		} else {
			de.Epsilon = true
		}
		doc.Edges = append(doc.Edges, de)
	}
	return doc
}

// Write encodes nfa to w in the given format.
func Write(w io.Writer, pattern string, nfa *automaton.NFA, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(pattern, nfa))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(pattern, nfa)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatDOT:
		_, err := io.WriteString(w, DOT(pattern, nfa))
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// DOT renders nfa as a Graphviz digraph. Accepting states are drawn as
// double circles and epsilon edges are labelled ε.
func DOT(pattern string, nfa *automaton.NFA) string {
	var b strings.Builder
	b.WriteString("digraph nfa {\n")
	b.WriteString("  rankdir=LR;\n")
	if pattern != "" {
		fmt.Fprintf(&b, "  label=%q;\n", pattern)
	}
	b.WriteString("  __start [shape=point];\n")
	for _, s := range nfa.States() {
		shape := "circle"
		if nfa.IsAccept(s) {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "  %d [shape=%s];\n", s, shape)
	}
	fmt.Fprintf(&b, "  __start -> %d;\n", nfa.Start())
	for _, e := range nfa.Edges() {
		label := "ε"
		if r, ok := e.Symbol.Rune(); ok {
			label = string(r)
		}
		for _, to := range e.To {
			fmt.Fprintf(&b, "  %d -> %d [label=%q];\n", e.From, to, label)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func toUint32(states []automaton.State) []uint32 {
	out := make([]uint32, len(states))
	for i, s := range states {
		out[i] = uint32(s)
	}
	return out
}
