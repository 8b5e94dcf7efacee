package automaton

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// treeFromBytes decodes an arbitrary byte string into a syntax tree so the
// fuzzer can explore tree shapes without a parser.
func treeFromBytes(data []byte, depth int) (Node, []byte) {
	if len(data) == 0 || depth > 32 {
		return Literal{Rune: 'x'}, data
	}
	op, rest := data[0], data[1:]
	var n Node
	switch op % 7 {
	case 0:
		left := nodeOrLeaf(&rest, depth)
		n = Concatenation{Left: left, Right: nodeOrLeaf(&rest, depth)}
	case 1:
		left := nodeOrLeaf(&rest, depth)
		n = Alternation{Left: left, Right: nodeOrLeaf(&rest, depth)}
	case 2:
		n = Repetition{Inner: nodeOrLeaf(&rest, depth)}
	case 3:
		n = Optional{Inner: nodeOrLeaf(&rest, depth)}
	case 4:
		n = OneOrMore{Inner: nodeOrLeaf(&rest, depth)}
	case 5:
		n = Empty{}
	default:
		n = Literal{Rune: rune('a' + op%26)}
	}
	return n, rest
}

func nodeOrLeaf(data *[]byte, depth int) Node {
	n, rest := treeFromBytes(*data, depth+1)
	*data = rest
	return n
}

func FuzzCompile(f *testing.F) {
	f.Add([]byte{0, 6, 7})
	f.Add([]byte{1, 6, 13})
	f.Add([]byte{2, 1, 6, 13})
	f.Add([]byte{0, 2, 6, 4, 20})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		root, _ := treeFromBytes(data, 0)

		ctx := NewContext()
		frag := root.Assemble(ctx)
		nfa := frag.Build()

		require.NotEqual(t, DeadState, nfa.Start(), "%s: start is the dead state", root)
		require.NotEmpty(t, nfa.Accept(), "%s: no accepting state", root)
		last := nfa.States()[len(nfa.States())-1]
		require.True(t, int(last) <= ctx.Allocated(), "%s: state %v was never allocated (allocated %d)", root, last, ctx.Allocated())
		require.Equal(t, frag.NumEdges(), nfa.NumEdges(), "%s: build changed edge count", root)
	})
}
