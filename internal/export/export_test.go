package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"GoNFA/internal/syntax"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatJSON},
		{"json", FormatJSON},
		{"YAML", FormatYAML},
		{"yml", FormatYAML},
		{" dot ", FormatDOT},
		{"graphviz", FormatDOT},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestNewDocument_Concatenation(t *testing.T) {
	nfa, err := syntax.Compile("ab")
	require.NoError(t, err)

	doc := NewDocument("ab", nfa)
	assert.Equal(t, "ab", doc.Pattern)
	assert.Equal(t, uint32(1), doc.Start)
	assert.Equal(t, []uint32{4}, doc.Accept)
	assert.Equal(t, []uint32{1, 2, 3, 4}, doc.States)
	assert.Equal(t, []DocumentEdge{
		{From: 1, Symbol: "a", To: []uint32{2}},
		{From: 2, Epsilon: true, To: []uint32{3}},
		{From: 3, Symbol: "b", To: []uint32{4}},
	}, doc.Edges)
}

func TestWrite_JSON(t *testing.T) {
	nfa, err := syntax.Compile("a|b")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "a|b", nfa, FormatJSON))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, uint32(5), doc.Start)
	assert.Equal(t, []uint32{2, 4}, doc.Accept)
	assert.Contains(t, buf.String(), `"epsilon": true`)
}

func TestWrite_YAML(t *testing.T) {
	nfa, err := syntax.Compile("a*")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "a*", nfa, FormatYAML))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, uint32(3), doc.Start)
	assert.Equal(t, []uint32{2, 3}, doc.Accept)
	assert.Len(t, doc.Edges, 3)
}

func TestWrite_DOT(t *testing.T) {
	nfa, err := syntax.Compile("a*")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "a*", nfa, FormatDOT))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph nfa {"))
	assert.Contains(t, out, "2 [shape=doublecircle];")
	assert.Contains(t, out, "3 [shape=doublecircle];")
	assert.Contains(t, out, "1 [shape=circle];")
	assert.Contains(t, out, `1 -> 2 [label="a"];`)
	assert.Contains(t, out, `3 -> 1 [label="ε"];`)
	assert.Contains(t, out, "__start -> 3;")
}

func TestWrite_UnknownFormat(t *testing.T) {
	nfa, err := syntax.Compile("a")
	require.NoError(t, err)
	assert.ErrorIs(t, Write(&bytes.Buffer{}, "", nfa, Format(42)), ErrUnknownFormat)
}
