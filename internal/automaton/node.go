package automaton

import "strings"

// Node is one operator of a regular-expression syntax tree. Assemble turns
// the node and, recursively, its operands into a Fragment, drawing every
// new state from ctx.
//
// Operands are assembled left to right before the node allocates any state
// of its own, so numbering follows a depth-first walk of the tree.
//
// The returned fragment belongs to the caller. Assemblers extend their
// operands' fragments in place instead of copying them.
type Node interface {
	Assemble(ctx *Context) Fragment
	String() string
}

// Compile assembles root with a fresh Context and freezes the result.
func Compile(root Node) *NFA {
	return root.Assemble(NewContext()).Build()
}

// Literal matches exactly one rune.
type Literal struct {
	Rune rune
}

func (l Literal) Assemble(ctx *Context) Fragment {
	s1 := ctx.NextState()
	s2 := ctx.NextState()
	f := NewFragment(s1, s2)
	f.link(s1, Sym(l.Rune), s2)
	return f
}

func (l Literal) String() string {
	if strings.ContainsRune(metaChars, l.Rune) {
		return `\` + string(l.Rune)
	}
	switch l.Rune {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	}
	return string(l.Rune)
}

// Concatenation matches Left followed by Right.
type Concatenation struct {
	Left, Right Node
}

func (c Concatenation) Assemble(ctx *Context) Fragment {
	left := c.Left.Assemble(ctx)
	right := c.Right.Assemble(ctx)

	f := left
	f.absorb(right)
	for st := range left.acceptable {
		f.link(st, Epsilon, right.start)
	}
	f.acceptable = right.acceptable
	return f
}

func (c Concatenation) String() string {
	return group(c.Left, precConcat) + group(c.Right, precConcat)
}

// Alternation matches either Left or Right.
type Alternation struct {
	Left, Right Node
}

func (a Alternation) Assemble(ctx *Context) Fragment {
	left := a.Left.Assemble(ctx)
	right := a.Right.Assemble(ctx)

	f := left
	f.absorb(right)
	s := ctx.NextState()
	f.link(s, Epsilon, left.start)
	f.link(s, Epsilon, right.start)
	f.start = s
	for st := range right.acceptable {
		f.acceptable.Add(st)
	}
	return f
}

func (a Alternation) String() string {
	return group(a.Left, precAlt) + "|" + group(a.Right, precAlt)
}

// Repetition matches Inner zero or more times.
//
// The wrapper state is kept apart from Inner's start: the start is where
// iterations rewind to, the wrapper is the entry a parent composes with.
type Repetition struct {
	Inner Node
}

func (r Repetition) Assemble(ctx *Context) Fragment {
	f := loop(r.Inner.Assemble(ctx), ctx)
	f.acceptable.Add(f.start)
	return f
}

// loop copies inner, rewinds every acceptable state to inner's start and
// enters through a fresh wrapper state.
func loop(inner Fragment, ctx *Context) Fragment {
	f := inner.Copy()
	for st := range inner.acceptable {
		f.link(st, Epsilon, inner.start)
	}
	s := ctx.NextState()
	f.link(s, Epsilon, inner.start)
	f.start = s
	return f
}

func (r Repetition) String() string {
	return group(r.Inner, precRepeat) + "*"
}

// Empty matches the empty string.
type Empty struct{}

func (Empty) Assemble(ctx *Context) Fragment {
	s := ctx.NextState()
	return NewFragment(s, s)
}

func (Empty) String() string {
	return ""
}

// OneOrMore matches Inner one or more times. It is Repetition without the
// accepting wrapper, so at least one pass through Inner is required.
type OneOrMore struct {
	Inner Node
}

func (o OneOrMore) Assemble(ctx *Context) Fragment {
	return loop(o.Inner.Assemble(ctx), ctx)
}

func (o OneOrMore) String() string {
	return group(o.Inner, precRepeat) + "+"
}

// Optional matches Inner or the empty string.
type Optional struct {
	Inner Node
}

func (o Optional) Assemble(ctx *Context) Fragment {
	return Alternation{Left: o.Inner, Right: Empty{}}.Assemble(ctx)
}

func (o Optional) String() string {
	return group(o.Inner, precRepeat) + "?"
}

// metaChars must be escaped to be read back as literals.
const metaChars = `\|*+?()`

// Binding strength used to decide where String needs parentheses.
const (
	precAlt = iota + 1
	precConcat
	precRepeat
	precAtom
)

func precedence(n Node) int {
	switch n.(type) {
	case Alternation:
		return precAlt
	case Concatenation, Empty:
		return precConcat
	case Repetition, OneOrMore, Optional:
		return precRepeat
	default:
		return precAtom
	}
}

func group(n Node, min int) string {
	if precedence(n) < min {
		return "(" + n.String() + ")"
	}
	return n.String()
}
