// Package syntax parses regular-expression text into automaton syntax trees.
//
// Supported syntax: literal runes, concatenation, alternation (|), the
// postfix operators *, + and ?, grouping with parentheses, and backslash
// escapes. There are no character classes, anchors or capture groups.
package syntax

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"GoNFA/internal/automaton"
)

// Pattern limits.
const (
	MaxPatternLength = 1024
	MaxNestingDepth  = 64
)

var (
	ErrPatternTooLong    = errors.New("pattern exceeds maximum length")
	ErrNestingTooDeep    = errors.New("parentheses nested too deeply")
	ErrMissingParen      = errors.New("missing closing )")
	ErrUnexpectedParen   = errors.New("unexpected )")
	ErrMissingOperand    = errors.New("missing argument to repetition operator")
	ErrTrailingBackslash = errors.New("trailing backslash at end of pattern")
	ErrInvalidUTF8       = errors.New("invalid UTF-8")
)

// ParseError reports where in a pattern parsing failed. Pos is a rune
// offset.
type ParseError struct {
	Pattern string
	Pos     int
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at position %d: %v", e.Pattern, e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse turns pattern into a syntax tree. Runs of concatenation and
// alternation fold to the left, so "abc" is ((a b) c).
func Parse(pattern string) (automaton.Node, error) {
	if !utf8.ValidString(pattern) {
		return nil, &ParseError{Pattern: pattern, Err: ErrInvalidUTF8}
	}
	p := &parser{pattern: pattern, src: []rune(pattern)}
	if len(p.src) > MaxPatternLength {
		return nil, &ParseError{Pattern: pattern, Pos: MaxPatternLength, Err: ErrPatternTooLong}
	}

	root, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		// Only a stray ')' stops the top-level alternation early.
		return nil, p.errorf(ErrUnexpectedParen)
	}
	return root, nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string) automaton.Node {
	n, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return n
}

// Compile parses pattern and assembles it into an NFA.
func Compile(pattern string) (*automaton.NFA, error) {
	root, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	return automaton.Compile(root), nil
}

type parser struct {
	pattern string
	src     []rune
	pos     int
	depth   int
}

func (p *parser) errorf(err error) error {
	return &ParseError{Pattern: p.pattern, Pos: p.pos, Err: err}
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) parseAlternation() (automaton.Node, error) {
	left, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}
	for {
		r, ok := p.peek()
		if !ok || r != '|' {
			return left, nil
		}
		p.pos++
		right, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		left = automaton.Alternation{Left: left, Right: right}
	}
}

func (p *parser) parseConcatenation() (automaton.Node, error) {
	var left automaton.Node
	for {
		r, ok := p.peek()
		if !ok || r == '|' || r == ')' {
			break
		}
		next, err := p.parseRepetition()
		if err != nil {
			return nil, err
		}
		if left == nil {
			left = next
			continue
		}
		left = automaton.Concatenation{Left: left, Right: next}
	}
	if left == nil {
		return automaton.Empty{}, nil
	}
	return left, nil
}

func (p *parser) parseRepetition() (automaton.Node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		r, ok := p.peek()
		if !ok {
			return n, nil
		}
		switch r {
		case '*', '+', '?':
			n = quantify(n, r)
		default:
			return n, nil
		}
		p.pos++
	}
}

// quantify applies the postfix operator op to n. A quantifier on an already
// quantified operand folds into one: a** and a+? are a*, a++ is a+, a?? is a?.
func quantify(n automaton.Node, op rune) automaton.Node {
	var inner automaton.Node
	var have rune
	switch q := n.(type) {
	case automaton.Repetition:
		inner, have = q.Inner, '*'
	case automaton.OneOrMore:
		inner, have = q.Inner, '+'
	case automaton.Optional:
		inner, have = q.Inner, '?'
	default:
		switch op {
		case '*':
			return automaton.Repetition{Inner: n}
		case '+':
			return automaton.OneOrMore{Inner: n}
		default:
			return automaton.Optional{Inner: n}
		}
	}
	if have == op {
		return n
	}
	return automaton.Repetition{Inner: inner}
}

func (p *parser) parseAtom() (automaton.Node, error) {
	r, _ := p.peek()
	switch r {
	case '*', '+', '?':
		return nil, p.errorf(ErrMissingOperand)
	case '(':
		return p.parseGroup()
	case '\\':
		p.pos++
		esc, ok := p.peek()
		if !ok {
			return nil, p.errorf(ErrTrailingBackslash)
		}
		p.pos++
		return automaton.Literal{Rune: unescape(esc)}, nil
	default:
		p.pos++
		return automaton.Literal{Rune: r}, nil
	}
}

func (p *parser) parseGroup() (automaton.Node, error) {
	open := p.pos
	p.depth++
	if p.depth > MaxNestingDepth {
		return nil, p.errorf(ErrNestingTooDeep)
	}
	p.pos++

	inner, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if r, ok := p.peek(); !ok || r != ')' {
		return nil, &ParseError{Pattern: p.pattern, Pos: open, Err: ErrMissingParen}
	}
	p.pos++
	p.depth--
	return inner, nil
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return r
	}
}
