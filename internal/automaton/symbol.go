package automaton

import "strconv"

// Symbol labels a transition. The zero value is Epsilon, which is taken
// without consuming input; any other Symbol consumes exactly one rune.
type Symbol struct {
	r     rune
	valid bool
}

// Epsilon is the symbol of transitions that consume no input.
var Epsilon = Symbol{}

// Sym returns the concrete symbol for r.
func Sym(r rune) Symbol {
	return Symbol{r: r, valid: true}
}

func (s Symbol) IsEpsilon() bool {
	return !s.valid
}

// Rune returns the consumed rune. ok is false for Epsilon.
func (s Symbol) Rune() (r rune, ok bool) {
	return s.r, s.valid
}

func (s Symbol) String() string {
	if !s.valid {
		return "ε"
	}
	return strconv.QuoteRune(s.r)
}

// less orders epsilon before every concrete symbol, then by rune.
func (s Symbol) less(o Symbol) bool {
	if s.valid != o.valid {
		return !s.valid
	}
	return s.r < o.r
}
