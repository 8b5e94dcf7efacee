// Package compiler turns pattern text into ready-to-run automata and logs
// each compilation.
package compiler

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"GoNFA/internal/automaton"
	"GoNFA/internal/match"
	"GoNFA/internal/syntax"
)

// Options configures a Compiler.
type Options struct {
	// Match is handed to every Matcher the compiler builds.
	Match match.Options

	// Logger for compile events. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Match: match.DefaultOptions(),
	}
}

// Compiled is the outcome of one compilation.
type Compiled struct {
	ID      uuid.UUID
	Pattern string
	NFA     *automaton.NFA
	Matcher *match.Matcher
	Elapsed time.Duration
}

// Compiler compiles patterns. It is safe for concurrent use: each call
// draws states from its own automaton.Context.
type Compiler struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Compiler.
func New(opts Options) *Compiler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Match.Logger == nil {
		opts.Match.Logger = logger
	}
	return &Compiler{opts: opts, logger: logger}
}

// Compile parses and assembles pattern.
func (c *Compiler) Compile(pattern string) (*Compiled, error) {
	id := uuid.New()
	begin := time.Now()

	root, err := syntax.Parse(pattern)
	if err != nil {
		c.logger.Debug("pattern rejected",
			"compile_id", id.String(),
			"pattern", pattern,
			"error", err,
		)
		return nil, err
	}

	ctx := automaton.NewContext()
	nfa := root.Assemble(ctx).Build()
	elapsed := time.Since(begin)

	c.logger.Debug("pattern compiled",
		"compile_id", id.String(),
		"pattern", pattern,
		"states", ctx.Allocated(),
		"edges", nfa.NumEdges(),
		"duration", elapsed,
	)

	return &Compiled{
		ID:      id,
		Pattern: pattern,
		NFA:     nfa,
		Matcher: match.New(nfa, c.opts.Match),
		Elapsed: elapsed,
	}, nil
}
