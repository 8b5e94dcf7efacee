package match

import (
	"log/slog"
	"time"
)

// DefaultMaxStatesVisited bounds the work of a single match call.
const DefaultMaxStatesVisited = 1_000_000

// Options configures a Matcher.
type Options struct {
	// MaxStatesVisited caps the number of state visits per call, counting
	// every state of every active set after each step.
	MaxStatesVisited int

	// Timeout is the wall-clock budget per call. Zero means no deadline.
	Timeout time.Duration

	// Logger for limit violations. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxStatesVisited: DefaultMaxStatesVisited,
		Timeout:          5 * time.Second,
	}
}
