package match

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMatchTimeout       = errors.New("match execution timeout")
	ErrStateLimitExceeded = errors.New("automaton state limit exceeded")
)

// ExecutionContext tracks execution limits and timeout for one match call.
type ExecutionContext struct {
	ctx      context.Context
	Deadline time.Time

	MaxStatesVisited int
	StatesVisited    int

	// checkCounter amortizes time and cancellation checks.
	checkCounter  int
	checkInterval int

	TimedOut      bool
	LimitExceeded bool
}

// NewExecutionContext creates a context with the given timeout and state
// budget. A zero timeout disables the deadline; a non-positive maxStates
// falls back to DefaultMaxStatesVisited.
func NewExecutionContext(ctx context.Context, timeout time.Duration, maxStates int) *ExecutionContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if maxStates <= 0 {
		maxStates = DefaultMaxStatesVisited
	}
	ec := &ExecutionContext{
		ctx:              ctx,
		MaxStatesVisited: maxStates,
		checkInterval:    128,
	}
	if timeout > 0 {
		ec.Deadline = time.Now().Add(timeout)
	}
	return ec
}

// Visit records n visited states and checks the limits.
func (ec *ExecutionContext) Visit(n int) error {
	ec.StatesVisited += n
	return ec.CheckLimits()
}

// CheckLimits checks whether any execution limit has been exceeded.
// Time and cancellation checks are amortized over checkInterval calls.
func (ec *ExecutionContext) CheckLimits() error {
	if ec.StatesVisited >= ec.MaxStatesVisited {
		ec.LimitExceeded = true
		return ErrStateLimitExceeded
	}

	ec.checkCounter++
	if ec.checkCounter%ec.checkInterval != 0 {
		return nil
	}
	if err := ec.ctx.Err(); err != nil {
		return err
	}
	if !ec.Deadline.IsZero() && time.Now().After(ec.Deadline) {
		ec.TimedOut = true
		return ErrMatchTimeout
	}
	return nil
}
