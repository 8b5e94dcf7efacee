package server

import (
	"errors"
	"log/slog"
	"sync"

	"GoNFA/internal/compiler"
)

var ErrCacheDisabled = errors.New("pattern cache is disabled")

// PatternCache holds compiled patterns keyed by pattern text. When full,
// the oldest entry is evicted first.
type PatternCache struct {
	compiler *compiler.Compiler
	logger   *slog.Logger
	capacity int

	mu      sync.RWMutex
	entries map[string]*compiler.Compiled
	order   []string

	hits, misses uint64
}

// NewPatternCache creates a cache of at most capacity entries. A capacity
// of zero disables caching; every Get compiles.
func NewPatternCache(c *compiler.Compiler, capacity int, logger *slog.Logger) *PatternCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternCache{
		compiler: c,
		logger:   logger,
		capacity: capacity,
		entries:  make(map[string]*compiler.Compiled),
	}
}

// Get returns the compiled form of pattern, compiling it on a miss.
func (pc *PatternCache) Get(pattern string) (*compiler.Compiled, error) {
	pc.mu.RLock()
	res, ok := pc.entries[pattern]
	pc.mu.RUnlock()
	if ok {
		pc.mu.Lock()
		pc.hits++
		pc.mu.Unlock()
		return res, nil
	}

	res, err := pc.compiler.Compile(pattern)
	if err != nil {
		return nil, err
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.misses++
	if pc.capacity == 0 {
		return res, nil
	}
	// Another request may have compiled the same pattern meanwhile.
	if existing, ok := pc.entries[pattern]; ok {
		return existing, nil
	}
	for len(pc.order) >= pc.capacity {
		oldest := pc.order[0]
		pc.order = pc.order[1:]
		delete(pc.entries, oldest)
		pc.logger.Debug("pattern evicted", "pattern", oldest)
	}
	pc.entries[pattern] = res
	pc.order = append(pc.order, pattern)
	return res, nil
}

// Stats reports cache occupancy and hit counts.
func (pc *PatternCache) Stats() map[string]interface{} {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return map[string]interface{}{
		"size":     len(pc.entries),
		"capacity": pc.capacity,
		"hits":     pc.hits,
		"misses":   pc.misses,
	}
}

// Purge drops every cached pattern.
func (pc *PatternCache) Purge() error {
	if pc.capacity == 0 {
		return ErrCacheDisabled
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.entries = make(map[string]*compiler.Compiled)
	pc.order = nil
	return nil
}
