package store

import (
	"sync"
	"sync/atomic"

	"kvcore/internal/logger"
)

// guard is a reader/writer lock that poisons itself when a writer does not
// return normally. Once poisoned it stays poisoned; every later read or write
// fails with an *UnavailableError.
type guard struct {
	mu       sync.RWMutex
	poisoned atomic.Bool
	coll     Collection
}

func (g *guard) read(fn func()) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.poisoned.Load() {
		return &UnavailableError{Collection: g.coll}
	}
	fn()
	return nil
}

// write runs fn under the exclusive lock. A panic inside fn poisons the guard
// and keeps propagating to the caller.
func (g *guard) write(fn func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.poisoned.Load() {
		return &UnavailableError{Collection: g.coll}
	}

	done := false
	defer func() {
		if !done {
			g.poisoned.Store(true)
			logger.WithField("collection", g.coll.String()).
				Error("writer failed mid-mutation, collection is now unavailable")
		}
	}()
	fn()
	done = true
	return nil
}
