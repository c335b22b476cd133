// Package oplock provides named, self-expiring operation locks that keep
// overlapping mutations from interleaving.
package oplock

import (
	"sync"
	"time"
)

// DefaultTimeout is how long a held lock stays valid before a later caller
// may force-expire it. A stuck operation must never wedge the engine.
const DefaultTimeout = 4 * time.Second

// Guard hands out named locks. Each name is an independent lock; the zero
// value is not usable, construct with New.
type Guard struct {
	mu      sync.Mutex
	timeout time.Duration
	now     func() time.Time
	held    map[string]time.Time
}

// New creates a guard with the given hold timeout. A non-positive timeout
// falls back to DefaultTimeout.
func New(timeout time.Duration) *Guard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Guard{
		timeout: timeout,
		now:     time.Now,
		held:    map[string]time.Time{},
	}
}

// WithClock overrides the guard's clock. Test hook.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// Acquire takes the named lock. It fails only when the lock is held and its
// hold window has not yet expired; an expired hold is reclaimed in place.
func (g *Guard) Acquire(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if acquired, ok := g.held[name]; ok && now.Sub(acquired) < g.timeout {
		return false
	}
	g.held[name] = now
	return true
}

// Release frees the named lock. Releasing a lock that is not held is a
// no-op.
func (g *Guard) Release(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, name)
}

// Held reports whether the named lock is currently held and unexpired.
func (g *Guard) Held(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	acquired, ok := g.held[name]
	return ok && g.now().Sub(acquired) < g.timeout
}

// With runs fn under the named lock, releasing it when fn returns. Returns
// false without running fn when the lock is busy.
func (g *Guard) With(name string, fn func()) bool {
	if !g.Acquire(name) {
		return false
	}
	defer g.Release(name)
	fn()
	return true
}
