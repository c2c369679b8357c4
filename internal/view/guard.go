package view

import (
	"context"
	"log"
	"sync"
)

// ticket identifies one in-flight request of a controller.
type ticket struct {
	gen uint64
	key string
}

// guard drops completions that are no longer the controller's latest
// request, that finish after the controller was closed, or whose request
// context ended before they finished.
type guard struct {
	mu     sync.Mutex
	gen    uint64
	key    string
	closed bool
}

// begin supersedes any in-flight request.
func (g *guard) begin(key string) ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	g.key = key
	return ticket{gen: g.gen, key: key}
}

// apply runs fn under the guard lock when t is still current.
func (g *guard) apply(ctx context.Context, t ticket, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		log.Printf("[INFO] dropping %q result: %v", t.key, err)
		return false
	}
	if g.closed {
		log.Printf("[INFO] dropping %q result: view closed", t.key)
		return false
	}
	if t.gen != g.gen || t.key != g.key {
		log.Printf("[INFO] dropping stale %q result, current request is %q", t.key, g.key)
		return false
	}
	fn()
	return true
}

// current reports whether t is still the latest request.
func (g *guard) current(t ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.closed && t.gen == g.gen && t.key == g.key
}

func (g *guard) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
}

func (g *guard) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}
