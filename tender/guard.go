package tender

import "sync"

// inflightGuard is a single-slot token per operation. It replaces the
// original client's ad hoc button disabling: overlapping invocations of
// the same operation are rejected deterministically instead of racing
// on the session.
type inflightGuard struct {
	mu     sync.Mutex
	active map[string]bool
}

func (g *inflightGuard) acquire(op string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == nil {
		g.active = make(map[string]bool)
	}
	if g.active[op] {
		return false
	}
	g.active[op] = true
	return true
}

func (g *inflightGuard) release(op string) {
	g.mu.Lock()
	delete(g.active, op)
	g.mu.Unlock()
}
