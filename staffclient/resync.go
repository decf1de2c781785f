package staffclient

import (
	"sync"
	"time"
)

// ResyncGuard serialises visibility-triggered resyncs: no re-entry while one
// is in flight, and a cooldown window absorbs flapping visibility events.
type ResyncGuard struct {
	Cooldown time.Duration

	mu       sync.Mutex
	inFlight bool
	last     time.Time
}

// TryBegin reports whether a resync may start now, claiming the slot if so.
// Callers that get true must call End when done.
func (g *ResyncGuard) TryBegin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight {
		return false
	}
	if !g.last.IsZero() && time.Since(g.last) < g.cooldown() {
		return false
	}
	g.inFlight = true
	return true
}

// End releases the slot and starts the cooldown window.
func (g *ResyncGuard) End() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false
	g.last = time.Now()
}

func (g *ResyncGuard) cooldown() time.Duration {
	if g.Cooldown <= 0 {
		return 2 * time.Second
	}
	return g.Cooldown
}
