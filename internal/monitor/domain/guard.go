package domain

import "sync"

// SettlementGuard is a one-shot latch scoped to a single monitor session.
// It keeps the payment-creation side effect from firing more than once per
// session while still allowing a retry after a failed attempt. It lives
// inside the session that owns it, never in shared state, so two sessions
// watching different auctions cannot interfere.
type SettlementGuard struct {
	mu    sync.Mutex
	fired bool
}

// TryAcquire arms the guard. It returns true exactly once; every later call
// returns false until Release is called. The caller must acquire before
// dispatching a settlement attempt so that ticks arriving while the request
// is in flight cannot fire a duplicate.
func (g *SettlementGuard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fired {
		return false
	}
	g.fired = true
	return true
}

// Release rolls the guard back after a failed settlement attempt so a later
// tick or a manual retry can try again.
func (g *SettlementGuard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fired = false
}

// Settled reports whether a settlement attempt currently holds the guard.
func (g *SettlementGuard) Settled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}
