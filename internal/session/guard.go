// ABOUTME: Access guard consulted before protected commands and screens
// ABOUTME: Pure read of the orchestrator state with no side effects

package session

// Guard answers whether protected views may be shown
type Guard struct {
	o *Orchestrator
}

// NewGuard returns a Guard reading o
func NewGuard(o *Orchestrator) *Guard {
	return &Guard{o: o}
}

// IsAllowed is true iff the session is Authenticated
func (g *Guard) IsAllowed() bool {
	return g.o.Snapshot().State == Authenticated
}

// Require returns ErrNotLoggedIn when IsAllowed is false
func (g *Guard) Require() error {
	if !g.IsAllowed() {
		return ErrNotLoggedIn
	}
	return nil
}
