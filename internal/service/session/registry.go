package session

import "sync"

// ActivationRegistry is the process-wide single-alarm guard. It is injected
// into the Manager instead of living in a package-level variable so tests can
// run with independent registries.
type ActivationRegistry struct {
	mu       sync.Mutex
	activeID string
}

func NewActivationRegistry() *ActivationRegistry {
	return &ActivationRegistry{}
}

// TryActivate claims the registry for the given session. It reports false
// when another session already holds it; the caller must then abandon the
// activation without side effects.
func (r *ActivationRegistry) TryActivate(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeID != "" {
		return false
	}
	r.activeID = sessionID
	return true
}

// Release clears the claim held by the given session. Releasing a session
// that no longer holds the registry is a no-op, so resolution and teardown
// can both call it without double-clearing a successor's claim.
func (r *ActivationRegistry) Release(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeID != sessionID {
		return false
	}
	r.activeID = ""
	return true
}

// ActiveID returns the session currently holding the registry.
func (r *ActivationRegistry) ActiveID() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.activeID, r.activeID != ""
}
