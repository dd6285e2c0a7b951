package state

import "sync"

// AuthScheme is the cached, successfully-negotiated auth scheme for a host:
// which scheme (e.g. "Basic", "Digest", "Negotiate") answered the last
// challenge, and the opaque credentials material that scheme needs to
// preempt future challenges.
type AuthScheme struct {
	Name        string
	Credentials interface{}
}

// AuthSchemePool is a per-host pool of cached AuthSchemes, shared across
// requests on that host so subsequent requests can attach the cached scheme
// preemptively instead of round-tripping a 401/407 challenge first (spec
// §4.5 "Auth-scheme cache").
type AuthSchemePool struct {
	mu      sync.RWMutex
	current *AuthScheme
}

func newAuthSchemePool() *AuthSchemePool {
	return &AuthSchemePool{}
}

// Get returns the cached scheme, if any.
func (p *AuthSchemePool) Get() (*AuthScheme, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil, false
	}
	return p.current, true
}

// Release stores scheme as the pool's reusable scheme, called after a
// challenge has been answered successfully.
func (p *AuthSchemePool) Release(scheme *AuthScheme) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = scheme
}

// Invalidate clears the cached scheme; called on 401/407 (spec §4.5: "The
// cache is invalidated per host on 401/407").
func (p *AuthSchemePool) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
}
