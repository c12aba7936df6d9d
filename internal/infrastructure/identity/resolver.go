package identity

import (
	"sync"

	"github.com/veritrace/provenance/internal/core/ports"
)

// Resolver holds the identity-authority pointer currently in effect. The
// endpoint is swappable at runtime (admin operation); readers always see a
// fully constructed client.
type Resolver struct {
	mu     sync.RWMutex
	client *Client
}

// NewResolver builds a Resolver pointing at the given endpoint.
func NewResolver(endpoint string) *Resolver {
	return &Resolver{client: NewClient(endpoint)}
}

// Authority returns the client for the endpoint currently in effect.
func (r *Resolver) Authority() ports.IdentityAuthority {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// Endpoint returns the endpoint currently in effect.
func (r *Resolver) Endpoint() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client.Endpoint()
}

// Set swaps the authority endpoint. Validation (non-empty, admin-only)
// happens in the registry service before this is called.
func (r *Resolver) Set(endpoint string) {
	client := NewClient(endpoint)
	r.mu.Lock()
	r.client = client
	r.mu.Unlock()
}
