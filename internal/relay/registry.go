// Package relay holds the in-process publish/subscribe core: a registry of
// live-update peers and a broadcaster that fans events out to them.
//
// Everything here is volatile and scoped to one process. Running multiple
// instances requires an external pub/sub layer; the registries will not see
// each other's peers.
package relay

import (
	"context"
	"sync"

	"github.com/asnanclinic/asnan-server/internal/metrics"
)

// Registry is the process-wide set of connected peers. It is constructed by
// the composition root and shared by the webhook path and the channel
// handler. All methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	peers map[string]Peer
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{peers: make(map[string]Peer)}
}

// Register adds a peer. Adding a peer that is already present is a no-op.
func (r *Registry) Register(p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.peers[p.ID()]; exists {
		return
	}
	r.peers[p.ID()] = p
	metrics.ConnectedPeers.Set(float64(len(r.peers)))
}

// Unregister removes a peer. Removing an absent peer is a no-op.
func (r *Registry) Unregister(p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.peers[p.ID()]; !exists {
		return
	}
	delete(r.peers, p.ID())
	metrics.ConnectedPeers.Set(float64(len(r.peers)))
}

// Count returns the current number of registered peers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

// snapshot copies the current membership so broadcast iteration tolerates
// concurrent register/unregister without holding the lock during sends.
func (r *Registry) snapshot() []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	peers := make([]Peer, 0, len(r.peers))
	for _, p := range r.peers {
		peers = append(peers, p)
	}
	return peers
}

// Close unregisters and closes every peer. Called once at service shutdown.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	peers := make([]Peer, 0, len(r.peers))
	for _, p := range r.peers {
		peers = append(peers, p)
	}
	r.peers = make(map[string]Peer)
	metrics.ConnectedPeers.Set(0)
	r.mu.Unlock()

	for _, p := range peers {
		_ = p.Close(ctx)
	}
}
