package relay

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/asnanclinic/asnan-server/internal/metrics"
)

// Relay serializes events once and delivers the single serialized form to
// every registered peer.
//
// Delivery is best-effort by design: there is no queue and no retry. A peer
// whose send fails is removed from the registry, zero peers means the event
// is dropped, and late joiners only see events from their own hello onward.
// Replacing this policy with a durable queue is a change local to Broadcast.
type Relay struct {
	registry *Registry
	log      *zerolog.Logger
}

// New constructs a relay over the given registry.
func New(registry *Registry, logger *zerolog.Logger) *Relay {
	return &Relay{registry: registry, log: logger}
}

// Broadcast marshals event and sends it to every registered peer, returning
// the number of successful deliveries. A failing peer never aborts delivery
// to the rest.
func (r *Relay) Broadcast(ctx context.Context, event any) int {
	data, err := json.Marshal(event)
	if err != nil {
		r.log.Error().Err(err).Msg("marshal broadcast event")
		return 0
	}

	metrics.BroadcastEventsTotal.Inc()

	delivered := 0
	for _, peer := range r.registry.snapshot() {
		if err := peer.Send(ctx, data); err != nil {
			r.registry.Unregister(peer)
			metrics.BroadcastDroppedPeersTotal.Inc()
			r.log.Debug().Err(err).Str("peer_id", peer.ID()).Msg("dropped peer after failed delivery")
			continue
		}
		delivered++
	}

	r.log.Debug().Int("delivered", delivered).Int("peers", r.registry.Count()).Msg("broadcast complete")
	return delivered
}
