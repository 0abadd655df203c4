package relay

import "context"

// Peer is the narrow capability a transport connection must expose before it
// can enter the registry. Implementations wrap one live connection; the
// registry never sees the underlying transport.
type Peer interface {
	// ID returns an opaque identifier, stable for the connection's lifetime.
	ID() string
	// Send writes one text frame. It must return promptly; implementations
	// bound the write with their own timeout.
	Send(ctx context.Context, data []byte) error
	// Close tears down the connection.
	Close(ctx context.Context) error
}
