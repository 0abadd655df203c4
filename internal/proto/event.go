package proto

import (
	"encoding/json"
	"time"
)

// Event type discriminators carried in the "type" field of every frame.
const (
	EventTypeOpen     = "ws:open"
	EventTypeIncoming = "incoming"
)

// Keepalive tokens exchanged as bare text frames, outside the JSON protocol.
const (
	PingToken = "ping"
	PongToken = "pong"
)

// HelloEvent is sent once, immediately after a live-update connection opens.
type HelloEvent struct {
	Type           string    `json:"type"`
	At             time.Time `json:"at"`
	ConnectedPeers int       `json:"connectedPeers"`
}

// NewHelloEvent builds the hello for a connection that sees peers subscribers.
func NewHelloEvent(peers int) HelloEvent {
	return HelloEvent{
		Type:           EventTypeOpen,
		At:             time.Now().UTC(),
		ConnectedPeers: peers,
	}
}

// IncomingEvent is the wire form of one received WhatsApp message.
type IncomingEvent struct {
	Type       string            `json:"type"`
	ReceivedAt time.Time         `json:"receivedAt"`
	MessageSid string            `json:"messageSid"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	Body       string            `json:"body"`
	NumMedia   string            `json:"numMedia,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
}

// Envelope is a decoded server frame. Exactly one of Hello and Incoming is
// non-nil for known types; unknown types keep the raw bytes in Raw so
// forward-compatible consumers can pass them through.
type Envelope struct {
	Type     string
	Hello    *HelloEvent
	Incoming *IncomingEvent
	Raw      json.RawMessage
}

// Decode parses a server frame into its typed variant.
func Decode(data []byte) (Envelope, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Envelope{}, err
	}

	env := Envelope{Type: head.Type}
	switch head.Type {
	case EventTypeOpen:
		var hello HelloEvent
		if err := json.Unmarshal(data, &hello); err != nil {
			return Envelope{}, err
		}
		env.Hello = &hello
	case EventTypeIncoming:
		var incoming IncomingEvent
		if err := json.Unmarshal(data, &incoming); err != nil {
			return Envelope{}, err
		}
		env.Incoming = &incoming
	default:
		env.Raw = append(json.RawMessage(nil), data...)
	}
	return env, nil
}
