package twilio

import "time"

// InboundMessage is the canonical form of one received WhatsApp message.
// It exists only long enough to be broadcast; nothing persists it.
type InboundMessage struct {
	MessageSid string
	From       string
	To         string
	Body       string
	NumMedia   string
	ReceivedAt time.Time
	Params     map[string]string
}
