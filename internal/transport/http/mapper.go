package http

import (
	"github.com/asnanclinic/asnan-server/internal/proto"
	"github.com/asnanclinic/asnan-server/internal/twilio"
)

func incomingFromMessage(msg *twilio.InboundMessage) proto.IncomingEvent {
	return proto.IncomingEvent{
		Type:       proto.EventTypeIncoming,
		ReceivedAt: msg.ReceivedAt,
		MessageSid: msg.MessageSid,
		From:       msg.From,
		To:         msg.To,
		Body:       msg.Body,
		NumMedia:   msg.NumMedia,
		Params:     msg.Params,
	}
}
