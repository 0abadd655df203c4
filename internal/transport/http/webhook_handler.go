package http

import (
	"io"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/asnanclinic/asnan-server/internal/metrics"
	"github.com/asnanclinic/asnan-server/internal/relay"
	"github.com/asnanclinic/asnan-server/internal/twilio"
)

// SignatureHeader carries Twilio's HMAC signature on every webhook call.
const SignatureHeader = "X-Twilio-Signature"

// ackBody is the neutral TwiML acknowledgement Twilio expects on success.
const ackBody = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// WebhookHandler receives inbound message callbacks from Twilio and fans
// them out through the relay.
type WebhookHandler struct {
	authToken string
	relay     *relay.Relay
	log       *zerolog.Logger
}

// NewWebhookHandler builds the webhook endpoint. authToken is the shared
// secret used for signature verification; empty means unconfigured.
func NewWebhookHandler(authToken string, rel *relay.Relay, logger *zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{authToken: authToken, relay: rel, log: logger}
}

// Incoming handles POST /webhook. The gates are strictly ordered: raw body
// read, signature verification, normalization, broadcast. Any failed gate
// stops the request with no broadcast.
func (h *WebhookHandler) Incoming(c *gin.Context) {
	if h.authToken == "" {
		metrics.WebhookRequestsTotal.WithLabelValues("not_configured").Inc()
		h.log.Error().Msg("webhook called but twilio auth token is not configured")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "twilio is not configured"})
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("invalid_payload").Inc()
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "unreadable request body"})
		return
	}

	params, err := twilio.ParseParams(string(raw))
	if err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("invalid_payload").Inc()
		h.log.Warn().Err(err).Msg("malformed webhook body")
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "invalid webhook payload"})
		return
	}

	publicURL := twilio.RequestURL(c.Request)
	signature := c.GetHeader(SignatureHeader)
	if !twilio.Verify(h.authToken, signature, publicURL, params) {
		metrics.WebhookRequestsTotal.WithLabelValues("invalid_signature").Inc()
		h.log.Warn().Str("url", publicURL).Msg("webhook signature verification failed")
		c.JSON(stdhttp.StatusForbidden, ErrorResponse{Error: "invalid signature"})
		return
	}

	msg := twilio.FromParams(params)
	delivered := h.relay.Broadcast(c.Request.Context(), incomingFromMessage(msg))

	metrics.WebhookRequestsTotal.WithLabelValues("ok").Inc()
	h.log.Info().
		Str("message_sid", msg.MessageSid).
		Str("from", twilio.MaskAddress(msg.From)).
		Str("to", twilio.MaskAddress(msg.To)).
		Int("body_length", len(msg.Body)).
		Str("num_media", msg.NumMedia).
		Int("delivered", delivered).
		Msg("inbound message received")

	c.Data(stdhttp.StatusOK, "text/xml; charset=utf-8", []byte(ackBody))
}
