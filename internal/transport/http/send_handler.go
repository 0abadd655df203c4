package http

import (
	"errors"
	stdhttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/asnanclinic/asnan-server/internal/metrics"
	"github.com/asnanclinic/asnan-server/internal/twilio"
)

// SendRequest is the outbound send body: either a free-text message (body)
// or a Content API template (contentSid + contentVariables), never both.
type SendRequest struct {
	To               string            `json:"to" binding:"required"`
	Body             string            `json:"body"`
	ContentSid       string            `json:"contentSid"`
	ContentVariables map[string]string `json:"contentVariables"`
}

// SendResponse confirms an accepted outbound message.
type SendResponse struct {
	OK  bool   `json:"ok"`
	Sid string `json:"sid"`
}

// UpstreamErrorResponse forwards the non-sensitive parts of a provider error.
type UpstreamErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// SendHandler sends outbound WhatsApp messages on behalf of API callers.
type SendHandler struct {
	sender *twilio.Sender
	log    *zerolog.Logger
}

// NewSendHandler builds the send endpoint. sender may be nil when Twilio
// credentials are absent.
func NewSendHandler(sender *twilio.Sender, logger *zerolog.Logger) *SendHandler {
	return &SendHandler{sender: sender, log: logger}
}

// Send handles POST /api/whatsapp/send.
func (h *SendHandler) Send(c *gin.Context) {
	if h.sender == nil {
		metrics.OutboundMessagesTotal.WithLabelValues("not_configured").Inc()
		h.log.Error().Msg("send called but twilio is not configured")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "twilio is not configured"})
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.OutboundMessagesTotal.WithLabelValues("invalid").Inc()
		h.log.Debug().Err(err).Msg("invalid send request")
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if !strings.HasPrefix(req.To, twilio.AddressPrefix) {
		metrics.OutboundMessagesTotal.WithLabelValues("invalid").Inc()
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: `to must start with "whatsapp:"`})
		return
	}
	if (req.Body == "") == (req.ContentSid == "") {
		metrics.OutboundMessagesTotal.WithLabelValues("invalid").Inc()
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "exactly one of body or contentSid is required"})
		return
	}

	requestID := c.GetString(ContextKeyRequestID)

	var (
		sid string
		err error
	)
	if req.Body != "" {
		sid, err = h.sender.SendText(requestID, req.To, req.Body)
	} else {
		sid, err = h.sender.SendTemplate(requestID, req.To, req.ContentSid, req.ContentVariables)
	}
	if err != nil {
		metrics.OutboundMessagesTotal.WithLabelValues("failed").Inc()
		var upstream *twilio.UpstreamError
		if errors.As(err, &upstream) {
			c.JSON(stdhttp.StatusBadGateway, UpstreamErrorResponse{
				Error:   "failed to send whatsapp message",
				Code:    upstream.Code,
				Message: upstream.Message,
			})
			return
		}
		c.JSON(stdhttp.StatusBadGateway, UpstreamErrorResponse{Error: "failed to send whatsapp message"})
		return
	}

	metrics.OutboundMessagesTotal.WithLabelValues("ok").Inc()
	c.JSON(stdhttp.StatusOK, SendResponse{OK: true, Sid: sid})
}
