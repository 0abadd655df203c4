package http

import (
	"errors"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/asnanclinic/asnan-server/internal/config"
	"github.com/asnanclinic/asnan-server/internal/lead"
	"github.com/asnanclinic/asnan-server/internal/metrics"
)

// LeadRequest is the booking-form submission body. HP is a honeypot: humans
// never fill it, bots do.
type LeadRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=80"`
	Phone      string `json:"phone" binding:"required,min=6,max=30"`
	Service    string `json:"service" binding:"required,min=2,max=80"`
	Message    string `json:"message" binding:"max=1000"`
	SourcePage string `json:"sourcePage" binding:"required,max=200"`
	HP         string `json:"hp"`
}

// OKResponse acknowledges an accepted submission.
type OKResponse struct {
	OK bool `json:"ok"`
}

// LeadHandler validates booking inquiries and forwards them downstream.
type LeadHandler struct {
	forwarder *lead.Forwarder
	limiter   *ipLimiter
	log       *zerolog.Logger
}

// NewLeadHandler builds the lead endpoint. forwarder may be nil when no
// downstream webhook is configured.
func NewLeadHandler(forwarder *lead.Forwarder, cfg config.LeadConfig, logger *zerolog.Logger) *LeadHandler {
	return &LeadHandler{
		forwarder: forwarder,
		limiter:   newIPLimiter(cfg.RatePerMinute, cfg.RateBurst),
		log:       logger,
	}
}

// Submit handles POST /api/lead. Honeypot hits are acknowledged without
// forwarding and without consuming rate-limit budget, so bots learn nothing.
func (h *LeadHandler) Submit(c *gin.Context) {
	var req LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LeadRequestsTotal.WithLabelValues("invalid").Inc()
		h.log.Debug().Err(err).Msg("invalid lead request")
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if strings.TrimSpace(req.HP) != "" {
		metrics.LeadRequestsTotal.WithLabelValues("honeypot").Inc()
		h.log.Info().Str("source_page", req.SourcePage).Msg("lead honeypot triggered")
		c.JSON(stdhttp.StatusOK, OKResponse{OK: true})
		return
	}

	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	if !h.limiter.allow(ip) {
		metrics.LeadRequestsTotal.WithLabelValues("rate_limited").Inc()
		c.Header("Retry-After", h.limiter.retryAfterSeconds())
		c.JSON(stdhttp.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
		return
	}

	if h.forwarder == nil {
		metrics.LeadRequestsTotal.WithLabelValues("not_configured").Inc()
		h.log.Error().Msg("lead submitted but no webhook url is configured")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "lead webhook is not configured"})
		return
	}

	sub := lead.Submission{
		Lead: lead.Lead{
			Name:       strings.TrimSpace(req.Name),
			Phone:      strings.TrimSpace(req.Phone),
			Service:    strings.TrimSpace(req.Service),
			Message:    strings.TrimSpace(req.Message),
			SourcePage: strings.TrimSpace(req.SourcePage),
		},
		Timestamp: time.Now().UTC(),
		IP:        ip,
		UserAgent: c.GetHeader("User-Agent"),
	}

	if err := h.forwarder.Forward(c.Request.Context(), sub); err != nil {
		if errors.Is(err, lead.ErrForwardFailed) {
			metrics.LeadRequestsTotal.WithLabelValues("forward_failed").Inc()
			c.JSON(stdhttp.StatusBadGateway, ErrorResponse{Error: "lead forward failed"})
			return
		}
		metrics.LeadRequestsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("lead forward error")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	metrics.LeadRequestsTotal.WithLabelValues("ok").Inc()
	c.JSON(stdhttp.StatusOK, OKResponse{OK: true})
}
