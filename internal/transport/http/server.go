package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/asnanclinic/asnan-server/internal/config"
	"github.com/asnanclinic/asnan-server/internal/lead"
	"github.com/asnanclinic/asnan-server/internal/relay"
	"github.com/asnanclinic/asnan-server/internal/twilio"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer builds the HTTP server with all routes wired.
// sender and forwarder may be nil when the corresponding credentials are
// absent; the affected endpoints then fail per request with a configuration
// error instead of disabling themselves silently.
func NewServer(
	cfg config.Config,
	registry *relay.Registry,
	rel *relay.Relay,
	sender *twilio.Sender,
	forwarder *lead.Forwarder,
	logger *zerolog.Logger,
) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	wsHandler := NewWSHandler(registry, logger)
	router.GET("/ws", wsHandler.Serve)

	webhook := NewWebhookHandler(cfg.Twilio.AuthToken, rel, logger)
	router.POST("/webhook", webhook.Incoming)

	api := router.Group("/api")
	api.POST("/whatsapp/send", NewSendHandler(sender, logger).Send)
	api.POST("/lead", NewLeadHandler(forwarder, cfg.Lead, logger).Submit)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
