package app

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/asnanclinic/asnan-server/internal/config"
	"github.com/asnanclinic/asnan-server/internal/lead"
	"github.com/asnanclinic/asnan-server/internal/relay"
	transporthttp "github.com/asnanclinic/asnan-server/internal/transport/http"
	"github.com/asnanclinic/asnan-server/internal/twilio"
)

// App wires together the relay core and the transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	registry        *relay.Registry
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
// Twilio and lead credentials are optional at startup; endpoints that need
// them report a configuration error per request instead.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	registry := relay.NewRegistry()
	rel := relay.New(registry, logger)

	var sender *twilio.Sender
	s, err := twilio.NewSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.WhatsAppFrom, logger)
	switch {
	case err == nil:
		sender = s
		logger.Info().Str("from", twilio.MaskAddress(cfg.Twilio.WhatsAppFrom)).Msg("twilio sender configured")
	case errors.Is(err, twilio.ErrNotConfigured):
		logger.Warn().Msg("twilio credentials incomplete; outbound send disabled")
	default:
		return nil, err
	}

	var forwarder *lead.Forwarder
	f, err := lead.NewForwarder(cfg.Lead.WebhookURL, logger)
	switch {
	case err == nil:
		forwarder = f
	case errors.Is(err, lead.ErrNotConfigured):
		logger.Warn().Msg("lead webhook url not set; lead capture disabled")
	default:
		return nil, err
	}

	server := transporthttp.NewServer(cfg, registry, rel, sender, forwarder, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		registry:        registry,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup(context.Background())
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup(shutdownCtx)
			return err
		}

		a.cleanup(shutdownCtx)
		return <-serverErr
	}
}

// cleanup closes all connected peers.
func (a *App) cleanup(ctx context.Context) {
	a.registry.Close(ctx)
	a.log.Info().Msg("peer registry closed")
}
