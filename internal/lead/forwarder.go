package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured signals that no downstream webhook URL is configured.
var ErrNotConfigured = errors.New("lead webhook is not configured")

// ErrForwardFailed signals that the downstream webhook rejected or failed the
// forward. The lead is not retried; the caller may resubmit.
var ErrForwardFailed = errors.New("lead webhook forward failed")

// Forwarder delivers accepted leads to an external webhook.
type Forwarder struct {
	webhookURL string
	client     *http.Client
	log        *zerolog.Logger
}

// NewForwarder builds a forwarder for the given webhook URL.
func NewForwarder(webhookURL string, logger *zerolog.Logger) (*Forwarder, error) {
	if webhookURL == "" {
		return nil, ErrNotConfigured
	}
	return &Forwarder{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        logger,
	}, nil
}

// Forward posts the submission as JSON to the configured webhook.
func (f *Forwarder) Forward(ctx context.Context, sub Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build lead request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Error().Err(err).Msg("lead webhook forward failed")
		return ErrForwardFailed
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.log.Error().Int("status", resp.StatusCode).Msg("lead webhook rejected forward")
		return ErrForwardFailed
	}

	f.log.Info().Str("source_page", sub.SourcePage).Msg("lead forwarded")
	return nil
}
