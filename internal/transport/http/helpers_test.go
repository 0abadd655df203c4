package http

import (
	"net/http/httptest"
	neturl "net/url"
	"testing"

	"github.com/rs/zerolog"

	"github.com/asnanclinic/asnan-server/internal/config"
	"github.com/asnanclinic/asnan-server/internal/lead"
	"github.com/asnanclinic/asnan-server/internal/relay"
	"github.com/asnanclinic/asnan-server/internal/twilio"
)

func testConfig() (config.Config, *zerolog.Logger) {
	cfg := config.Default()
	cfg.Twilio.AuthToken = testAuthToken
	logger := zerolog.Nop()
	return cfg, &logger
}

// newHandlerServer builds a full server without sender or lead forwarder.
func newHandlerServer(t *testing.T, cfg config.Config, logger *zerolog.Logger) *httptest.Server {
	t.Helper()

	registry := relay.NewRegistry()
	rel := relay.New(registry, logger)
	server := NewServer(cfg, registry, rel, nil, nil, logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// newLeadServer builds a server whose lead endpoint forwards to forwardURL.
func newLeadServer(t *testing.T, cfg config.Config, forwardURL string, logger *zerolog.Logger) *httptest.Server {
	t.Helper()

	registry := relay.NewRegistry()
	rel := relay.New(registry, logger)

	var forwarder *lead.Forwarder
	if forwardURL != "" {
		f, err := lead.NewForwarder(forwardURL, logger)
		if err != nil {
			t.Fatalf("build forwarder: %v", err)
		}
		forwarder = f
	}

	server := NewServer(cfg, registry, rel, nil, forwarder, logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func signParams(url string, params map[string]string) string {
	return twilio.Signature(testAuthToken, url, params)
}

func encodeForm(params map[string]string) string {
	form := neturl.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	return form.Encode()
}
