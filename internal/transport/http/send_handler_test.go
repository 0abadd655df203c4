package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asnanclinic/asnan-server/internal/relay"
	"github.com/asnanclinic/asnan-server/internal/twilio"
)

// newSendServer wires a sender with dummy credentials. Requests that fail
// validation never reach the Twilio API, so no network is involved.
func newSendServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, logger := testConfig()
	cfg.Twilio.AccountSID = "ACxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
	cfg.Twilio.WhatsAppFrom = "whatsapp:+14155238886"

	sender, err := twilio.NewSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.WhatsAppFrom, logger)
	if err != nil {
		t.Fatalf("build sender: %v", err)
	}

	registry := relay.NewRegistry()
	rel := relay.New(registry, logger)
	server := NewServer(cfg, registry, rel, sender, nil, logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postSend(t *testing.T, ts *httptest.Server, body string) *stdhttp.Response {
	t.Helper()

	resp, err := ts.Client().Post(ts.URL+"/api/whatsapp/send", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post send: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSendWithoutSenderIs500(t *testing.T) {
	cfg, logger := testConfig()
	ts := newHandlerServer(t, cfg, logger)

	resp := postSend(t, ts, `{"to":"whatsapp:+15551234567","body":"hi"}`)
	if resp.StatusCode != 500 {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestSendValidation(t *testing.T) {
	ts := newSendServer(t)

	cases := map[string]string{
		"missing to":            `{"body":"hi"}`,
		"missing whatsapp pfx":  `{"to":"+15551234567","body":"hi"}`,
		"neither body nor tmpl": `{"to":"whatsapp:+15551234567"}`,
		"both body and tmpl":    `{"to":"whatsapp:+15551234567","body":"hi","contentSid":"HX1"}`,
		"not json":              `nope`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postSend(t, ts, body)
			if resp.StatusCode != 400 {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}
