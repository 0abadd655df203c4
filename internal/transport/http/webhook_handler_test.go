package http

import (
	"io"
	stdhttp "net/http"
	"strings"
	"testing"
)

func TestWebhookWithoutAuthTokenIs500(t *testing.T) {
	cfg, logger := testConfig()
	cfg.Twilio.AuthToken = ""
	ts := newHandlerServer(t, cfg, logger)

	resp, err := ts.Client().Post(ts.URL+"/webhook", "application/x-www-form-urlencoded", strings.NewReader("Body=hi"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 500 {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), testAuthToken) {
		t.Fatal("configuration error must not leak secrets")
	}
}

func TestWebhookMalformedBodyIs400(t *testing.T) {
	ts, _ := startTestServer(t)

	req, err := stdhttp.NewRequest(stdhttp.MethodPost, ts.URL+"/webhook", strings.NewReader("Body=%zz"))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(SignatureHeader, "whatever")

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestWebhookAckIsTwiML(t *testing.T) {
	ts, _ := startTestServer(t)

	params := map[string]string{"Body": "hi", "MessageSid": "SM1"}
	signature := signParams(ts.URL+"/webhook", params)

	form := encodeForm(params)
	req, err := stdhttp.NewRequest(stdhttp.MethodPost, ts.URL+"/webhook", strings.NewReader(form))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(SignatureHeader, signature)

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/xml") {
		t.Fatalf("content type = %q, want text/xml", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != ackBody {
		t.Fatalf("unexpected ack body: %q", body)
	}
}
