package twilio

import (
	"testing"
	"time"
)

func TestNormalizeFullBody(t *testing.T) {
	raw := "From=whatsapp%3A%2B15551234567&To=whatsapp%3A%2B14155238886&Body=Hello&MessageSid=SM123&NumMedia=0&ProfileName=Sara"

	before := time.Now().UTC()
	msg, err := Normalize(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if msg.MessageSid != "SM123" {
		t.Fatalf("unexpected sid: %q", msg.MessageSid)
	}
	if msg.From != "whatsapp:+15551234567" || msg.To != "whatsapp:+14155238886" {
		t.Fatalf("unexpected addresses: %q -> %q", msg.From, msg.To)
	}
	if msg.Body != "Hello" || msg.NumMedia != "0" {
		t.Fatalf("unexpected body/media: %q %q", msg.Body, msg.NumMedia)
	}
	if msg.Params["ProfileName"] != "Sara" {
		t.Fatalf("unknown field not retained: %+v", msg.Params)
	}
	if msg.ReceivedAt.Before(before) || msg.ReceivedAt.After(time.Now().UTC()) {
		t.Fatalf("receivedAt not server-assigned: %v", msg.ReceivedAt)
	}
}

func TestNormalizeSidFallbackOrder(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"MessageSid wins", "MessageSid=SM1&SmsMessageSid=SM2&SmsSid=SM3", "SM1"},
		{"SmsMessageSid second", "SmsMessageSid=SM2&SmsSid=SM3", "SM2"},
		{"SmsSid last", "SmsSid=SM3", "SM3"},
		{"empty MessageSid skipped", "MessageSid=&SmsSid=SM3", "SM3"},
		{"none present", "Body=hi", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Normalize(tc.raw)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if msg.MessageSid != tc.want {
				t.Fatalf("got sid %q want %q", msg.MessageSid, tc.want)
			}
		})
	}
}

func TestNormalizeEmptyBody(t *testing.T) {
	msg, err := Normalize("")
	if err != nil {
		t.Fatalf("normalize empty: %v", err)
	}
	if msg.From != "" || msg.To != "" || msg.Body != "" || msg.MessageSid != "" {
		t.Fatalf("expected empty fields, got %+v", msg)
	}
}

func TestNormalizeMalformedBody(t *testing.T) {
	if _, err := Normalize("Body=%zz"); err == nil {
		t.Fatal("expected error for malformed percent-encoding")
	}
}

func TestParseParamsLastValueWins(t *testing.T) {
	params, err := ParseParams("Body=first&Body=second")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params["Body"] != "second" {
		t.Fatalf("expected last value to win, got %q", params["Body"])
	}
}

func TestMaskAddress(t *testing.T) {
	cases := map[string]string{
		"whatsapp:+15551234567": "whatsapp:***4567",
		"+15551234567":          "***4567",
		"whatsapp:+1":           "whatsapp:***",
		"":                      "",
	}
	for in, want := range cases {
		if got := MaskAddress(in); got != want {
			t.Fatalf("MaskAddress(%q) = %q, want %q", in, got, want)
		}
	}
}
