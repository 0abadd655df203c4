package twilio

import (
	"fmt"
	"net/url"
	"time"
)

// ParseParams decodes an application/x-www-form-urlencoded body into a flat
// map. Twilio never sends duplicate keys, but if one appears the last value
// wins rather than failing.
func ParseParams(raw string) (map[string]string, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("parse form body: %w", err)
	}

	params := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) == 0 {
			params[k] = ""
			continue
		}
		params[k] = vs[len(vs)-1]
	}
	return params, nil
}

// Normalize turns a raw webhook body into an InboundMessage. Missing optional
// fields become empty strings; unrecognized fields are retained in Params.
func Normalize(raw string) (*InboundMessage, error) {
	params, err := ParseParams(raw)
	if err != nil {
		return nil, err
	}
	return FromParams(params), nil
}

// FromParams builds an InboundMessage from already-parsed form parameters,
// stamping ReceivedAt with the current server time.
func FromParams(params map[string]string) *InboundMessage {
	return &InboundMessage{
		MessageSid: messageSid(params),
		From:       params["From"],
		To:         params["To"],
		Body:       params["Body"],
		NumMedia:   params["NumMedia"],
		ReceivedAt: time.Now().UTC(),
		Params:     params,
	}
}

// messageSid returns the first non-empty identifier Twilio may have used.
func messageSid(params map[string]string) string {
	for _, key := range []string{"MessageSid", "SmsMessageSid", "SmsSid"} {
		if sid := params[key]; sid != "" {
			return sid
		}
	}
	return ""
}
