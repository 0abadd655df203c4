package twilio

import "errors"

// ErrNotConfigured signals that a required Twilio credential is absent.
// Reported per request so a half-configured deployment fails loudly instead
// of silently dropping sends.
var ErrNotConfigured = errors.New("twilio is not configured")

// UpstreamError carries the non-sensitive parts of a Twilio API failure.
type UpstreamError struct {
	Code    int
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}
