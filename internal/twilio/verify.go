package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"sort"
	"strings"
)

// Signature computes the Twilio webhook signature for a request: the public
// URL concatenated with every form parameter as name then value, parameters
// in byte-wise ascending name order, HMAC-SHA1 under the auth token,
// base64-encoded.
func Signature(secret, url string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(url)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params[k])
	}

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signatureHeader matches the signature Twilio would
// have computed for url and params. Comparison is constant time.
func Verify(secret, signatureHeader, url string, params map[string]string) bool {
	expected := Signature(secret, url, params)
	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}

// RequestURL reconstructs the externally visible URL of r. Twilio signs
// against the public-facing URL, so forwarded headers from a TLS-terminating
// proxy override the locally observed scheme and host.
func RequestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	host := r.Host
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}

	return scheme + "://" + host + r.URL.RequestURI()
}
