package lead

import "time"

// Lead is one booking inquiry submitted through the website form.
type Lead struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Service    string `json:"service"`
	Message    string `json:"message"`
	SourcePage string `json:"sourcePage"`
}

// Submission is the payload forwarded to the downstream lead webhook.
type Submission struct {
	Lead
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent,omitempty"`
}
