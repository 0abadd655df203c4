package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	Twilio TwilioConfig `mapstructure:"twilio" yaml:"twilio"`
	Lead   LeadConfig   `mapstructure:"lead" yaml:"lead"`
}

// TwilioConfig carries provider credentials. AuthToken doubles as the webhook
// signature secret. Values are usually supplied via ASNAN_TWILIO_* env vars
// rather than the config file.
type TwilioConfig struct {
	AccountSID   string `mapstructure:"account_sid" yaml:"account_sid"`
	AuthToken    string `mapstructure:"auth_token" yaml:"auth_token"`
	WhatsAppFrom string `mapstructure:"whatsapp_from" yaml:"whatsapp_from"`
}

// LeadConfig controls the lead-capture endpoint.
type LeadConfig struct {
	WebhookURL    string  `mapstructure:"webhook_url" yaml:"webhook_url"`
	RatePerMinute float64 `mapstructure:"rate_per_minute" yaml:"rate_per_minute"`
	RateBurst     int     `mapstructure:"rate_burst" yaml:"rate_burst"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		Lead: LeadConfig{
			RatePerMinute: 1,
			RateBurst:     10,
		},
	}
}
