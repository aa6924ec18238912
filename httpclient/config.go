package httpclient

import (
	"time"

	"github.com/kbukum/httpkit/validation"
	"github.com/kbukum/httpkit/version"
)

const defaultName = "httpclient"

// Config configures a Client.
type Config struct {
	// Name identifies the client in logs and metrics. Defaults to "httpclient".
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to root-relative request URLs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout applies to requests that carry no timeout of their own.
	// Zero means no client-side timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Headers are default headers added to requests that do not set them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// AllowCrossOriginCredentials turns on credentials for every request.
	AllowCrossOriginCredentials bool `yaml:"allow_cross_origin_credentials" mapstructure:"allow_cross_origin_credentials"`

	// UserAgent is sent on requests without a User-Agent header.
	// Defaults to "httpkit/<version>".
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// RequestIDHeader, when set, names a header that receives a fresh UUID
	// on requests that do not already carry it.
	RequestIDHeader string `yaml:"request_id_header" mapstructure:"request_id_header"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
