// Package config holds client configuration for the coaching backend:
// per-endpoint base URLs, the call timeout, and streaming behavior flags.
// Configuration is resolved once and treated as read-only by everything
// downstream.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/forgefit/coach-stream-kit/pkg/endpoints"
)

const (
	// DefaultTimeout bounds one call from request start to terminal event.
	DefaultTimeout = 90 * time.Second

	defaultUserAgent = "coach-stream-kit/1.0"
)

// Config configures a streaming client.
type Config struct {
	// BaseURLs maps each endpoint type to the Lambda Function URL serving
	// it. A streaming endpoint without its own entry shares the base URL of
	// its non-streaming equivalent.
	BaseURLs map[endpoints.EndpointType]string `yaml:"base_urls"`

	// StreamingEnabled gates the streaming transport. When false every call
	// takes the non-streaming fallback path directly. Defaults to true.
	StreamingEnabled *bool `yaml:"streaming_enabled"`

	// TimeoutSeconds is the YAML-facing form of Timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Timeout is the programmatic call timeout. Takes precedence over
	// TimeoutSeconds when both are set.
	Timeout time.Duration `yaml:"-"`

	// UserAgent is sent on every request.
	UserAgent string `yaml:"user_agent"`

	// RateLimitRPS and RateLimitBurst configure the optional client-side
	// limiter. Zero RPS disables limiting.
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// WithDefaults returns a copy with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.Timeout == 0 && c.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.StreamingEnabled == nil {
		enabled := true
		c.StreamingEnabled = &enabled
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst == 0 {
		c.RateLimitBurst = 1
	}
	return c
}

// Streaming reports whether the streaming transport is enabled.
func (c Config) Streaming() bool {
	return c.StreamingEnabled == nil || *c.StreamingEnabled
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if len(c.BaseURLs) == 0 {
		return fmt.Errorf("at least one base URL is required")
	}
	for endpointType, raw := range c.BaseURLs {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("base URL for %s is not absolute: %q", endpointType, raw)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must not be negative")
	}
	return nil
}

// Load reads a YAML config file, applies defaults, and validates.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes, applies defaults, and validates.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
