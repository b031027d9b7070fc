package app

import (
	"time"

	"github.com/hyperifyio/urlsearch/internal/extract"
)

// Config is the immutable runtime configuration snapshot. It is constructed
// once at startup and passed into every component; core logic never reads
// ambient state.
type Config struct {
	// DefaultTimeout applies when the caller supplies none; MaxTimeout is
	// the ceiling for caller-supplied timeouts. Both in seconds.
	DefaultTimeout int
	MaxTimeout     int

	UserAgent string

	// MaxContentLength caps the response body in bytes.
	MaxContentLength int64

	// SupportedContentTypes are matched as substrings against the
	// lower-cased declared content type.
	SupportedContentTypes []string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	// MinTextLength is the smallest readability result considered
	// meaningful before falling back to structural extraction.
	MinTextLength int

	// BlockPrivateAddrs re-checks resolved addresses at dial time.
	BlockPrivateAddrs bool

	Verbose bool
}

// DefaultConfig returns the built-in defaults, matching the documented
// configuration surface.
func DefaultConfig() Config {
	return Config{
		DefaultTimeout:   10,
		MaxTimeout:       60,
		UserAgent:        "urlsearch/1.0",
		MaxContentLength: 10 * 1024 * 1024,
		SupportedContentTypes: []string{
			"text/html",
			"text/plain",
			"application/xhtml+xml",
			"text/xml",
			"application/xml",
		},
		RateLimitRequests: 100,
		RateLimitWindow:   60 * time.Second,
		MinTextLength:     extract.DefaultMinTextLength,
		BlockPrivateAddrs: true,
	}
}

// Normalize clamps DefaultTimeout into [1, MaxTimeout] and restores sane
// values for zeroed fields. The timeout clamp is a correctness invariant:
// every timeout the pipeline sees must be positive and below the ceiling.
func (c *Config) Normalize() {
	if c.MaxTimeout < 1 {
		c.MaxTimeout = 60
	}
	if c.DefaultTimeout > c.MaxTimeout {
		c.DefaultTimeout = c.MaxTimeout
	}
	if c.DefaultTimeout < 1 {
		c.DefaultTimeout = 1
	}
	if c.MaxContentLength <= 0 {
		c.MaxContentLength = 10 * 1024 * 1024
	}
	if len(c.SupportedContentTypes) == 0 {
		c.SupportedContentTypes = DefaultConfig().SupportedContentTypes
	}
	if c.RateLimitRequests <= 0 {
		c.RateLimitRequests = 100
	}
	if c.RateLimitWindow <= 0 {
		c.RateLimitWindow = 60 * time.Second
	}
}
