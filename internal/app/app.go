// Package app wires the URL validator and the fetch-and-extract pipeline
// behind the two operations a front end drives: Validate and ExtractText.
package app

import (
	"context"

	"github.com/hyperifyio/urlsearch/internal/fetch"
	"github.com/hyperifyio/urlsearch/internal/ratelimit"
	"github.com/hyperifyio/urlsearch/internal/validate"
)

// App owns the pipeline's long-lived resources. Construct with New and
// release with Close at process end.
type App struct {
	cfg    Config
	client *fetch.Client
}

// New builds an App from cfg. The config is normalized (timeout clamping,
// zero-field defaults) before any component sees it.
func New(cfg Config) *App {
	cfg.Normalize()
	return &App{
		cfg: cfg,
		client: &fetch.Client{
			UserAgent:             cfg.UserAgent,
			DefaultTimeout:        cfg.DefaultTimeout,
			MaxTimeout:            cfg.MaxTimeout,
			MaxContentLength:      cfg.MaxContentLength,
			SupportedContentTypes: cfg.SupportedContentTypes,
			MinTextLength:         cfg.MinTextLength,
			BlockPrivateAddrs:     cfg.BlockPrivateAddrs,
			Limiter:               ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow),
		},
	}
}

// Config returns the normalized configuration snapshot.
func (a *App) Config() Config {
	return a.cfg
}

// Validate checks a raw URL for safety without any I/O.
func (a *App) Validate(raw string) validate.Result {
	return validate.URL(raw)
}

// ExtractText fetches url and returns its readable text. url is expected to
// have passed Validate; the pipeline does not re-validate. A zero timeout
// means the configured default.
func (a *App) ExtractText(ctx context.Context, url string, timeoutSeconds int, userAgent string) fetch.Result {
	if userAgent == "" {
		userAgent = a.cfg.UserAgent
	}
	return a.client.Extract(ctx, url, timeoutSeconds, userAgent)
}

// Close releases the pipeline's network resources. Idempotent; safe even if
// no request was ever made.
func (a *App) Close() {
	a.client.Close()
}
