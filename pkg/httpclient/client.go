// Package httpclient wraps net/http with the redirect and timeout policy the
// fetch layer needs, and lets callers swap in a custom transport (e.g. a
// fingerprinted one).
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config defines the setup for a Client.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	// Transport overrides the default transport, e.g. for uTLS fingerprinting.
	Transport http.RoundTripper
}

// Client wraps http.Client with a bounded redirect policy.
type Client struct {
	*http.Client
}

// New creates a Client. A zero Timeout defaults to 30s; a negative
// MaxRedirects disables redirect following entirely.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &http.Client{Timeout: cfg.Timeout}

	if cfg.MaxRedirects >= 0 {
		maxRedirects := cfg.MaxRedirects
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		}
	} else {
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	if cfg.Transport != nil {
		c.Transport = cfg.Transport
	}

	return &Client{Client: c}
}

// Do executes the request under the given context. The context governs
// cancellation independently of the client-level timeout.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if ctx == nil {
		return nil, errors.New("nil context")
	}
	return c.Client.Do(req.Clone(ctx))
}
