// Package fetch implements the pipeline's outbound HTTP layer: per-host
// pacing, bounded retries with linear backoff and jitter, and a transient vs.
// permanent failure taxonomy. A failed fetch is always an error value or an
// empty body, never a panic that could take down a run.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/madhurjya9655/scraper-tool/internal/fingerprint"
	"github.com/madhurjya9655/scraper-tool/internal/metrics"
	"github.com/madhurjya9655/scraper-tool/pkg/hostlimit"
	"github.com/madhurjya9655/scraper-tool/pkg/httpclient"
	"github.com/madhurjya9655/scraper-tool/pkg/useragent"
)

// Error is the typed failure returned by the fetcher. StatusCode is zero for
// transport-level failures.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// transientStatus reports whether a status code is worth retrying.
func transientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Config parameterizes a Fetcher.
type Config struct {
	Timeout         time.Duration
	MinHostInterval time.Duration
	MaxAttempts     int           // total attempts including the first; default 3
	BackoffBase     time.Duration // attempt N sleeps N*BackoffBase plus jitter; default 1s
	Fingerprint     fingerprint.Profile
	UserAgents      []string
	AcceptLanguage  string
	// Transport, when set, takes precedence over Fingerprint.
	Transport http.RoundTripper
}

// Fetcher performs paced, retried HTTP requests.
type Fetcher struct {
	client      *httpclient.Client
	pacer       *hostlimit.Pacer
	agents      *useragent.Pool
	logger      *slog.Logger
	maxAttempts int
	backoffBase time.Duration
	acceptLang  string
}

// New creates a Fetcher. A nil logger falls back to slog.Default().
func New(cfg Config, logger *slog.Logger) (*Fetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 12 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = "en-IN,en;q=0.9"
	}

	transport := cfg.Transport
	if transport == nil {
		var err error
		transport, err = fingerprint.Transport(cfg.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("setup transport: %w", err)
		}
	}

	return &Fetcher{
		client: httpclient.New(httpclient.Config{
			Timeout:      cfg.Timeout,
			MaxRedirects: 5,
			Transport:    transport,
		}),
		pacer:       hostlimit.New(cfg.MinHostInterval),
		agents:      useragent.NewPool(cfg.UserAgents),
		logger:      logger,
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
		acceptLang:  cfg.AcceptLanguage,
	}, nil
}

// Get fetches a URL and returns the response body. 403/404 responses return
// (nil, nil); other permanent failures and exhausted retries return *Error.
func (f *Fetcher) Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	return f.do(ctx, http.MethodGet, rawURL, nil, "", headers)
}

// PostJSON sends a JSON payload and returns the response body, with the same
// failure semantics as Get.
func (f *Fetcher) PostJSON(ctx context.Context, rawURL string, payload any, headers map[string]string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{URL: rawURL, Err: fmt.Errorf("encode payload: %w", err)}
	}
	return f.do(ctx, http.MethodPost, rawURL, body, "application/json", headers)
}

func (f *Fetcher) do(ctx context.Context, method, rawURL string, body []byte, contentType string, headers map[string]string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &Error{URL: rawURL, Err: err}
	}
	host := strings.ToLower(u.Host)
	start := time.Now()

	var lastErr *Error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := f.pacer.Wait(ctx, host); err != nil {
			return nil, &Error{URL: rawURL, Err: err}
		}

		var reqBody io.Reader
		if body != nil {
			reqBody = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
		if err != nil {
			return nil, &Error{URL: rawURL, Err: err}
		}
		req.Header.Set("User-Agent", f.agents.Next())
		req.Header.Set("Accept-Language", f.acceptLang)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := f.client.Do(ctx, req)
		if err != nil {
			lastErr = &Error{URL: rawURL, Err: err}
			if attempt < f.maxAttempts {
				metrics.FetchRetriesTotal.Inc()
				if err := f.backoff(ctx, attempt); err != nil {
					return nil, &Error{URL: rawURL, Err: err}
				}
				continue
			}
			f.logger.Info("fetch failed", "method", method, "url", rawURL, "err", err)
			metrics.RecordFetch(method, "error", time.Since(start))
			return nil, lastErr
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case transientStatus(resp.StatusCode):
			lastErr = &Error{URL: rawURL, StatusCode: resp.StatusCode}
			if attempt < f.maxAttempts {
				metrics.FetchRetriesTotal.Inc()
				if err := f.backoff(ctx, attempt); err != nil {
					return nil, &Error{URL: rawURL, Err: err}
				}
				continue
			}
			f.logger.Warn("retries exhausted", "method", method, "url", rawURL, "status", resp.StatusCode)
			metrics.RecordFetch(method, "error", time.Since(start))
			return nil, lastErr

		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound:
			f.logger.Debug("fetch returned empty", "method", method, "url", rawURL, "status", resp.StatusCode)
			metrics.RecordFetch(method, "empty", time.Since(start))
			return nil, nil

		case resp.StatusCode >= 400:
			f.logger.Warn("fetch rejected", "method", method, "url", rawURL, "status", resp.StatusCode)
			metrics.RecordFetch(method, "error", time.Since(start))
			return nil, &Error{URL: rawURL, StatusCode: resp.StatusCode}
		}

		if readErr != nil {
			metrics.RecordFetch(method, "error", time.Since(start))
			return nil, &Error{URL: rawURL, Err: fmt.Errorf("read body: %w", readErr)}
		}
		metrics.RecordFetch(method, "ok", time.Since(start))
		return data, nil
	}

	return nil, lastErr
}

// backoff sleeps attempt*base plus up to one base interval of jitter,
// honoring context cancellation.
func (f *Fetcher) backoff(ctx context.Context, attempt int) error {
	d := time.Duration(attempt)*f.backoffBase + time.Duration(rand.Int64N(int64(f.backoffBase)))
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
