package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/madhurjya9655/scraper-tool/internal/fingerprint"
)

func newTestFetcher(t *testing.T, cfg Config) *Fetcher {
	t.Helper()
	cfg.Fingerprint = fingerprint.ProfileGo
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = time.Millisecond
	}
	f, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	return f
}

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		io.WriteString(w, "hello")
	}))
	defer srv.Close()

	f := newTestFetcher(t, Config{})

	body, err := f.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("expected body %q, got %q", "hello", body)
	}
}

func TestGet_RetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, "recovered")
	}))
	defer srv.Close()

	f := newTestFetcher(t, Config{MaxAttempts: 3})

	body, err := f.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "recovered" {
		t.Errorf("expected recovered body, got %q", body)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestGet_ExhaustedRetriesReturnTypedError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := newTestFetcher(t, Config{MaxAttempts: 3})

	_, err := f.Get(context.Background(), srv.URL, nil)
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *fetch.Error, got %v", err)
	}
	if fe.StatusCode != http.StatusBadGateway {
		t.Errorf("expected status 502 in error, got %d", fe.StatusCode)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestGet_NotFoundIsEmptyNotError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t, Config{MaxAttempts: 3})

	body, err := f.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if body != nil {
		t.Errorf("404 must yield an empty body, got %q", body)
	}
	if calls.Load() != 1 {
		t.Errorf("404 must not be retried, got %d attempts", calls.Load())
	}
}

func TestGet_NonTransient4xxFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := newTestFetcher(t, Config{MaxAttempts: 3})

	_, err := f.Get(context.Background(), srv.URL, nil)
	var fe *Error
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected typed 401 error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("401 must not consume retries, got %d attempts", calls.Load())
	}
}

func TestGet_PerHostPacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := newTestFetcher(t, Config{MinHostInterval: 80 * time.Millisecond})

	ctx := context.Background()
	if _, err := f.Get(ctx, srv.URL, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now()
	if _, err := f.Get(ctx, srv.URL, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("second request to same host should be paced, waited only %v", elapsed)
	}
}

func TestPostJSON_SendsPayloadAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if key := r.Header.Get("X-API-KEY"); key != "secret" {
			t.Errorf("expected API key header, got %q", key)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if payload["q"] != "forging pune" {
			t.Errorf("unexpected payload: %v", payload)
		}
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	f := newTestFetcher(t, Config{})

	body, err := f.PostJSON(context.Background(), srv.URL,
		map[string]any{"q": "forging pune"},
		map[string]string{"X-API-KEY": "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("unexpected body %q", body)
	}
}

func TestGet_ContextCancellationDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := newTestFetcher(t, Config{MaxAttempts: 5, BackoffBase: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Get(ctx, srv.URL, nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
