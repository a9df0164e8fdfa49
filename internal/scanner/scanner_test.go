package scanner

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/madhurjya9655/scraper-tool/internal/fetch"
	"github.com/madhurjya9655/scraper-tool/internal/fingerprint"
)

func newScanner(t *testing.T) *Scanner {
	t.Helper()
	f, err := fetch.New(fetch.Config{
		Fingerprint: fingerprint.ProfileGo,
		MaxAttempts: 1,
		BackoffBase: time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	return New(f, nil)
}

// pinnedScanner returns a scanner whose transport dials the given test
// server regardless of hostname, so scans can target a real-looking domain
// (httptest's IP hosts can never produce same-domain email ranks).
func pinnedScanner(t *testing.T, srv *httptest.Server) *Scanner {
	t.Helper()
	addr := strings.TrimPrefix(srv.URL, "http://")
	f, err := fetch.New(fetch.Config{
		MaxAttempts: 1,
		BackoffBase: time.Millisecond,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
				return (&net.Dialer{}).DialContext(ctx, network, addr)
			},
		},
	}, nil)
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	return New(f, nil)
}

func TestCrawl_ExtractsSignals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			io.WriteString(w, `<html><head><title>  Acme Forging   Works </title></head>
				<body>Call +91 98765-43210 or mail sales@acmeforging.com.
				<a href="https://in.linkedin.com/company/acme-forging">LinkedIn</a></body></html>`)
		case "/contact":
			io.WriteString(w, `<html><body>info@acmeforging.com and seller@indiamart.com, phone 020-2547-8899-1</body></html>`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	res := newScanner(t).Crawl(context.Background(), srv.URL)

	if res.Title != "Acme Forging Works" {
		t.Errorf("expected collapsed title, got %q", res.Title)
	}
	wantEmails := map[string]bool{"sales@acmeforging.com": true, "info@acmeforging.com": true}
	if len(res.Emails) != 2 || !wantEmails[res.Emails[0]] || !wantEmails[res.Emails[1]] {
		t.Errorf("expected two company emails, got %v", res.Emails)
	}
	for _, e := range res.Emails {
		if strings.HasSuffix(e, "@indiamart.com") {
			t.Errorf("directory mail suffix must be dropped, got %v", res.Emails)
		}
	}
	if len(res.Phones) != 2 {
		t.Fatalf("expected two phones, got %v", res.Phones)
	}
	if res.Phones[0] != "020254788991" || res.Phones[1] != "919876543210" {
		t.Errorf("expected sorted normalized phones, got %v", res.Phones)
	}
	if res.LinkedInURL != "https://in.linkedin.com/company/acme-forging" {
		t.Errorf("unexpected linkedin url %q", res.LinkedInURL)
	}
	if res.Snippet == "" {
		t.Error("expected a body snippet")
	}
}

func TestCrawl_EarlyStopAfterFirstPage(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		// Same-domain email + phone + LinkedIn all on the landing page.
		io.WriteString(w, `<html><head><title>Acme Gears</title></head>
			<body>sales@acmegears.example phone 98765 43210
			https://linkedin.com/company/acme-gears</body></html>`)
	}))
	defer srv.Close()

	res := pinnedScanner(t, srv).Crawl(context.Background(), "http://acmegears.example/")

	if got := hits.Load(); got != 1 {
		t.Errorf("expected exactly 1 page visit, got %d", got)
	}
	if len(res.Emails) == 0 || len(res.Phones) == 0 || res.LinkedInURL == "" {
		t.Errorf("expected full signal set, got %+v", res)
	}
}

func TestCrawl_VisitsAllPathsWithoutFullSignals(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		io.WriteString(w, `<html><body>no contact info here</body></html>`)
	}))
	defer srv.Close()

	newScanner(t).Crawl(context.Background(), srv.URL)

	if got := int(hits.Load()); got < 10 {
		t.Errorf("without signals the scanner should try all candidate paths, visited %d", got)
	}
}

func TestCrawl_RejectsInvalidAndDirectoryHosts(t *testing.T) {
	s := newScanner(t)

	if res := s.Crawl(context.Background(), "not a url"); len(res.Emails) != 0 || res.Title != "" {
		t.Errorf("invalid URL must yield empty result, got %+v", res)
	}
	if res := s.Crawl(context.Background(), "https://dir.indiamart.com/acme"); len(res.Emails) != 0 {
		t.Errorf("directory host must yield empty result, got %+v", res)
	}
}

func TestExtractPhones_Normalization(t *testing.T) {
	phones := extractPhones("call +91 98765-43210 or 12345678 now")
	if len(phones) != 1 || phones[0] != "919876543210" {
		t.Errorf("expected single normalized phone, got %v", phones)
	}
}

func TestExtractEmails_DedupesInOrder(t *testing.T) {
	emails := extractEmails("a@x.com b@y.com a@x.com")
	if len(emails) != 2 || emails[0] != "a@x.com" || emails[1] != "b@y.com" {
		t.Errorf("unexpected emails %v", emails)
	}
}

func TestExtractTitle_Truncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	title := extractTitle([]byte("<html><head><title>" + long + "</title></head></html>"))
	if len(title) != maxTitleLen {
		t.Errorf("expected %d-char title, got %d", maxTitleLen, len(title))
	}
}
