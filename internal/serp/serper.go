package serp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/madhurjya9655/scraper-tool/internal/fetch"
	"github.com/madhurjya9655/scraper-tool/internal/metrics"
)

const serperBaseURL = "https://google.serper.dev/search"

// Serper queries serper.dev over POST.
type Serper struct {
	// BaseURL overrides the API endpoint, e.g. for tests.
	BaseURL string

	apiKey  string
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// NewSerper creates a Serper provider. An empty apiKey leaves the provider
// unavailable.
func NewSerper(apiKey string, fetcher *fetch.Fetcher, logger *slog.Logger) *Serper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Serper{BaseURL: serperBaseURL, apiKey: apiKey, fetcher: fetcher, logger: logger}
}

func (s *Serper) Name() string { return "serper" }

func (s *Serper) Available() bool { return s.apiKey != "" }

type serperResponse struct {
	Organic []struct {
		Link string `json:"link"`
	} `json:"organic"`
}

// Search returns filtered result links, or nothing when unconfigured.
func (s *Serper) Search(ctx context.Context, query, location string, num int) ([]string, error) {
	if !s.Available() {
		return nil, nil
	}
	metrics.SearchesTotal.WithLabelValues(s.Name()).Inc()

	payload := map[string]any{
		"q":        query,
		"gl":       "in",
		"hl":       "en",
		"num":      num,
		"location": location,
	}
	headers := map[string]string{
		"X-API-KEY": s.apiKey,
		"Accept":    "application/json",
	}

	data, err := s.fetcher.PostJSON(ctx, s.BaseURL, payload, headers)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var resp serperResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Debug("serper response unparsable", "err", err)
		return nil, nil
	}

	links := make([]string, 0, len(resp.Organic))
	for _, r := range resp.Organic {
		if r.Link != "" {
			links = append(links, r.Link)
		}
	}
	return filterLinks(links), nil
}
