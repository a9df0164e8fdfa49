package serp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/madhurjya9655/scraper-tool/internal/fetch"
	"github.com/madhurjya9655/scraper-tool/internal/metrics"
)

const serpAPIBaseURL = "https://serpapi.com/search.json"

// SerpAPI queries serpapi.com's Google engine over GET.
type SerpAPI struct {
	// BaseURL overrides the API endpoint, e.g. for tests.
	BaseURL string

	apiKey  string
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// NewSerpAPI creates a SerpAPI provider. An empty apiKey leaves the provider
// unavailable.
func NewSerpAPI(apiKey string, fetcher *fetch.Fetcher, logger *slog.Logger) *SerpAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return &SerpAPI{BaseURL: serpAPIBaseURL, apiKey: apiKey, fetcher: fetcher, logger: logger}
}

func (s *SerpAPI) Name() string { return "serpapi" }

func (s *SerpAPI) Available() bool { return s.apiKey != "" }

type serpAPIResponse struct {
	OrganicResults []struct {
		Link string `json:"link"`
	} `json:"organic_results"`
}

// Search returns filtered result links, or nothing when unconfigured.
func (s *SerpAPI) Search(ctx context.Context, query, location string, num int) ([]string, error) {
	if !s.Available() {
		return nil, nil
	}
	metrics.SearchesTotal.WithLabelValues(s.Name()).Inc()

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("location", location)
	params.Set("num", strconv.Itoa(num))
	params.Set("hl", "en")
	params.Set("gl", "in")
	params.Set("api_key", s.apiKey)

	data, err := s.fetcher.Get(ctx, s.BaseURL+"?"+params.Encode(), map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var resp serpAPIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		// Malformed response counts as zero results for this query.
		s.logger.Debug("serpapi response unparsable", "err", err)
		return nil, nil
	}

	links := make([]string, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		if r.Link != "" {
			links = append(links, r.Link)
		}
	}
	return filterLinks(links), nil
}
