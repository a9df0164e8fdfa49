// Package scanner crawls a small fixed set of candidate paths on one site
// and extracts contact signals: emails, phones, a LinkedIn URL, the page
// title, and a body snippet for the classifier.
package scanner

import (
	"context"
	"log/slog"
	"net/url"
	"sort"

	"github.com/madhurjya9655/scraper-tool/internal/classify"
	"github.com/madhurjya9655/scraper-tool/internal/fetch"
	"github.com/madhurjya9655/scraper-tool/internal/metrics"
)

// maxSnippetLen bounds the body snippet handed to the classifier.
const maxSnippetLen = 2000

// Result carries everything extracted from one site visit. Emails are
// ordered by descending quality rank, phones ascending; both are deduped.
type Result struct {
	Emails      []string
	Phones      []string
	LinkedInURL string
	Title       string
	Snippet     string
}

// Scanner visits candidate paths on a site via the paced fetch layer.
type Scanner struct {
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// New creates a Scanner. A nil logger falls back to slog.Default().
func New(fetcher *fetch.Fetcher, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{fetcher: fetcher, logger: logger}
}

// Crawl visits the candidate paths under the site's root and accumulates
// contact signals. Invalid URLs and directory/government/education hosts
// yield an empty Result immediately. Once a same-domain email, a phone, and
// a LinkedIn URL are all present, remaining paths are skipped.
func (s *Scanner) Crawl(ctx context.Context, siteURL string) Result {
	var res Result

	if !classify.IsValidURL(siteURL) {
		return res
	}
	base, err := url.Parse(siteURL)
	if err != nil {
		return res
	}
	dom := classify.DomainOf(siteURL)
	if classify.IsDirectoryDomain(dom) {
		return res
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	// One fetch per URL for the lifetime of this scan.
	cache := make(map[string][]byte)
	seenEmail := make(map[string]struct{})
	seenPhone := make(map[string]struct{})

	for _, p := range classify.CandidatePaths {
		if ctx.Err() != nil {
			break
		}
		pageURL := root.JoinPath(p).String()

		body, fetched := cache[pageURL]
		if !fetched {
			b, err := s.fetcher.Get(ctx, pageURL, nil)
			if err != nil {
				s.logger.Debug("page fetch failed", "url", pageURL, "err", err)
			}
			cache[pageURL] = b
			body = b
		}
		if len(body) == 0 {
			continue
		}
		text := string(body)

		if res.Title == "" {
			res.Title = extractTitle(body)
		}
		for _, e := range extractEmails(text) {
			if !classify.IsValidEmail(e) || classify.HasDirectoryMailSuffix(e) {
				continue
			}
			if _, ok := seenEmail[e]; ok {
				continue
			}
			seenEmail[e] = struct{}{}
			res.Emails = append(res.Emails, e)
		}
		for _, ph := range extractPhones(text) {
			if _, ok := seenPhone[ph]; ok {
				continue
			}
			seenPhone[ph] = struct{}{}
			res.Phones = append(res.Phones, ph)
		}
		if res.LinkedInURL == "" {
			res.LinkedInURL = extractLinkedIn(text)
		}
		if len(text) > maxSnippetLen {
			res.Snippet = text[:maxSnippetLen]
		} else {
			res.Snippet = text
		}

		if s.haveBestSignals(res, dom) {
			break
		}
	}

	// Best email first; ties keep encounter order.
	sort.SliceStable(res.Emails, func(i, j int) bool {
		return classify.RankEmail(res.Emails[i], dom) > classify.RankEmail(res.Emails[j], dom)
	})
	sort.Strings(res.Phones)

	metrics.SitesScannedTotal.Inc()
	return res
}

// haveBestSignals reports whether the scan already holds a same-domain
// email, at least one phone, and a LinkedIn URL.
func (s *Scanner) haveBestSignals(res Result, dom string) bool {
	if len(res.Phones) == 0 || res.LinkedInURL == "" {
		return false
	}
	for _, e := range res.Emails {
		if classify.RankEmail(e, dom) == classify.RankSameDomain {
			return true
		}
	}
	return false
}
