// Package dedupe keeps the run-scoped index of identities already committed:
// domains, phone digit strings, emails, LinkedIn slugs, and the name/title
// lists used for fuzzy comparison. One Index belongs to exactly one run and
// is never persisted.
package dedupe

import (
	"net/url"
	"strings"
	"sync"

	"github.com/madhurjya9655/scraper-tool/internal/classify"
)

// Fuzzy-match thresholds for company names and page-title heads.
const (
	nameThreshold  = 0.85
	titleThreshold = 0.90
)

// Index answers membership and duplicate queries for one run. All methods
// are safe for concurrent use; Add is mutually exclusive with the reads.
type Index struct {
	mu       sync.RWMutex
	byDomain map[string]struct{}
	byPhone  map[string]struct{}
	byEmail  map[string]struct{}
	bySlug   map[string]struct{}
	names    []string
	titles   []string
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		byDomain: make(map[string]struct{}),
		byPhone:  make(map[string]struct{}),
		byEmail:  make(map[string]struct{}),
		bySlug:   make(map[string]struct{}),
	}
}

// linkedinSlug reduces a LinkedIn URL to its lowercased path slug.
func linkedinSlug(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.Trim(u.Path, "/"))
}

// SeenDomain reports whether the URL's domain is already indexed.
func (x *Index) SeenDomain(rawURL string) bool {
	d := classify.DomainOf(rawURL)

	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.byDomain[d]
	return ok
}

// IsDuplicate reports whether any identity facet of the candidate is already
// indexed: exact domain/phone/email/slug membership, or fuzzy similarity
// against previously added company names and title heads.
func (x *Index) IsDuplicate(company, website, phone, email, linkedin, title string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if d := classify.DomainOf(website); d != "" {
		if _, ok := x.byDomain[d]; ok {
			return true
		}
	}
	if phone != "" {
		if _, ok := x.byPhone[phone]; ok {
			return true
		}
	}
	if email != "" {
		if _, ok := x.byEmail[strings.ToLower(email)]; ok {
			return true
		}
	}
	if slug := linkedinSlug(linkedin); slug != "" {
		if _, ok := x.bySlug[slug]; ok {
			return true
		}
	}
	for _, n := range x.names {
		if classify.FuzzySimilarity(n, company) >= nameThreshold {
			return true
		}
	}
	head := classify.TitleHead(title)
	for _, t := range x.titles {
		if classify.FuzzySimilarity(t, head) >= titleThreshold {
			return true
		}
	}
	return false
}

// Add indexes a committed record's identity facets. Empty facets are skipped.
func (x *Index) Add(company, website, phone, email, linkedin, title string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if d := classify.DomainOf(website); d != "" {
		x.byDomain[d] = struct{}{}
	}
	if phone != "" {
		x.byPhone[phone] = struct{}{}
	}
	if email != "" {
		x.byEmail[strings.ToLower(email)] = struct{}{}
	}
	if slug := linkedinSlug(linkedin); slug != "" {
		x.bySlug[slug] = struct{}{}
	}
	if company != "" {
		x.names = append(x.names, company)
	}
	if title != "" {
		x.titles = append(x.titles, classify.TitleHead(title))
	}
}
