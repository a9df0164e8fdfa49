// Package enrich augments committed leads with third-party contact data.
// Hunter supplies additional addresses for a lead's domain, Clearbit fills a
// missing LinkedIn URL, and name-based pattern guesses round out the set.
// All lookups are best effort: a failed call leaves the lead unchanged.
package enrich

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/madhurjya9655/scraper-tool/internal/classify"
	"github.com/madhurjya9655/scraper-tool/internal/fetch"
	"github.com/madhurjya9655/scraper-tool/internal/store"
)

const (
	defaultHunterBaseURL   = "https://api.hunter.io"
	defaultClearbitBaseURL = "https://company.clearbit.com"

	hunterLimit = 10
)

// Config carries API credentials and endpoint overrides for tests.
type Config struct {
	HunterKey       string
	ClearbitKey     string
	HunterBaseURL   string
	ClearbitBaseURL string
}

type Enricher struct {
	cfg     Config
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

func New(cfg Config, fetcher *fetch.Fetcher, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HunterBaseURL == "" {
		cfg.HunterBaseURL = defaultHunterBaseURL
	}
	if cfg.ClearbitBaseURL == "" {
		cfg.ClearbitBaseURL = defaultClearbitBaseURL
	}
	return &Enricher{cfg: cfg, fetcher: fetcher, logger: logger}
}

// EnrichLeads returns enriched copies of the given leads. Input leads are not
// modified.
func (e *Enricher) EnrichLeads(ctx context.Context, leads []*store.Lead) []*store.Lead {
	out := make([]*store.Lead, 0, len(leads))
	for _, l := range leads {
		if ctx.Err() != nil {
			out = append(out, cloneLead(l))
			continue
		}
		out = append(out, e.enrichOne(ctx, l))
	}
	return out
}

func (e *Enricher) enrichOne(ctx context.Context, l *store.Lead) *store.Lead {
	lead := cloneLead(l)
	domain := classify.DomainOf(lead.Website)

	var emails []string
	if lead.Email != "" {
		emails = append(emails, lead.Email)
	}

	if domain != "" && !classify.IsDirectoryDomain(domain) {
		for _, addr := range e.hunterEmails(ctx, domain) {
			if classify.IsValidEmail(addr) && !classify.HasDirectoryMailSuffix(addr) {
				emails = append(emails, addr)
			}
		}
		first, last := splitName(lead.ContactPerson)
		if first != "" || last != "" {
			for _, addr := range guessPatterns(first, last, domain) {
				if !classify.HasDirectoryMailSuffix(addr) {
					emails = append(emails, addr)
				}
			}
		}
		if lead.LinkedInURL == "" {
			lead.LinkedInURL = e.clearbitLinkedIn(ctx, domain)
		}
	}

	emails = rankEmails(dedupeValid(emails), domain)
	if len(emails) > 0 {
		lead.Email = emails[0]
		lead.EnrichedEmails = strings.Join(emails, ", ")
	} else if lead.EnrichedEmails == "" {
		lead.EnrichedEmails = lead.Email
	}
	return lead
}

type hunterResponse struct {
	Data struct {
		Emails []struct {
			Value string `json:"value"`
		} `json:"emails"`
	} `json:"data"`
}

func (e *Enricher) hunterEmails(ctx context.Context, domain string) []string {
	if e.cfg.HunterKey == "" {
		return nil
	}
	q := url.Values{}
	q.Set("domain", domain)
	q.Set("api_key", e.cfg.HunterKey)
	q.Set("limit", strconv.Itoa(hunterLimit))
	endpoint := e.cfg.HunterBaseURL + "/v2/domain-search?" + q.Encode()

	body, err := e.fetcher.Get(ctx, endpoint, map[string]string{"Accept": "application/json"})
	if err != nil || body == nil {
		if err != nil {
			e.logger.Debug("hunter lookup failed", "domain", domain, "error", err)
		}
		return nil
	}
	var resp hunterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		e.logger.Debug("hunter response malformed", "domain", domain, "error", err)
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, entry := range resp.Data.Emails {
		if entry.Value == "" || !classify.IsValidEmail(entry.Value) {
			continue
		}
		if _, ok := seen[entry.Value]; ok {
			continue
		}
		seen[entry.Value] = struct{}{}
		out = append(out, entry.Value)
		if len(out) >= hunterLimit {
			break
		}
	}
	return out
}

type clearbitResponse struct {
	Site struct {
		LinkedIn string `json:"linkedin"`
	} `json:"site"`
}

func (e *Enricher) clearbitLinkedIn(ctx context.Context, domain string) string {
	if e.cfg.ClearbitKey == "" {
		return ""
	}
	endpoint := e.cfg.ClearbitBaseURL + "/v2/companies/find?domain=" + url.QueryEscape(domain)
	body, err := e.fetcher.Get(ctx, endpoint, map[string]string{
		"Authorization": "Bearer " + e.cfg.ClearbitKey,
		"Accept":        "application/json",
	})
	if err != nil || body == nil {
		if err != nil {
			e.logger.Debug("clearbit lookup failed", "domain", domain, "error", err)
		}
		return ""
	}
	var resp clearbitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		e.logger.Debug("clearbit response malformed", "domain", domain, "error", err)
		return ""
	}
	return resp.Site.LinkedIn
}

var (
	nameCleanRe = regexp.MustCompile(`[^A-Za-z\s.]`)

	honorifics = map[string]struct{}{
		"mr": {}, "mrs": {}, "ms": {}, "md": {}, "dr": {}, "sir": {}, "shri": {}, "sri": {},
	}
)

// splitName extracts first and last name tokens from a contact string,
// dropping honorific prefixes.
func splitName(name string) (first, last string) {
	if name == "" {
		return "", ""
	}
	cleaned := nameCleanRe.ReplaceAllString(name, " ")
	var toks []string
	for _, t := range strings.Fields(cleaned) {
		if _, skip := honorifics[strings.ToLower(strings.TrimSuffix(t, "."))]; skip {
			continue
		}
		toks = append(toks, t)
	}
	if len(toks) == 0 {
		return "", ""
	}
	if len(toks) == 1 {
		return titleWord(toks[0]), ""
	}
	return titleWord(toks[0]), titleWord(toks[len(toks)-1])
}

func titleWord(w string) string {
	w = strings.ToLower(w)
	if w == "" {
		return ""
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

// guessPatterns builds common corporate address shapes from a name and
// domain. Only syntactically valid addresses are returned.
func guessPatterns(first, last, domain string) []string {
	firstL := strings.ToLower(first)
	lastL := strings.ToLower(last)
	var f, l string
	if firstL != "" {
		f = firstL[:1]
	}
	if lastL != "" {
		l = lastL[:1]
	}
	candidates := []string{
		f + lastL + "@" + domain,
		firstL + "." + lastL + "@" + domain,
		firstL + l + "@" + domain,
		firstL + "@" + domain,
		firstL + "_" + lastL + "@" + domain,
		f + "." + lastL + "@" + domain,
		firstL + lastL + "@" + domain,
	}
	seen := make(map[string]struct{})
	var out []string
	for _, c := range candidates {
		if !classify.IsValidEmail(c) {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func dedupeValid(emails []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range emails {
		if e == "" || !classify.IsValidEmail(e) {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// rankEmails orders addresses so same-domain ones come first, then other
// corporate addresses, then free-mail ones. The sort is stable so discovery
// order breaks ties.
func rankEmails(emails []string, domain string) []string {
	if domain == "" {
		return emails
	}
	score := func(e string) int {
		at := strings.LastIndex(e, "@")
		if at < 0 {
			return 0
		}
		d := strings.ToLower(e[at+1:])
		if d == domain {
			return 2
		}
		if _, free := classify.FreeMailDomains[d]; !free {
			return 1
		}
		return 0
	}
	sort.SliceStable(emails, func(i, j int) bool {
		return score(emails[i]) > score(emails[j])
	})
	return emails
}

func cloneLead(l *store.Lead) *store.Lead {
	c := *l
	return &c
}
