// Package pipeline orchestrates a scrape run: SERP seeding per
// keyword/location combo, concurrent site crawls, acceptance filtering,
// dedupe, and persistence into a per-run batch.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/madhurjya9655/scraper-tool/internal/classify"
	"github.com/madhurjya9655/scraper-tool/internal/dedupe"
	"github.com/madhurjya9655/scraper-tool/internal/metrics"
	"github.com/madhurjya9655/scraper-tool/internal/scanner"
	"github.com/madhurjya9655/scraper-tool/internal/serp"
	"github.com/madhurjya9655/scraper-tool/internal/store"
)

// Phase names the stage a run is currently in.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSeeding   Phase = "seeding"
	PhaseCrawling  Phase = "crawling"
	PhaseCompleted Phase = "completed"
	PhaseDeadline  Phase = "deadline-exceeded"
)

// Config carries the run-level knobs.
type Config struct {
	LimitPerCombo int
	MaxRuntime    time.Duration // zero means no deadline
	Workers       int
	Strict        bool
}

// Pipeline runs one scrape batch. A Pipeline is single-use: Run may be
// called once.
type Pipeline struct {
	cfg       Config
	providers []serp.Provider
	scanner   *scanner.Scanner
	store     store.Store
	index     *dedupe.Index
	logger    *slog.Logger

	batchID string
	start   time.Time
	phase   atomic.Value
}

func New(cfg Config, providers []serp.Provider, sc *scanner.Scanner, st store.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LimitPerCombo <= 0 {
		cfg.LimitPerCombo = 12
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 24
	}
	p := &Pipeline{
		cfg:       cfg,
		providers: providers,
		scanner:   sc,
		store:     st,
		index:     dedupe.New(),
		logger:    logger,
		batchID:   strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
	p.phase.Store(PhaseIdle)
	return p
}

// BatchID identifies the rows this run writes.
func (p *Pipeline) BatchID() string { return p.batchID }

// Phase reports the current run stage. Safe for concurrent use.
func (p *Pipeline) Phase() Phase { return p.phase.Load().(Phase) }

func (p *Pipeline) setPhase(ph Phase) {
	p.phase.Store(ph)
	p.logger.Debug("phase change", "phase", string(ph))
}

// deadlineExceeded reports whether the soft runtime budget is spent. The
// deadline is polled between units of work, not enforced mid-fetch.
func (p *Pipeline) deadlineExceeded() bool {
	return p.cfg.MaxRuntime > 0 && time.Since(p.start) > p.cfg.MaxRuntime
}

// Run walks every keyword x location combo, committing accepted leads under
// this run's batch id. It returns the committed rows.
func (p *Pipeline) Run(ctx context.Context, locations, keywords []string) ([]*store.Lead, error) {
	p.start = time.Now()

	type combo struct{ kw, city string }
	var combos []combo
	for _, city := range locations {
		for _, kw := range keywords {
			combos = append(combos, combo{kw, city})
		}
	}
	p.logger.Info("run starting",
		"batch", p.batchID,
		"combos", len(combos),
		"limit_per_combo", p.cfg.LimitPerCombo,
		"workers", p.cfg.Workers,
	)

	for _, c := range combos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.deadlineExceeded() {
			p.logger.Info("runtime budget spent, stopping", "batch", p.batchID)
			break
		}
		if err := p.runCombo(ctx, c.kw, c.city); err != nil {
			return nil, err
		}
	}

	if p.deadlineExceeded() {
		p.setPhase(PhaseDeadline)
	} else {
		p.setPhase(PhaseCompleted)
	}

	rows, err := p.store.FetchBatch(ctx, p.batchID)
	if err != nil {
		return nil, fmt.Errorf("fetch batch %s: %w", p.batchID, err)
	}
	p.logger.Info("run finished", "batch", p.batchID, "leads", len(rows), "elapsed", time.Since(p.start).Round(time.Second))
	return rows, nil
}

// seedCutoff is the diminishing-returns threshold: stop issuing further
// queries for a combo once a result set yields this few unseen hosts.
func seedCutoff(uniqueHosts int) int {
	c := int(math.Ceil(0.3 * float64(uniqueHosts)))
	if c < 2 {
		c = 2
	}
	return c
}

// seedCombo gathers candidate site roots for one keyword/location combo.
// Queries run in random order and stop early when results stop surfacing
// new hosts.
func (p *Pipeline) seedCombo(ctx context.Context, kw, city string) ([]string, error) {
	p.setPhase(PhaseSeeding)

	var urls []string
	for _, q := range serp.BuildQueries(kw, city) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var batch []string
		for _, prov := range p.providers {
			if !prov.Available() {
				continue
			}
			links, err := prov.Search(ctx, q, city, p.cfg.LimitPerCombo*2)
			if err != nil {
				p.logger.Debug("search failed", "provider", prov.Name(), "query", q, "error", err)
				continue
			}
			batch = append(batch, links...)
		}

		// Keep one URL per host, first seen wins.
		uniq := make(map[string]string, len(batch))
		var hosts []string
		for _, u := range batch {
			h := classify.DomainOf(u)
			if h == "" {
				continue
			}
			if _, ok := uniq[h]; !ok {
				uniq[h] = u
				hosts = append(hosts, h)
			}
		}

		newHosts := 0
		for _, h := range hosts {
			if !p.index.SeenDomain(uniq[h]) {
				newHosts++
			}
		}
		for _, h := range hosts {
			urls = append(urls, uniq[h])
		}

		if newHosts <= seedCutoff(len(uniq)) {
			break
		}
		if len(urls) >= p.cfg.LimitPerCombo*3 || p.deadlineExceeded() {
			break
		}
	}

	// Collapse to site roots, preserving order.
	seen := make(map[string]struct{}, len(urls))
	var seeds []string
	for _, u := range urls {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Host == "" {
			continue
		}
		root := parsed.Scheme + "://" + parsed.Host + "/"
		if _, ok := seen[root]; ok {
			continue
		}
		seen[root] = struct{}{}
		seeds = append(seeds, root)
	}
	if len(seeds) > p.cfg.LimitPerCombo {
		seeds = seeds[:p.cfg.LimitPerCombo]
	}
	return seeds, nil
}

// runCombo crawls one combo's seeds concurrently and commits accepted leads.
// Commits are serialized on the drain loop so the duplicate check and the
// index update stay atomic with respect to each other.
func (p *Pipeline) runCombo(ctx context.Context, kw, city string) error {
	seeds, err := p.seedCombo(ctx, kw, city)
	if err != nil {
		return err
	}
	if len(seeds) == 0 {
		p.logger.Info("no seeds for combo", "keyword", kw, "location", city)
		return nil
	}
	p.setPhase(PhaseCrawling)
	p.logger.Info("crawling combo", "keyword", kw, "location", city, "seeds", len(seeds))

	results := make(chan *store.Lead)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	go func() {
		for _, seed := range seeds {
			g.Go(func() error {
				lead := p.processSite(gCtx, seed, kw, city)
				if lead == nil {
					return nil
				}
				select {
				case results <- lead:
				case <-gCtx.Done():
				}
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	for lead := range results {
		if p.deadlineExceeded() {
			continue
		}
		if p.index.IsDuplicate(lead.CompanyName, lead.Website, lead.Phone, lead.Email, lead.LinkedInURL, "") {
			metrics.DuplicatesRejectedTotal.Inc()
			continue
		}
		id, err := p.store.Upsert(ctx, lead, p.batchID)
		if err != nil {
			p.logger.Warn("upsert failed", "company", lead.CompanyName, "error", err)
			continue
		}
		p.index.Add(lead.CompanyName, lead.Website, lead.Phone, lead.Email, lead.LinkedInURL, "")
		metrics.LeadsCommittedTotal.Inc()
		p.logger.Info("lead committed", "company", lead.CompanyName, "id", id)
	}

	return ctx.Err()
}

// processSite crawls one site and applies the acceptance filter. It returns
// nil when the site is rejected for any reason.
func (p *Pipeline) processSite(ctx context.Context, siteURL, kw, city string) *store.Lead {
	if p.deadlineExceeded() || ctx.Err() != nil {
		return nil
	}
	dom := classify.DomainOf(siteURL)
	if dom == "" || classify.IsDirectoryDomain(dom) {
		return nil
	}

	res := p.scanner.Crawl(ctx, siteURL)
	if !classify.LooksLikeCompanySite(siteURL, res.Title, res.Snippet, p.cfg.Strict) {
		return nil
	}

	// Emails arrive rank-ordered; take the best non-directory one.
	var email string
	for _, e := range res.Emails {
		if !classify.HasDirectoryMailSuffix(e) {
			email = e
			break
		}
	}
	var phone string
	if len(res.Phones) > 0 {
		phone = res.Phones[0]
	}

	company := strings.TrimSpace(classify.BestCompanyName(siteURL, res.Title))
	if len(company) < 3 {
		return nil
	}
	if p.index.IsDuplicate(company, siteURL, phone, email, res.LinkedInURL, res.Title) {
		return nil
	}

	companyType := classify.MatchCompanyType(kw)
	if companyType == "" {
		companyType = kw
	}

	lead := &store.Lead{
		CompanyName: company,
		Email:       email,
		Phone:       phone,
		Website:     siteURL,
		Industry:    classify.IndustryForKeyword(kw),
		Location:    city,
		CompanyType: companyType,
		Source:      siteURL,
		ScrapedAt:   time.Now().UTC(),
		LinkedInURL: res.LinkedInURL,
	}

	if lead.Email == "" && lead.Phone == "" {
		return nil
	}
	if classify.IsDirectoryDomain(classify.DomainOf(lead.Website)) {
		return nil
	}
	if lead.Email != "" && classify.HasDirectoryMailSuffix(lead.Email) {
		return nil
	}
	return lead
}
