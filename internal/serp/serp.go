// Package serp turns search-engine APIs into candidate site URLs. Providers
// are independently optional: one without credentials reports itself
// unavailable and yields nothing instead of failing the run.
package serp

import (
	"context"

	"github.com/madhurjya9655/scraper-tool/internal/classify"
)

// Provider abstracts one external search backend.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	// Available reports whether the provider is configured to run.
	Available() bool
	// Search returns result links for a query. The location string is a
	// provider-specific geographic hint; num caps requested results.
	Search(ctx context.Context, query, location string, num int) ([]string, error)
}

// filterLinks drops invalid URLs and links whose host is on the never-accept
// list (directories, social networks, registries).
func filterLinks(links []string) []string {
	var out []string
	for _, link := range links {
		if !classify.IsValidURL(link) {
			continue
		}
		if classify.IsNeverAcceptHost(classify.DomainOf(link)) {
			continue
		}
		out = append(out, link)
	}
	return out
}
