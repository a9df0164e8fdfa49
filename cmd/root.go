// Package cmd defines the CLI commands for the leadscraper executable.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/madhurjya9655/scraper-tool/internal/config"
	"github.com/madhurjya9655/scraper-tool/internal/fetch"
	"github.com/madhurjya9655/scraper-tool/internal/fingerprint"
	"github.com/madhurjya9655/scraper-tool/internal/serp"
	"github.com/madhurjya9655/scraper-tool/internal/store"
	"github.com/madhurjya9655/scraper-tool/internal/store/postgres"
	"github.com/madhurjya9655/scraper-tool/internal/store/sqlite"
)

var (
	cfgFile string
	verbose bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leadscraper",
		Short: "Directory-safe B2B lead discovery and enrichment",
		Long: `leadscraper discovers company websites through search providers, crawls
them for contact signals, and commits deduplicated leads into a per-run
batch that can be exported as CSV or enriched with third-party data.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newEnrichCmd())
	return cmd
}

// Execute runs the CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		return postgres.New(ctx, cfg.Store.DSN)
	default:
		return sqlite.New(cfg.Store.Path)
	}
}

func newFetcher(cfg config.Config, logger *slog.Logger) (*fetch.Fetcher, error) {
	return fetch.New(fetch.Config{
		Timeout:         cfg.FetchTimeout(),
		MinHostInterval: cfg.HostInterval(),
		MaxAttempts:     cfg.Fetch.MaxAttempts,
		Fingerprint:     fingerprint.Profile(cfg.Fetch.Fingerprint),
		UserAgents:      cfg.Fetch.UserAgentExtras,
		AcceptLanguage:  cfg.Fetch.AcceptLanguage,
	}, logger)
}

func buildProviders(cfg config.Config, fetcher *fetch.Fetcher, logger *slog.Logger) ([]serp.Provider, error) {
	var providers []serp.Provider
	for _, src := range cfg.Search.Sources {
		switch src {
		case "serpapi":
			providers = append(providers, serp.NewSerpAPI(cfg.Search.SerpAPIKey, fetcher, logger))
		case "serper":
			providers = append(providers, serp.NewSerper(cfg.Search.SerperKey, fetcher, logger))
		default:
			return nil, fmt.Errorf("unknown search source %q", src)
		}
	}
	return providers, nil
}

// splitCSVFlag turns a comma separated flag value into trimmed parts.
func splitCSVFlag(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
