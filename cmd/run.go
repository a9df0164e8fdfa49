package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/madhurjya9655/scraper-tool/internal/export"
	"github.com/madhurjya9655/scraper-tool/internal/metrics"
	"github.com/madhurjya9655/scraper-tool/internal/pipeline"
	"github.com/madhurjya9655/scraper-tool/internal/scanner"
)

func newRunCmd() *cobra.Command {
	var (
		keywords  string
		locations string
		limit     int
		runtime   int
		workers   int
		noExport  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a discovery and crawl batch",
		Long: `Seeds candidate sites from the configured search providers for every
keyword/location combo, crawls them concurrently, and commits accepted
leads under a fresh batch id. The committed batch is exported as CSV
unless --no-export is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if keywords != "" {
				cfg.Scrape.Keywords = splitCSVFlag(keywords)
			}
			if locations != "" {
				cfg.Scrape.Locations = splitCSVFlag(locations)
			}
			if cmd.Flags().Changed("limit-per-combo") {
				cfg.Scrape.LimitPerCombo = limit
			}
			if cmd.Flags().Changed("max-runtime-min") {
				cfg.Scrape.MaxRuntimeMin = runtime
			}
			if cmd.Flags().Changed("workers") {
				cfg.Scrape.Workers = workers
			}
			if len(cfg.Scrape.Keywords) == 0 || len(cfg.Scrape.Locations) == 0 {
				return errors.New("at least one keyword and one location are required")
			}

			logger := newLogger()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Metrics.Enabled {
				srv := metrics.Start(cfg.Metrics.Port, logger)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
					defer cancel()
					_ = srv.Stop(shutdownCtx)
				}()
			}

			fetcher, err := newFetcher(cfg, logger)
			if err != nil {
				return err
			}
			providers, err := buildProviders(cfg, fetcher, logger)
			if err != nil {
				return err
			}
			available := 0
			for _, p := range providers {
				if p.Available() {
					available++
				}
			}
			if available == 0 {
				return errors.New("no search provider has an API key configured")
			}

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			p := pipeline.New(pipeline.Config{
				LimitPerCombo: cfg.Scrape.LimitPerCombo,
				MaxRuntime:    cfg.MaxRuntime(),
				Workers:       cfg.Scrape.Workers,
				Strict:        cfg.Scrape.Strict,
			}, providers, scanner.New(fetcher, logger), st, logger)

			rows, err := p.Run(ctx, cfg.Scrape.Locations, cfg.Scrape.Keywords)
			if err != nil {
				return fmt.Errorf("run batch: %w", err)
			}

			if !noExport {
				path, err := export.WriteCSV(rows, cfg.Export.Dir, "")
				if err != nil {
					return fmt.Errorf("export batch: %w", err)
				}
				logger.Info("batch exported", "batch", p.BatchID(), "leads", len(rows), "csv", path)
			} else {
				logger.Info("batch committed", "batch", p.BatchID(), "leads", len(rows))
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.BatchID())
			return nil
		},
	}

	cmd.Flags().StringVar(&keywords, "keywords", "", "comma separated search keywords")
	cmd.Flags().StringVar(&locations, "locations", "", "comma separated locations")
	cmd.Flags().IntVar(&limit, "limit-per-combo", 12, "max sites per keyword/location combo")
	cmd.Flags().IntVar(&runtime, "max-runtime-min", 15, "soft runtime budget in minutes, 0 disables")
	cmd.Flags().IntVar(&workers, "workers", 24, "concurrent site crawls")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "skip the CSV export at the end of the run")

	return cmd
}
