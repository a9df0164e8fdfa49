package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/madhurjya9655/scraper-tool/internal/enrich"
	"github.com/madhurjya9655/scraper-tool/internal/export"
)

func newEnrichCmd() *cobra.Command {
	var batchID string

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich a committed batch and export it as CSV",
		Long: `Looks up additional addresses for each lead's domain through Hunter,
fills missing LinkedIn URLs through Clearbit, and adds name-based
pattern guesses. The enriched rows are written to a new CSV file; the
stored batch is left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if batchID == "" {
				return errors.New("--batch is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Enrich.HunterKey == "" && cfg.Enrich.ClearbitKey == "" {
				return errors.New("no enrichment API key configured")
			}
			logger := newLogger()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			rows, err := st.FetchBatch(ctx, batchID)
			if err != nil {
				return fmt.Errorf("fetch batch %s: %w", batchID, err)
			}
			if len(rows) == 0 {
				return fmt.Errorf("batch %s has no leads", batchID)
			}

			fetcher, err := newFetcher(cfg, logger)
			if err != nil {
				return err
			}
			enricher := enrich.New(enrich.Config{
				HunterKey:   cfg.Enrich.HunterKey,
				ClearbitKey: cfg.Enrich.ClearbitKey,
			}, fetcher, logger)

			enriched := enricher.EnrichLeads(ctx, rows)
			path, err := export.WriteCSV(enriched, cfg.Export.Dir, "b2b_leads_enriched")
			if err != nil {
				return fmt.Errorf("export enriched batch: %w", err)
			}
			logger.Info("batch enriched", "batch", batchID, "leads", len(enriched), "csv", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&batchID, "batch", "", "batch id to enrich")
	return cmd
}
