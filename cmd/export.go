package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/madhurjya9655/scraper-tool/internal/export"
)

func newExportCmd() *cobra.Command {
	var batchID string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a committed batch as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if batchID == "" {
				return errors.New("--batch is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			rows, err := st.FetchBatch(cmd.Context(), batchID)
			if err != nil {
				return fmt.Errorf("fetch batch %s: %w", batchID, err)
			}
			if len(rows) == 0 {
				return fmt.Errorf("batch %s has no leads", batchID)
			}

			path, err := export.WriteCSV(rows, cfg.Export.Dir, "")
			if err != nil {
				return fmt.Errorf("export batch: %w", err)
			}
			logger.Info("batch exported", "batch", batchID, "leads", len(rows), "csv", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&batchID, "batch", "", "batch id to export")
	return cmd
}
