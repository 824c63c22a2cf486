package commands

import (
	"fmt"

	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate datasets, upload them and publish pipeline events",
	Long: `Full pipeline run: builds the pools, synthesizes transactions, writes
the CSV datasets, uploads them to object storage and publishes
DATASET_PUBLISHED events for the downstream warehouse loader.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, closeFn, err := buildService(cmd.Context(), cfg, cfg.S3.Enabled)
	if err != nil {
		return err
	}
	defer closeFn()

	summary, err := svc.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	logger.Info().
		Str("run_id", summary.RunID).
		Int64("transactions", summary.Transactions).
		Float64("total_revenue", summary.TotalRevenue).
		Dur("duration", summary.Duration).
		Msg("Pipeline run completed")
	return nil
}
