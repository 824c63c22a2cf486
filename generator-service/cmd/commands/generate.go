package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/config"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/messaging"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/service"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/sink"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/uploader"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the four CSV datasets locally",
	Long: `Builds the dimension pools, synthesizes the transaction stream and
publishes stores.csv, products.csv, customers.csv and transactions.csv
to the output directory. No upload is performed.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, closeFn, err := buildService(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	defer closeFn()

	summary, err := svc.Generate(cmd.Context())
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	logger.Info().
		Str("run_id", summary.RunID).
		Str("output_dir", cfg.OutputDir).
		Msg("Datasets written")
	return nil
}

// parseDate разбирает дату CLI флага в UTC
func parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// buildService собирает GeneratorService с его зависимостями.
// withUpload=true требует включенного object storage
func buildService(ctx context.Context, cfg *config.Config, withUpload bool) (*service.GeneratorService, func(), error) {
	s, err := sink.New(cfg.OutputDir, uuid.NewString())
	if err != nil {
		return nil, nil, err
	}

	var up service.ObjectUploader
	if cfg.S3.Enabled {
		u, err := uploader.New(ctx, uploader.Config{
			Bucket:   cfg.S3.Bucket,
			Region:   cfg.S3.Region,
			Endpoint: cfg.S3.Endpoint,
			Prefix:   cfg.S3.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init object storage client: %w", err)
		}
		up = u
	} else if withUpload {
		return nil, nil, fmt.Errorf("upload requested but S3_ENABLED is false")
	}

	var pub service.EventPublisher
	closeFn := func() {}
	if cfg.Kafka.Enabled {
		producer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		pub = producer
		closeFn = func() {
			if err := producer.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close kafka producer")
			}
		}
	}

	return service.New(cfg, s, up, pub), closeFn, nil
}
