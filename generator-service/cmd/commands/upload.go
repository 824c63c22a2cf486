package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/service"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload previously generated datasets to object storage",
	Long: `Uploads the CSV datasets from the output directory into the configured
bucket under <prefix>/<dataset>/date=<YYYY-MM-DD>/ and publishes
DATASET_PUBLISHED events when kafka is enabled.`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, closeFn, err := buildService(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer closeFn()

	// Датасеты уже на диске - восстанавливаем их размеры для событий
	rows, err := countDatasetRows(cfg.OutputDir)
	if err != nil {
		return err
	}

	summary := &service.RunSummary{
		RunID: uuid.NewString(),
		Rows:  rows,
	}
	if err := svc.Upload(cmd.Context(), summary); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	logger.Info().
		Str("run_id", summary.RunID).
		Int("datasets", len(summary.ObjectKeys)).
		Msg("Upload completed")
	return nil
}

// countDatasetRows считает строки данных (без заголовка) каждого csv в каталоге
func countDatasetRows(dir string) (map[string]int64, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}

	rows := make(map[string]int64, len(paths))
	for _, path := range paths {
		dataset := strings.TrimSuffix(filepath.Base(path), ".csv")
		n, err := countRows(path)
		if err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", path, err)
		}
		rows[dataset] = n
	}
	return rows, nil
}

func countRows(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var lines int64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines++
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	if lines == 0 {
		return 0, nil
	}
	return lines - 1, nil // Первая строка - заголовок
}
