package commands

import (
	"fmt"
	"os"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/config"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"

	"github.com/spf13/cobra"
)

// Глобальные флаги, переопределяющие env конфигурацию
var (
	flagSeed      int64
	flagStores    int
	flagProducts  int
	flagCustomers int
	flagDays      int
	flagWorkers   int
	flagStartDate string
	flagOutputDir string
)

var rootCmd = &cobra.Command{
	Use:   "retail-pipeline",
	Short: "Synthetic retail dataset generator",
	Long: `Generates a referentially consistent synthetic retail dataset:
store, product and customer dimension pools plus a derived transaction
fact stream with weekday/weekend demand shaping. Fully reproducible
from a seed.

Outputs four CSV datasets (stores, products, customers, transactions)
and optionally uploads them to object storage partitioned by date.`,
}

// Execute запускает корневую команду CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Run seed (overrides GEN_SEED)")
	rootCmd.PersistentFlags().IntVar(&flagStores, "stores", 0, "Store pool size (overrides GEN_STORES)")
	rootCmd.PersistentFlags().IntVar(&flagProducts, "products", 0, "Product pool size (overrides GEN_PRODUCTS)")
	rootCmd.PersistentFlags().IntVar(&flagCustomers, "customers", 0, "Customer pool size (overrides GEN_CUSTOMERS)")
	rootCmd.PersistentFlags().IntVar(&flagDays, "days", 0, "Number of simulated days (overrides GEN_DAYS)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Parallel day workers (overrides GEN_WORKERS)")
	rootCmd.PersistentFlags().StringVar(&flagStartDate, "start-date", "", "First stream day, YYYY-MM-DD (overrides GEN_START_DATE)")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "Output directory (overrides GEN_OUTPUT_DIR)")
}

// loadConfig загружает env конфигурацию и накатывает поверх флаги CLI
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}
	if flagStores != 0 {
		cfg.StoreCount = flagStores
	}
	if flagProducts != 0 {
		cfg.ProductCount = flagProducts
	}
	if flagCustomers != 0 {
		cfg.CustomerCount = flagCustomers
	}
	if flagDays != 0 {
		cfg.Days = flagDays
	}
	if flagWorkers != 0 {
		cfg.Workers = flagWorkers
	}
	if flagStartDate != "" {
		start, err := parseDate(flagStartDate)
		if err != nil {
			return nil, err
		}
		cfg.StartDate = start
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}

	logger.Init("generator-service", cfg.LogLevel)
	return cfg, nil
}
