package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все настройки Generator Service.
// Значения читаются из переменных окружения; CLI флаги могут
// переопределять их поверх
type Config struct {
	Seed          int64
	StoreCount    int
	ProductCount  int
	CustomerCount int
	Days          int
	Workers       int

	// StartDate - первый день потока транзакций.
	// ReferenceDate - опорная дата для диапазонов дат пулов: явная,
	// чтобы прогон с тем же seed был воспроизводим в любой день запуска
	StartDate     time.Time
	ReferenceDate time.Time

	OutputDir string
	LogLevel  string

	S3    S3Config
	Kafka KafkaConfig
}

// S3Config настройки выгрузки в object storage
type S3Config struct {
	Enabled  bool
	Bucket   string
	Region   string
	Endpoint string // Для MinIO/LocalStack
	Prefix   string
}

// KafkaConfig настройки публикации событий пайплайна
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	days := getEnvInt("GEN_DAYS", 365)

	reference, err := getEnvDate("GEN_REFERENCE_DATE", "2025-01-01")
	if err != nil {
		return nil, err
	}

	// По умолчанию поток заканчивается на опорной дате
	start, err := getEnvDate("GEN_START_DATE", reference.AddDate(0, 0, -days).Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Seed:          getEnvInt64("GEN_SEED", 42),
		StoreCount:    getEnvInt("GEN_STORES", 50),
		ProductCount:  getEnvInt("GEN_PRODUCTS", 500),
		CustomerCount: getEnvInt("GEN_CUSTOMERS", 10000),
		Days:          days,
		Workers:       getEnvInt("GEN_WORKERS", 1),
		StartDate:     start,
		ReferenceDate: reference,
		OutputDir:     getEnv("GEN_OUTPUT_DIR", "data"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		S3: S3Config{
			Enabled:  getEnvBool("S3_ENABLED", false),
			Bucket:   getEnv("S3_BUCKET", "retail-pipeline-data"),
			Region:   getEnv("S3_REGION", "us-east-1"),
			Endpoint: getEnv("S3_ENDPOINT", ""),
			Prefix:   getEnv("S3_PREFIX", "raw"),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "pipeline_events"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDate(key, defaultValue string) (time.Time, error) {
	value := getEnv(key, defaultValue)
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date in %s: %q", key, value)
	}
	return t, nil
}
