package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config содержит все настройки Pipeline Worker Service
// Включает конфигурацию PostgreSQL (хранилище), MongoDB (манифесты
// прогонов), Kafka (события пайплайна) и cron расписание перезагрузки
type Config struct {
	Database DatabaseConfig
	Mongo    MongoConfig
	Kafka    KafkaConfig
	Cron     CronConfig

	// DataDir - каталог с CSV датасетами генератора
	DataDir    string
	ServerPort string
	LogLevel   string
}

// DatabaseConfig - настройки подключения к PostgreSQL хранилища.
// Сюда загружается витрина fact_sales для Analytics Service
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// MongoConfig - настройки MongoDB для манифестов прогонов пайплайна
type MongoConfig struct {
	URI    string
	DBName string
}

// KafkaConfig - настройки подписки на события пайплайна.
// Слушает топик pipeline_events для обработки DATASET_PUBLISHED
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

// CronConfig - расписание плановой перезагрузки хранилища
type CronConfig struct {
	ReloadSchedule string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "retail_warehouse"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			DBName: getEnv("MONGO_DB", "pipeline_runs"),
		},
		Kafka: KafkaConfig{
			Brokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:    getEnv("KAFKA_TOPIC", "pipeline_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "pipeline-worker-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		Cron: CronConfig{
			// По умолчанию полная перезагрузка хранилища раз в сутки в 02:00
			ReloadSchedule: getEnv("CRON_RELOAD_SCHEDULE", "0 2 * * *"),
		},
		DataDir:    getEnv("DATA_DIR", "data"),
		ServerPort: getEnv("SERVER_PORT", "8085"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
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
