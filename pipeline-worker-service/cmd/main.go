package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/config"
	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/handler"
	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/processor"
	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/repository"
	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/service"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		logger.Init("pipeline-worker-service", "info")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init("pipeline-worker-service", cfg.LogLevel)
	logger.Info().Msg("Starting Pipeline Worker Service...")

	ctx := context.Background()

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	// Хранилище: staging таблицы и витрина fact_sales
	pool, err := connectWarehouse(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to warehouse")
	}
	defer pool.Close()
	logger.Info().Msg("Successfully connected to PostgreSQL (retail_warehouse)")

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	// Манифесты прогонов загрузки
	mongoClient, err := connectMongo(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoClient.Disconnect(disconnectCtx)
	}()
	logger.Info().Msg("Successfully connected to MongoDB")

	// === ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ ===
	warehouseRepo := repository.NewWarehouseRepository(pool)
	runRepo := repository.NewRunRepository(mongoClient.Database(cfg.Mongo.DBName))
	logger.Info().Msg("Repositories initialized")

	// === ИНИЦИАЛИЗАЦИЯ СЕРВИСОВ ===
	loadSvc := service.NewLoadService(warehouseRepo, runRepo, cfg.DataDir)
	logger.Info().Msg("Services initialized")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA CONSUMER ===
	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		loadSvc,
	)

	kafkaConsumer.Start(ctx)
	defer kafkaConsumer.Stop()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Str("group_id", cfg.Kafka.GroupID).
		Msg("Kafka consumer started")

	// === ИНИЦИАЛИЗАЦИЯ CRON SCHEDULER ===
	cronScheduler := processor.NewCronScheduler(loadSvc, cfg.DataDir)

	if err := cronScheduler.Start(ctx, cfg.Cron.ReloadSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}
	defer cronScheduler.Stop()
	logger.Info().Str("schedule", cfg.Cron.ReloadSchedule).Msg("Cron scheduler started")

	// === ИНИЦИАЛИЗАЦИЯ HEALTHCHECK HTTP СЕРВЕРА ===
	healthHandler := handler.NewHealthCheckHandler(pool, mongoClient, loadSvc)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: mux,
	}

	go func() {
		logger.Info().Str("port", cfg.ServerPort).Msg("Starting healthcheck HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	// === ЗАПУСК ЗАВЕРШЕН ===
	logger.Info().Msg("Pipeline Worker Service is running")
	logger.Info().Msg("Waiting for DATASET_PUBLISHED events from Kafka...")

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Pipeline Worker Service...")
	// Deferred остановки consumer и cron дожидаются текущей загрузки
}

// connectWarehouse устанавливает соединение с PostgreSQL через pgxpool
func connectWarehouse(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse warehouse dsn: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2

	// Retry logic для устойчивости при запуске в Docker
	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				return pool, nil
			} else {
				err = pingErr
				pool.Close()
			}
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to warehouse, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// connectMongo устанавливает соединение с MongoDB
func connectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	for i := 0; i < 10; i++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx, readpref.Primary())
		pingCancel()
		if err == nil {
			return client, nil
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to ping MongoDB, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to MongoDB after 10 attempts: %w", err)
}
