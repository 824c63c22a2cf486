package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/config"
	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/handler"
	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/repository"
	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/service"
	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/util"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		logger.Init("analytics-service", "info")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init("analytics-service", cfg.LogLevel)

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	// Витрина fact_sales наполняется pipeline-worker-service
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Msg("Successfully connected to PostgreSQL")

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis кеширует ответы аналитических отчетов
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Successfully connected to Redis")

	// === СБОРКА СЛОЕВ ===
	analyticsRepo := repository.NewAnalyticsRepository(db)
	analyticsService := service.NewAnalyticsService(analyticsRepo, redisClient)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)

	router := handler.SetupRoutes(analyticsHandler, authMiddleware)

	// === НАСТРОЙКА HTTP СЕРВЕРА ===
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // Аналитические запросы бывают тяжелыми
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Analytics Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Analytics Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Analytics Service stopped gracefully")
}

// connectDB открывает соединение с PostgreSQL через GORM.
// При запуске в Docker база может быть еще не готова - пробуем 10 раз
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err == nil {
			return db, nil
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
