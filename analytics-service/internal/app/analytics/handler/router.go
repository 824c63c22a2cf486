package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/metrics"
)

func SetupRoutes(analyticsHandler *AnalyticsHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("analytics-service"))

	// Дашборд ходит из браузера - нужен CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "analytics-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	analytics := router.Group("/api/v1/analytics")
	analytics.Use(authMiddleware.Authenticate())
	{
		analytics.GET("/summary", analyticsHandler.GetSummary)
		analytics.GET("/revenue/categories", analyticsHandler.GetRevenueByCategory)
		analytics.GET("/revenue/daily", analyticsHandler.GetRevenueByDay)
		analytics.GET("/segments", analyticsHandler.GetSegments)
		analytics.GET("/loyalty", analyticsHandler.GetLoyaltySplit)
		analytics.GET("/products/top", analyticsHandler.GetTopProducts)
	}

	return router
}
