package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	defaultTopProductsLimit = 10
	maxTopProductsLimit     = 100
)

type AnalyticsServiceInterface interface {
	Summary(ctx context.Context, filter *entity.SalesFilter) (*entity.SalesSummary, error)
	RevenueByCategory(ctx context.Context, filter *entity.SalesFilter) ([]entity.CategoryRevenue, error)
	RevenueByDay(ctx context.Context, filter *entity.SalesFilter) ([]entity.DailyRevenue, error)
	SegmentBreakdown(ctx context.Context, filter *entity.SalesFilter) ([]entity.SegmentStats, error)
	LoyaltySplit(ctx context.Context, filter *entity.SalesFilter) ([]entity.LoyaltyStats, error)
	TopProducts(ctx context.Context, filter *entity.SalesFilter, limit int) ([]entity.ProductRevenue, error)
}

// AnalyticsHandler обрабатывает HTTP запросы аналитических отчетов
type AnalyticsHandler struct {
	analyticsService AnalyticsServiceInterface
	validator        *validator.Validate
}

func NewAnalyticsHandler(analyticsService AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		validator:        validator.New(),
	}
}

// bindFilter разбирает фильтр из query-параметров и валидирует его
func (h *AnalyticsHandler) bindFilter(c *gin.Context) (*entity.SalesFilter, bool) {
	var filter entity.SalesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return nil, false
	}

	if err := h.validator.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return nil, false
	}

	return &filter, true
}

// respondServiceError транслирует ошибки сервиса в HTTP статусы
func respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidFilterValue) || errors.Is(err, service.ErrInvalidDateRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute analytics query"})
}

// GetSummary обрабатывает GET /api/v1/analytics/summary
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetRevenueByCategory обрабатывает GET /api/v1/analytics/revenue/categories
func (h *AnalyticsHandler) GetRevenueByCategory(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	rows, err := h.analyticsService.RevenueByCategory(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": rows, "total": len(rows)})
}

// GetRevenueByDay обрабатывает GET /api/v1/analytics/revenue/daily
func (h *AnalyticsHandler) GetRevenueByDay(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	rows, err := h.analyticsService.RevenueByDay(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": rows, "total": len(rows)})
}

// GetSegments обрабатывает GET /api/v1/analytics/segments
func (h *AnalyticsHandler) GetSegments(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	rows, err := h.analyticsService.SegmentBreakdown(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"segments": rows, "total": len(rows)})
}

// GetLoyaltySplit обрабатывает GET /api/v1/analytics/loyalty
func (h *AnalyticsHandler) GetLoyaltySplit(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	rows, err := h.analyticsService.LoyaltySplit(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": rows})
}

// GetTopProducts обрабатывает GET /api/v1/analytics/products/top?limit=N
func (h *AnalyticsHandler) GetTopProducts(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	limit := defaultTopProductsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxTopProductsLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	rows, err := h.analyticsService.TopProducts(c.Request.Context(), filter, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": rows, "total": len(rows)})
}

// formatValidationError превращает ошибку валидатора в читаемое сообщение
func formatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Validation failed"
	}

	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required":
			return "Field '" + fieldError.Field() + "' is required"
		case "datetime":
			return "Field '" + fieldError.Field() + "' must be a date in YYYY-MM-DD format"
		default:
			return "Field '" + fieldError.Field() + "' is invalid"
		}
	}

	return "Validation failed"
}
