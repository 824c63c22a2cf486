package repository

import (
	"context"

	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/entity"
)

// AnalyticsRepository - запросы к витрине fact_sales
type AnalyticsRepository interface {
	Summary(ctx context.Context, filter *entity.SalesFilter) (*entity.SalesSummary, error)
	RevenueByCategory(ctx context.Context, filter *entity.SalesFilter) ([]entity.CategoryRevenue, error)
	RevenueByDay(ctx context.Context, filter *entity.SalesFilter) ([]entity.DailyRevenue, error)
	SegmentBreakdown(ctx context.Context, filter *entity.SalesFilter) ([]entity.SegmentStats, error)
	LoyaltySplit(ctx context.Context, filter *entity.SalesFilter) ([]entity.LoyaltyStats, error)
	TopProducts(ctx context.Context, filter *entity.SalesFilter, limit int) ([]entity.ProductRevenue, error)
}
