package repository

import (
	"context"
	"fmt"

	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/metrics"

	"gorm.io/gorm"
)

// analyticsRepository реализует AnalyticsRepository поверх PostgreSQL через GORM
type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository создает репозиторий витрины продаж
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// filtered строит базовый запрос с предикатами фильтра.
// Пустой мультиселект не добавляет предикат - отсутствие выбора
// означает "все значения"
func (r *analyticsRepository) filtered(ctx context.Context, filter *entity.SalesFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&entity.FactSale{}).
		Where("transaction_date >= ?", filter.DateFrom).
		Where("transaction_date <= ?", filter.DateTo)

	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}
	if len(filter.StoreTypes) > 0 {
		query = query.Where("store_type IN ?", filter.StoreTypes)
	}
	if len(filter.CustomerSegments) > 0 {
		query = query.Where("customer_segment IN ?", filter.CustomerSegments)
	}
	if filter.LoyaltyMember != nil {
		query = query.Where("loyalty_member = ?", *filter.LoyaltyMember)
	}
	if filter.DayType != "" {
		query = query.Where("day_type = ?", filter.DayType)
	}

	return query
}

// Summary возвращает сводные KPI по отфильтрованным продажам
func (r *analyticsRepository) Summary(ctx context.Context, filter *entity.SalesFilter) (*entity.SalesSummary, error) {
	timer := metrics.NewDbTimer("analytics-service", metrics.DbOpSelect, "fact_sales")
	defer timer.ObserveDuration()

	var summary entity.SalesSummary
	err := r.filtered(ctx, filter).
		Select(`COUNT(DISTINCT transaction_id) AS total_transactions,
			COUNT(DISTINCT customer_id) AS unique_customers,
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COALESCE(SUM(total_amount - unit_cost * quantity), 0) AS gross_profit`).
		Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query sales summary: %w", err)
	}

	if summary.TotalTransactions > 0 {
		summary.AvgOrderValue = summary.TotalRevenue / float64(summary.TotalTransactions)
	}

	return &summary, nil
}

// RevenueByCategory возвращает выручку по категориям, по убыванию выручки
func (r *analyticsRepository) RevenueByCategory(ctx context.Context, filter *entity.SalesFilter) ([]entity.CategoryRevenue, error) {
	timer := metrics.NewDbTimer("analytics-service", metrics.DbOpSelect, "fact_sales")
	defer timer.ObserveDuration()

	var rows []entity.CategoryRevenue
	err := r.filtered(ctx, filter).
		Select(`category,
			COALESCE(SUM(total_amount), 0) AS revenue,
			COALESCE(SUM(quantity), 0) AS quantity`).
		Group("category").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue by category: %w", err)
	}

	return rows, nil
}

// RevenueByDay возвращает выручку по дням в хронологическом порядке
func (r *analyticsRepository) RevenueByDay(ctx context.Context, filter *entity.SalesFilter) ([]entity.DailyRevenue, error) {
	timer := metrics.NewDbTimer("analytics-service", metrics.DbOpSelect, "fact_sales")
	defer timer.ObserveDuration()

	var rows []entity.DailyRevenue
	err := r.filtered(ctx, filter).
		Select(`TO_CHAR(transaction_date, 'YYYY-MM-DD') AS date,
			COALESCE(SUM(total_amount), 0) AS revenue,
			COUNT(DISTINCT transaction_id) AS transactions`).
		Group("transaction_date").
		Order("transaction_date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue by day: %w", err)
	}

	return rows, nil
}

// SegmentBreakdown возвращает разрез по сегментам покупателей
func (r *analyticsRepository) SegmentBreakdown(ctx context.Context, filter *entity.SalesFilter) ([]entity.SegmentStats, error) {
	timer := metrics.NewDbTimer("analytics-service", metrics.DbOpSelect, "fact_sales")
	defer timer.ObserveDuration()

	var rows []entity.SegmentStats
	err := r.filtered(ctx, filter).
		Select(`customer_segment AS segment,
			COUNT(DISTINCT customer_id) AS customers,
			COALESCE(SUM(total_amount), 0) AS revenue,
			CASE WHEN COUNT(DISTINCT transaction_id) > 0
				THEN COALESCE(SUM(total_amount), 0) / COUNT(DISTINCT transaction_id)
				ELSE 0 END AS avg_order_value`).
		Group("customer_segment").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query segment breakdown: %w", err)
	}

	return rows, nil
}

// LoyaltySplit сравнивает участников программы лояльности и остальных
func (r *analyticsRepository) LoyaltySplit(ctx context.Context, filter *entity.SalesFilter) ([]entity.LoyaltyStats, error) {
	timer := metrics.NewDbTimer("analytics-service", metrics.DbOpSelect, "fact_sales")
	defer timer.ObserveDuration()

	var rows []entity.LoyaltyStats
	err := r.filtered(ctx, filter).
		Select(`loyalty_member,
			COUNT(DISTINCT customer_id) AS customers,
			COALESCE(SUM(total_amount), 0) AS revenue,
			CASE WHEN COUNT(DISTINCT transaction_id) > 0
				THEN COALESCE(SUM(total_amount), 0) / COUNT(DISTINCT transaction_id)
				ELSE 0 END AS avg_order_value`).
		Group("loyalty_member").
		Order("loyalty_member DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query loyalty split: %w", err)
	}

	return rows, nil
}

// TopProducts возвращает limit товаров с наибольшей выручкой
func (r *analyticsRepository) TopProducts(ctx context.Context, filter *entity.SalesFilter, limit int) ([]entity.ProductRevenue, error) {
	timer := metrics.NewDbTimer("analytics-service", metrics.DbOpSelect, "fact_sales")
	defer timer.ObserveDuration()

	var rows []entity.ProductRevenue
	err := r.filtered(ctx, filter).
		Select(`product_id, product_name, category,
			COALESCE(SUM(total_amount), 0) AS revenue,
			COALESCE(SUM(quantity), 0) AS quantity`).
		Group("product_id, product_name, category").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}

	return rows, nil
}
