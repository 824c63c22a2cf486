package mocks

import (
	"context"

	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/entity"

	"github.com/stretchr/testify/mock"
)

// MockAnalyticsRepository мок для AnalyticsRepository
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Summary(ctx context.Context, filter *entity.SalesFilter) (*entity.SalesSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SalesSummary), args.Error(1)
}

func (m *MockAnalyticsRepository) RevenueByCategory(ctx context.Context, filter *entity.SalesFilter) ([]entity.CategoryRevenue, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CategoryRevenue), args.Error(1)
}

func (m *MockAnalyticsRepository) RevenueByDay(ctx context.Context, filter *entity.SalesFilter) ([]entity.DailyRevenue, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DailyRevenue), args.Error(1)
}

func (m *MockAnalyticsRepository) SegmentBreakdown(ctx context.Context, filter *entity.SalesFilter) ([]entity.SegmentStats, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SegmentStats), args.Error(1)
}

func (m *MockAnalyticsRepository) LoyaltySplit(ctx context.Context, filter *entity.SalesFilter) ([]entity.LoyaltyStats, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LoyaltyStats), args.Error(1)
}

func (m *MockAnalyticsRepository) TopProducts(ctx context.Context, filter *entity.SalesFilter, limit int) ([]entity.ProductRevenue, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProductRevenue), args.Error(1)
}
