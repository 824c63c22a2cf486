package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/repository"
	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/util"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/metrics"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrInvalidFilterValue = errors.New("invalid filter value")
	ErrInvalidDateRange   = errors.New("date_from must not be after date_to")
)

// Время жизни кеша отчетов: витрина обновляется пакетно, десять минут
// устаревания для дашборда приемлемы
const cacheTTL = 10 * time.Minute

// Cache - кеш сериализованных отчетов
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// AnalyticsService обрабатывает аналитические запросы к витрине продаж.
// Нормализует фильтр, проверяет кеш Redis и при промахе идет в репозиторий
type AnalyticsService struct {
	repo  repository.AnalyticsRepository
	cache Cache // nil - кеширование выключено
}

// NewAnalyticsService создает сервис аналитики
func NewAnalyticsService(repo repository.AnalyticsRepository, cache Cache) *AnalyticsService {
	return &AnalyticsService{
		repo:  repo,
		cache: cache,
	}
}

var _ Cache = (*util.RedisClient)(nil)

// NormalizeFilter приводит фильтр к каноническому виду: проверяет диапазон
// дат, сопоставляет значения перечислений без учета регистра и сортирует
// мультиселекты для стабильного ключа кеша
func NormalizeFilter(filter *entity.SalesFilter) error {
	from, err := time.Parse("2006-01-02", filter.DateFrom)
	if err != nil {
		return fmt.Errorf("%w: date_from %q", ErrInvalidFilterValue, filter.DateFrom)
	}
	to, err := time.Parse("2006-01-02", filter.DateTo)
	if err != nil {
		return fmt.Errorf("%w: date_to %q", ErrInvalidFilterValue, filter.DateTo)
	}
	if from.After(to) {
		return ErrInvalidDateRange
	}

	if filter.Categories, err = canonicalize(filter.Categories, entity.ValidCategories, "category"); err != nil {
		return err
	}
	if filter.StoreTypes, err = canonicalize(filter.StoreTypes, entity.ValidStoreTypes, "store_type"); err != nil {
		return err
	}
	if filter.CustomerSegments, err = canonicalize(filter.CustomerSegments, entity.ValidSegments, "segment"); err != nil {
		return err
	}

	if filter.DayType != "" {
		values, err := canonicalize([]string{filter.DayType}, entity.ValidDayTypes, "day_type")
		if err != nil {
			return err
		}
		filter.DayType = values[0]
	}

	return nil
}

// canonicalize сопоставляет значения с каноническим списком без учета
// регистра, убирает дубликаты и сортирует результат
func canonicalize(values, valid []string, field string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		matched := ""
		for _, canonical := range valid {
			if strings.EqualFold(v, canonical) {
				matched = canonical
				break
			}
		}
		if matched == "" {
			return nil, fmt.Errorf("%w: %s %q", ErrInvalidFilterValue, field, v)
		}
		if !seen[matched] {
			seen[matched] = true
			result = append(result, matched)
		}
	}

	sort.Strings(result)
	return result, nil
}

// cacheKey строит ключ кеша из отчета и нормализованного фильтра
func cacheKey(report string, filter *entity.SalesFilter) string {
	data, _ := json.Marshal(filter)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("analytics:%s:%s", report, hex.EncodeToString(sum[:16]))
}

// cached выполняет отчет через кеш: нормализует фильтр, проверяет Redis,
// при промахе вызывает load и кеширует результат.
// keyTag различает варианты одного отчета (например limit у топа товаров)
// не раздувая кардинальность метрики
func cached[T any](ctx context.Context, s *AnalyticsService, report, keyTag string, filter *entity.SalesFilter, load func() (T, error)) (T, error) {
	var zero T

	if err := NormalizeFilter(filter); err != nil {
		return zero, err
	}

	metrics.AnalyticsQueries.WithLabelValues(report).Inc()
	key := cacheKey(keyTag, filter)

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		if err != nil {
			// Проблемы с кешем не критичны - идем в БД
			logger.Warn().Err(err).Str("report", report).Msg("Cache lookup failed")
		} else if data != nil {
			var result T
			if err := json.Unmarshal(data, &result); err == nil {
				return result, nil
			}
			logger.Warn().Str("report", report).Msg("Corrupted cache entry, falling back to database")
		}
	}

	result, err := load()
	if err != nil {
		return zero, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, data, cacheTTL); err != nil {
				logger.Warn().Err(err).Str("report", report).Msg("Failed to cache report")
			}
		}
	}

	return result, nil
}

// Summary возвращает сводные KPI
func (s *AnalyticsService) Summary(ctx context.Context, filter *entity.SalesFilter) (*entity.SalesSummary, error) {
	return cached(ctx, s, "summary", "summary", filter, func() (*entity.SalesSummary, error) {
		return s.repo.Summary(ctx, filter)
	})
}

// RevenueByCategory возвращает выручку по категориям
func (s *AnalyticsService) RevenueByCategory(ctx context.Context, filter *entity.SalesFilter) ([]entity.CategoryRevenue, error) {
	return cached(ctx, s, "revenue_categories", "revenue_categories", filter, func() ([]entity.CategoryRevenue, error) {
		return s.repo.RevenueByCategory(ctx, filter)
	})
}

// RevenueByDay возвращает выручку по дням
func (s *AnalyticsService) RevenueByDay(ctx context.Context, filter *entity.SalesFilter) ([]entity.DailyRevenue, error) {
	return cached(ctx, s, "revenue_daily", "revenue_daily", filter, func() ([]entity.DailyRevenue, error) {
		return s.repo.RevenueByDay(ctx, filter)
	})
}

// SegmentBreakdown возвращает разрез по сегментам
func (s *AnalyticsService) SegmentBreakdown(ctx context.Context, filter *entity.SalesFilter) ([]entity.SegmentStats, error) {
	return cached(ctx, s, "segments", "segments", filter, func() ([]entity.SegmentStats, error) {
		return s.repo.SegmentBreakdown(ctx, filter)
	})
}

// LoyaltySplit возвращает сравнение по программе лояльности
func (s *AnalyticsService) LoyaltySplit(ctx context.Context, filter *entity.SalesFilter) ([]entity.LoyaltyStats, error) {
	return cached(ctx, s, "loyalty", "loyalty", filter, func() ([]entity.LoyaltyStats, error) {
		return s.repo.LoyaltySplit(ctx, filter)
	})
}

// TopProducts возвращает топ товаров по выручке
func (s *AnalyticsService) TopProducts(ctx context.Context, filter *entity.SalesFilter, limit int) (
	[]entity.ProductRevenue, error) {
	keyTag := fmt.Sprintf("products_top:%d", limit)
	return cached(ctx, s, "products_top", keyTag, filter, func() ([]entity.ProductRevenue, error) {
		return s.repo.TopProducts(ctx, filter, limit)
	})
}
