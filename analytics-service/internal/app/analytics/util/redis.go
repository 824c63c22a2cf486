package util

import (
	"context"
	"fmt"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const serviceName = "analytics-service"

// RedisClient кеширует сериализованные ответы аналитических отчетов
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromClient оборачивает готовый клиент (для тестов с miniredis)
func NewRedisClientFromClient(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// Get возвращает закешированный ответ или (nil, nil) при промахе
func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, "analytics")
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get cached report: %w", err)
	}

	metrics.RecordCacheHit(serviceName, "analytics")
	return data, nil
}

// Set сохраняет сериализованный ответ с заданным TTL
func (r *RedisClient) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to cache report: %w", err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
