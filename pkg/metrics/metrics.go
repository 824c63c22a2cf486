package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (общие для всех сервисов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
// Пример запроса PromQL: rate(http_requests_total{service="analytics"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
		// Бакеты для сервисов: от 1ms до 10s
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики (warehouse)
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5, 30},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики (кеш аналитических запросов)
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики (pipeline_events)
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaMessagesConsumed - полученные сообщения
var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaConsumeDuration - время обработки сообщения
var KafkaConsumeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_consume_duration_seconds",
		Help:    "Duration of Kafka message processing",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume
)

// =============================================================================
// S3 Метрики (выгрузка датасетов)
// =============================================================================

// S3Uploads - счётчик выгрузок файлов в object storage
var S3Uploads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "s3_uploads_total",
		Help: "Total number of S3 object uploads",
	},
	[]string{"service", "dataset", "status"}, // status: success, failed
)

// S3UploadBytes - объём выгруженных данных
var S3UploadBytes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "s3_upload_bytes_total",
		Help: "Total number of bytes uploaded to S3",
	},
	[]string{"service", "dataset"},
)

// S3UploadDuration - время выгрузки файла
var S3UploadDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "s3_upload_duration_seconds",
		Help:    "Duration of S3 uploads in seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
	},
	[]string{"service", "dataset"},
)

// =============================================================================
// Business Метрики (специфичные для Retail Data Pipeline)
// =============================================================================

// --- Generator Service ---

// GeneratorRowsGenerated - сгенерированные строки по датасетам
var GeneratorRowsGenerated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generator_rows_generated_total",
		Help: "Total number of rows generated per dataset",
	},
	[]string{"dataset"}, // stores, products, customers, transactions
)

// GeneratorTransactions - сгенерированные транзакции (не строки)
var GeneratorTransactions = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "generator_transactions_total",
		Help: "Total number of transactions generated",
	},
)

// GeneratorRevenue - суммарная выручка сгенерированного потока
var GeneratorRevenue = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "generator_revenue_total",
		Help: "Total revenue across generated line items",
	},
)

// GeneratorRunDuration - длительность полного прогона генерации
var GeneratorRunDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "generator_run_duration_seconds",
		Help:    "Duration of a full generation run",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	},
)

// DatasetsPublished - опубликованные (закоммиченные) датасеты
var DatasetsPublished = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generator_datasets_published_total",
		Help: "Total number of datasets published atomically",
	},
	[]string{"dataset"},
)

// --- Pipeline Worker ---

// WarehouseRowsLoaded - строки, загруженные в warehouse
var WarehouseRowsLoaded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "warehouse_rows_loaded_total",
		Help: "Total number of rows loaded into the warehouse",
	},
	[]string{"table"},
)

// WarehouseLoads - выполненные загрузки по статусам
var WarehouseLoads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "warehouse_loads_total",
		Help: "Total number of warehouse load operations",
	},
	[]string{"table", "status"}, // status: success, failed
)

// WarehouseLoadDuration - длительность загрузки датасета
var WarehouseLoadDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "warehouse_load_duration_seconds",
		Help:    "Duration of warehouse load operations",
		Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
	},
	[]string{"table"},
)

// --- Analytics Service ---

// AnalyticsQueries - выполненные аналитические запросы
var AnalyticsQueries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "analytics_queries_total",
		Help: "Total number of analytics queries executed",
	},
	[]string{"report"}, // summary, revenue_categories, revenue_daily, ...
)
