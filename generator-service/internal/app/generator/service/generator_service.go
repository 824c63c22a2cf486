package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/config"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/pool"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/rng"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/sink"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/synth"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/metrics"

	"github.com/google/uuid"
)

var (
	// Пул нулевого размера, на который ссылается синтезатор, -
	// конфигурационная ошибка, прогон прерывается сразу
	ErrInvalidPoolSize = errors.New("pool size must be positive")
)

// RunSummary итог прогона генерации
type RunSummary struct {
	RunID        string
	Seed         int64
	StartDate    time.Time
	Days         int
	Rows         map[string]int64
	Transactions int64
	TotalRevenue float64
	Duration     time.Duration
	ObjectKeys   map[string]string
}

// GeneratorService оркестрирует полный прогон: пулы строятся ровно один
// раз и дальше неизменяемы, поток транзакций стримится в sink по дням,
// все четыре датасета публикуются атомарно, затем опционально выгрузка
// в object storage и события в Kafka
type GeneratorService struct {
	cfg       *config.Config
	sink      *sink.Sink
	uploader  ObjectUploader // nil - выгрузка выключена
	publisher EventPublisher // nil - события выключены
}

// New создает сервис генерации
func New(cfg *config.Config, s *sink.Sink, uploader ObjectUploader, publisher EventPublisher) *GeneratorService {
	return &GeneratorService{
		cfg:       cfg,
		sink:      s,
		uploader:  uploader,
		publisher: publisher,
	}
}

// Generate выполняет генерацию и публикацию всех четырех датасетов
func (s *GeneratorService) Generate(ctx context.Context) (*RunSummary, error) {
	if s.cfg.StoreCount <= 0 {
		return nil, fmt.Errorf("%w: stores=%d", ErrInvalidPoolSize, s.cfg.StoreCount)
	}
	if s.cfg.ProductCount <= 0 {
		return nil, fmt.Errorf("%w: products=%d", ErrInvalidPoolSize, s.cfg.ProductCount)
	}
	if s.cfg.CustomerCount <= 0 {
		return nil, fmt.Errorf("%w: customers=%d", ErrInvalidPoolSize, s.cfg.CustomerCount)
	}

	timer := metrics.NewTimer()
	runID := uuid.NewString()

	logger.Info().
		Str("run_id", runID).
		Int64("seed", s.cfg.Seed).
		Int("days", s.cfg.Days).
		Int("workers", s.cfg.Workers).
		Msg("Starting generation run")

	r := rng.New(s.cfg.Seed)
	pools := pool.New(r, s.cfg.ReferenceDate)

	// Пулы строятся один раз и дальше только читаются
	stores := pools.Stores(s.cfg.StoreCount)
	products := pools.Products(s.cfg.ProductCount)
	customers := pools.Customers(s.cfg.CustomerCount)

	summary := &RunSummary{
		RunID:     runID,
		Seed:      s.cfg.Seed,
		StartDate: s.cfg.StartDate,
		Days:      s.cfg.Days,
		Rows:      make(map[string]int64, 4),
	}

	if err := s.writePool(summary, entity.DatasetStores, entity.StoreCSVHeader(), len(stores), func(i int) []string {
		return stores[i].CSVRecord()
	}); err != nil {
		return nil, err
	}
	if err := s.writePool(summary, entity.DatasetProducts, entity.ProductCSVHeader(), len(products), func(i int) []string {
		return products[i].CSVRecord()
	}); err != nil {
		return nil, err
	}
	if err := s.writePool(summary, entity.DatasetCustomers, entity.CustomerCSVHeader(), len(customers), func(i int) []string {
		return customers[i].CSVRecord()
	}); err != nil {
		return nil, err
	}

	if err := s.writeTransactions(ctx, summary, r, stores, products, customers); err != nil {
		return nil, err
	}

	summary.Duration = timer.Duration()
	metrics.GeneratorRunDuration.Observe(timer.Seconds())

	logger.Info().
		Str("run_id", runID).
		Int64("stores", summary.Rows[entity.DatasetStores]).
		Int64("products", summary.Rows[entity.DatasetProducts]).
		Int64("customers", summary.Rows[entity.DatasetCustomers]).
		Int64("transaction_rows", summary.Rows[entity.DatasetTransactions]).
		Int64("transactions", summary.Transactions).
		Float64("total_revenue", summary.TotalRevenue).
		Dur("duration", summary.Duration).
		Msg("Generation run completed")

	return summary, nil
}

func (s *GeneratorService) writePool(summary *RunSummary, dataset string, header []string, count int, record func(i int) []string) error {
	records := make([][]string, count)
	for i := 0; i < count; i++ {
		records[i] = record(i)
	}

	rows, err := s.sink.WriteAll(dataset, header, records)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dataset, err)
	}

	summary.Rows[dataset] = rows
	metrics.GeneratorRowsGenerated.WithLabelValues(dataset).Add(float64(rows))
	metrics.DatasetsPublished.WithLabelValues(dataset).Inc()
	return nil
}

// writeTransactions стримит поток позиций в sink день за днем, не
// материализуя его целиком
func (s *GeneratorService) writeTransactions(
	ctx context.Context,
	summary *RunSummary,
	r *rng.Rand,
	stores []entity.Store,
	products []entity.Product,
	customers []entity.Customer,
) error {
	w, err := s.sink.NewWriter(entity.DatasetTransactions, entity.TransactionCSVHeader())
	if err != nil {
		return fmt.Errorf("failed to open transactions writer: %w", err)
	}
	defer w.Abort()

	var lastTxID int64
	synthesizer := synth.New(r, s.cfg.Workers)
	err = synthesizer.Run(ctx, stores, products, customers, s.cfg.StartDate, s.cfg.Days, func(batch []entity.LineItem) error {
		for _, li := range batch {
			if err := w.Write(li.CSVRecord()); err != nil {
				return err
			}
			summary.TotalRevenue += li.TotalAmount
			if li.TransactionID != lastTxID {
				lastTxID = li.TransactionID
				summary.Transactions++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction synthesis failed: %w", err)
	}

	if err := w.Commit(); err != nil {
		return fmt.Errorf("failed to publish transactions: %w", err)
	}

	summary.Rows[entity.DatasetTransactions] = w.Rows()
	metrics.GeneratorRowsGenerated.WithLabelValues(entity.DatasetTransactions).Add(float64(w.Rows()))
	metrics.GeneratorTransactions.Add(float64(summary.Transactions))
	metrics.GeneratorRevenue.Add(summary.TotalRevenue)
	metrics.DatasetsPublished.WithLabelValues(entity.DatasetTransactions).Inc()
	return nil
}

// Upload выгружает опубликованные датасеты в object storage и публикует
// события DATASET_PUBLISHED. Партиция - дата запуска выгрузки: повторная
// выгрузка перезаписывает партицию идемпотентно
func (s *GeneratorService) Upload(ctx context.Context, summary *RunSummary) error {
	if s.uploader == nil {
		logger.Warn().Msg("Upload requested but object storage is disabled")
		return nil
	}

	if err := s.uploader.EnsureBucket(ctx); err != nil {
		return err
	}

	partitionDate := time.Now().UTC()
	keys, err := s.uploader.UploadDirectory(ctx, s.sink.Dir(), partitionDate)
	if err != nil {
		return err
	}
	summary.ObjectKeys = keys

	logger.Info().
		Str("run_id", summary.RunID).
		Int("datasets", len(keys)).
		Msg("Datasets uploaded")

	return s.publishEvents(ctx, summary, partitionDate)
}

func (s *GeneratorService) publishEvents(ctx context.Context, summary *RunSummary, partitionDate time.Time) error {
	if s.publisher == nil {
		return nil
	}

	for dataset, rows := range summary.Rows {
		event := entity.DatasetEvent{
			EventType:     entity.EventDatasetPublished,
			RunID:         summary.RunID,
			Dataset:       dataset,
			RowCount:      rows,
			LocalPath:     s.sink.Dir(),
			ObjectKey:     summary.ObjectKeys[dataset],
			PartitionDate: partitionDate.Format("2006-01-02"),
			Timestamp:     time.Now().UTC(),
		}
		if err := s.publisher.PublishDatasetEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to publish event for %s: %w", dataset, err)
		}
	}

	return nil
}

// Run выполняет полный пайплайн: генерация, выгрузка, события
func (s *GeneratorService) Run(ctx context.Context) (*RunSummary, error) {
	summary, err := s.Generate(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Upload(ctx, summary); err != nil {
		return summary, err
	}
	return summary, nil
}
