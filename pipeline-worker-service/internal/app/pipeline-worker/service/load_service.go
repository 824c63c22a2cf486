package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/repository"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/metrics"
)

var (
	// Ошибки загрузки для обработки вызывающим кодом
	ErrDatasetMissing  = errors.New("dataset file missing")
	ErrHeaderMismatch  = errors.New("csv header does not match contract")
	ErrMalformedRecord = errors.New("malformed csv record")
)

// Файл транзакций самый большой - заливаем его батчами,
// не удерживая весь датасет в памяти
const transactionBatchSize = 10000

// LoadService загружает опубликованные генератором CSV датасеты в
// PostgreSQL хранилище: staging через COPY, затем перестроение витрины
// fact_sales. Манифест каждого прогона фиксируется в MongoDB
type LoadService struct {
	warehouse repository.WarehouseRepository
	runs      repository.RunRepository
	dataDir   string
}

// NewLoadService создает сервис загрузки хранилища
func NewLoadService(warehouse repository.WarehouseRepository, runs repository.RunRepository, dataDir string) *LoadService {
	return &LoadService{
		warehouse: warehouse,
		runs:      runs,
		dataDir:   dataDir,
	}
}

// HandleDatasetEvent обрабатывает событие пайплайна.
// Полная загрузка запускается по событию датасета транзакций: генератор
// публикует события после выгрузки всех четырех датасетов, так что остальные
// файлы прогона к этому моменту уже на месте
func (s *LoadService) HandleDatasetEvent(ctx context.Context, event *entity.DatasetEvent) error {
	if event.EventType != entity.EventDatasetPublished {
		logger.Debug().Str("event_type", event.EventType).Msg("Ignoring pipeline event")
		return nil
	}

	if event.Dataset != entity.DatasetTransactions {
		logger.Debug().
			Str("dataset", event.Dataset).
			Str("run_id", event.RunID).
			Msg("Dimension dataset published, waiting for transactions")
		return nil
	}

	dir := event.LocalPath
	if dir == "" {
		dir = s.dataDir
	}

	return s.LoadRun(ctx, event.RunID, dir)
}

// LoadRun выполняет полную загрузку хранилища из каталога с датасетами
func (s *LoadService) LoadRun(ctx context.Context, runID, dir string) error {
	timer := metrics.NewTimer()

	run := &entity.PipelineRun{
		RunID:     runID,
		Status:    entity.RunStatusRunning,
		RowCounts: make(map[string]int64, 4),
		StartedAt: time.Now().UTC(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return fmt.Errorf("failed to record pipeline run: %w", err)
	}

	logger.Info().Str("run_id", runID).Str("dir", dir).Msg("Starting warehouse load")

	loadErr := s.load(ctx, dir, run)

	run.FinishedAt = time.Now().UTC()
	if loadErr != nil {
		run.Status = entity.RunStatusFailed
		run.Error = loadErr.Error()
		metrics.WarehouseLoads.WithLabelValues("fact_sales", "failed").Inc()
	} else {
		run.Status = entity.RunStatusCompleted
		metrics.WarehouseLoads.WithLabelValues("fact_sales", "success").Inc()
		metrics.WarehouseLoadDuration.WithLabelValues("fact_sales").Observe(timer.Seconds())
	}

	if err := s.runs.Update(ctx, run); err != nil {
		logger.Error().Err(err).Str("run_id", runID).Msg("Failed to update pipeline run manifest")
	}

	if loadErr != nil {
		logger.Error().Err(loadErr).Str("run_id", runID).Msg("Warehouse load failed")
		return loadErr
	}

	logger.Info().
		Str("run_id", runID).
		Int64("fact_rows", run.FactRows).
		Dur("duration", timer.Duration()).
		Msg("Warehouse load completed")
	return nil
}

// LastRun возвращает манифест последнего прогона загрузки
func (s *LoadService) LastRun(ctx context.Context) (*entity.PipelineRun, error) {
	return s.runs.GetLatest(ctx)
}

func (s *LoadService) load(ctx context.Context, dir string, run *entity.PipelineRun) error {
	if err := s.warehouse.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := s.warehouse.TruncateStaging(ctx); err != nil {
		return err
	}

	stores, err := readStores(filepath.Join(dir, entity.DatasetStores+".csv"))
	if err != nil {
		return err
	}
	if run.RowCounts[entity.DatasetStores], err = s.warehouse.CopyStores(ctx, stores); err != nil {
		return err
	}

	products, err := readProducts(filepath.Join(dir, entity.DatasetProducts+".csv"))
	if err != nil {
		return err
	}
	if run.RowCounts[entity.DatasetProducts], err = s.warehouse.CopyProducts(ctx, products); err != nil {
		return err
	}

	customers, err := readCustomers(filepath.Join(dir, entity.DatasetCustomers+".csv"))
	if err != nil {
		return err
	}
	if run.RowCounts[entity.DatasetCustomers], err = s.warehouse.CopyCustomers(ctx, customers); err != nil {
		return err
	}

	txRows, err := s.loadTransactions(ctx, filepath.Join(dir, entity.DatasetTransactions+".csv"))
	if err != nil {
		return err
	}
	run.RowCounts[entity.DatasetTransactions] = txRows

	run.FactRows, err = s.warehouse.RebuildFactSales(ctx)
	return err
}

// loadTransactions читает transactions.csv батчами и заливает их в staging
func (s *LoadService) loadTransactions(ctx context.Context, path string) (int64, error) {
	reader, file, err := openDataset(path, entity.DatasetTransactions, entity.TransactionCSVHeader)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var total int64
	batch := make([]entity.TransactionRecord, 0, transactionBatchSize)
	line := 1

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		copied, err := s.warehouse.CopyTransactions(ctx, batch)
		if err != nil {
			return err
		}
		total += copied
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %s line %d: %v", ErrMalformedRecord, entity.DatasetTransactions, line, err)
		}
		line++

		row, err := parseTransaction(record)
		if err != nil {
			return 0, fmt.Errorf("%w: %s line %d: %v", ErrMalformedRecord, entity.DatasetTransactions, line, err)
		}

		batch = append(batch, row)
		if len(batch) == transactionBatchSize {
			if err := flush(); err != nil {
				return 0, err
			}
		}
	}

	if err := flush(); err != nil {
		return 0, err
	}
	return total, nil
}

// openDataset открывает CSV файл и проверяет заголовок по контракту
func openDataset(path, dataset string, want []string) (*csv.Reader, *os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrDatasetMissing, path)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(want)

	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to read %s header: %w", dataset, err)
	}

	if !equalHeader(header, want) {
		file.Close()
		return nil, nil, fmt.Errorf("%w: %s has %v, want %v", ErrHeaderMismatch, dataset, header, want)
	}

	return reader, file, nil
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// readAll читает датасет целиком, применяя parse к каждой строке
func readAll[T any](path, dataset string, want []string, parse func([]string) (T, error)) ([]T, error) {
	reader, file, err := openDataset(path, dataset, want)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []T
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedRecord, dataset, line, err)
		}
		line++

		row, err := parse(record)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedRecord, dataset, line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func readStores(path string) ([]entity.StoreRecord, error) {
	return readAll(path, entity.DatasetStores, entity.StoreCSVHeader, parseStore)
}

func readProducts(path string) ([]entity.ProductRecord, error) {
	return readAll(path, entity.DatasetProducts, entity.ProductCSVHeader, parseProduct)
}

func readCustomers(path string) ([]entity.CustomerRecord, error) {
	return readAll(path, entity.DatasetCustomers, entity.CustomerCSVHeader, parseCustomer)
}

func parseStore(record []string) (entity.StoreRecord, error) {
	var row entity.StoreRecord
	var err error

	if row.StoreID, err = strconv.Atoi(record[0]); err != nil {
		return row, fmt.Errorf("store_id: %v", err)
	}
	row.StoreName = record[1]
	row.StoreType = record[2]
	row.City = record[3]
	row.State = record[4]
	row.Country = record[5]
	if row.OpenedDate, err = parseDate(record[6]); err != nil {
		return row, fmt.Errorf("opened_date: %v", err)
	}
	if row.SizeSqft, err = strconv.Atoi(record[7]); err != nil {
		return row, fmt.Errorf("size_sqft: %v", err)
	}

	return row, nil
}

func parseProduct(record []string) (entity.ProductRecord, error) {
	var row entity.ProductRecord
	var err error

	if row.ProductID, err = strconv.Atoi(record[0]); err != nil {
		return row, fmt.Errorf("product_id: %v", err)
	}
	row.ProductName = record[1]
	row.Category = record[2]
	row.Subcategory = record[3]
	row.Brand = record[4]
	if row.CostPrice, err = strconv.ParseFloat(record[5], 64); err != nil {
		return row, fmt.Errorf("cost_price: %v", err)
	}
	if row.RetailPrice, err = strconv.ParseFloat(record[6], 64); err != nil {
		return row, fmt.Errorf("retail_price: %v", err)
	}
	row.Supplier = record[7]
	if row.CreatedDate, err = parseDate(record[8]); err != nil {
		return row, fmt.Errorf("created_date: %v", err)
	}

	return row, nil
}

func parseCustomer(record []string) (entity.CustomerRecord, error) {
	var row entity.CustomerRecord
	var err error

	if row.CustomerID, err = strconv.Atoi(record[0]); err != nil {
		return row, fmt.Errorf("customer_id: %v", err)
	}
	row.FirstName = record[1]
	row.LastName = record[2]
	row.Email = record[3]
	row.Phone = record[4]
	row.Address = record[5]
	row.City = record[6]
	row.State = record[7]
	row.ZipCode = record[8]
	if row.SignupDate, err = parseDate(record[9]); err != nil {
		return row, fmt.Errorf("signup_date: %v", err)
	}
	row.Segment = record[10]
	if row.LoyaltyMember, err = strconv.ParseBool(record[11]); err != nil {
		return row, fmt.Errorf("loyalty_member: %v", err)
	}

	return row, nil
}

func parseTransaction(record []string) (entity.TransactionRecord, error) {
	var row entity.TransactionRecord
	var err error

	if row.TransactionID, err = strconv.ParseInt(record[0], 10, 64); err != nil {
		return row, fmt.Errorf("transaction_id: %v", err)
	}
	if row.TransactionDate, err = parseDate(record[1]); err != nil {
		return row, fmt.Errorf("transaction_date: %v", err)
	}
	row.TransactionTime = record[2]
	if row.StoreID, err = strconv.Atoi(record[3]); err != nil {
		return row, fmt.Errorf("store_id: %v", err)
	}
	if row.CustomerID, err = strconv.Atoi(record[4]); err != nil {
		return row, fmt.Errorf("customer_id: %v", err)
	}
	if row.ProductID, err = strconv.Atoi(record[5]); err != nil {
		return row, fmt.Errorf("product_id: %v", err)
	}
	if row.Quantity, err = strconv.Atoi(record[6]); err != nil {
		return row, fmt.Errorf("quantity: %v", err)
	}
	if row.UnitPrice, err = strconv.ParseFloat(record[7], 64); err != nil {
		return row, fmt.Errorf("unit_price: %v", err)
	}
	if row.DiscountAmount, err = strconv.ParseFloat(record[8], 64); err != nil {
		return row, fmt.Errorf("discount_amount: %v", err)
	}
	if row.TotalAmount, err = strconv.ParseFloat(record[9], 64); err != nil {
		return row, fmt.Errorf("total_amount: %v", err)
	}
	row.PaymentMethod = record[10]

	return row, nil
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, time.UTC)
}
