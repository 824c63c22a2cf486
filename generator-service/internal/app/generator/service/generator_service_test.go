package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/config"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/service/mocks"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/sink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config.Config {
	reference := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &config.Config{
		Seed:          42,
		StoreCount:    3,
		ProductCount:  60,
		CustomerCount: 20,
		Days:          2,
		Workers:       1,
		StartDate:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), // понедельник
		ReferenceDate: reference,
		OutputDir:     dir,
	}
}

func newTestSink(t *testing.T, dir string) *sink.Sink {
	t.Helper()
	s, err := sink.New(dir, "test-run")
	require.NoError(t, err)
	return s
}

func TestGenerate_ProducesAllFourDatasets(t *testing.T) {
	dir := t.TempDir()
	svc := New(testConfig(dir), newTestSink(t, dir), nil, nil)

	summary, err := svc.Generate(context.Background())
	require.NoError(t, err)

	for _, dataset := range []string{"stores", "products", "customers", "transactions"} {
		_, statErr := os.Stat(filepath.Join(dir, dataset+".csv"))
		assert.NoError(t, statErr, dataset)
		assert.Positive(t, summary.Rows[dataset], dataset)
	}

	assert.Positive(t, summary.Transactions)
	assert.Positive(t, summary.TotalRevenue)
	assert.NotEmpty(t, summary.RunID)
}

func TestGenerate_ByteIdenticalReruns(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	_, err := New(testConfig(dirA), newTestSink(t, dirA), nil, nil).Generate(context.Background())
	require.NoError(t, err)
	_, err = New(testConfig(dirB), newTestSink(t, dirB), nil, nil).Generate(context.Background())
	require.NoError(t, err)

	for _, dataset := range []string{"stores", "products", "customers", "transactions"} {
		a, err := os.ReadFile(filepath.Join(dirA, dataset+".csv"))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, dataset+".csv"))
		require.NoError(t, err)
		assert.Equal(t, a, b, "dataset %s differs between runs", dataset)
	}
}

func TestGenerate_ZeroPoolSizeFails(t *testing.T) {
	dir := t.TempDir()

	for name, mutate := range map[string]func(*config.Config){
		"stores":    func(c *config.Config) { c.StoreCount = 0 },
		"products":  func(c *config.Config) { c.ProductCount = 0 },
		"customers": func(c *config.Config) { c.CustomerCount = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(dir)
			mutate(cfg)
			_, err := New(cfg, newTestSink(t, dir), nil, nil).Generate(context.Background())
			assert.ErrorIs(t, err, ErrInvalidPoolSize)
		})
	}
}

func TestGenerate_NonPositiveDaysFails(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Days = 0

	_, err := New(cfg, newTestSink(t, dir), nil, nil).Generate(context.Background())
	require.Error(t, err)

	// Прерванный прогон не публикует transactions.csv
	_, statErr := os.Stat(filepath.Join(dir, "transactions.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_UploadsAndPublishesEvents(t *testing.T) {
	dir := t.TempDir()

	uploader := new(mocks.MockObjectUploader)
	publisher := new(mocks.MockEventPublisher)

	uploader.On("EnsureBucket", mock.Anything).Return(nil)
	uploader.On("UploadDirectory", mock.Anything, dir, mock.AnythingOfType("time.Time")).
		Return(map[string]string{
			"stores":       "raw/stores/date=2025-09-01/stores.csv",
			"products":     "raw/products/date=2025-09-01/products.csv",
			"customers":    "raw/customers/date=2025-09-01/customers.csv",
			"transactions": "raw/transactions/date=2025-09-01/transactions.csv",
		}, nil)
	publisher.On("PublishDatasetEvent", mock.Anything, mock.MatchedBy(func(e entity.DatasetEvent) bool {
		return e.EventType == entity.EventDatasetPublished && e.RowCount > 0
	})).Return(nil).Times(4)

	svc := New(testConfig(dir), newTestSink(t, dir), uploader, publisher)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, summary.ObjectKeys, 4)
	uploader.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUpload_DisabledUploaderIsNoop(t *testing.T) {
	dir := t.TempDir()
	svc := New(testConfig(dir), newTestSink(t, dir), nil, nil)

	summary, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.NoError(t, svc.Upload(context.Background(), summary))
}
