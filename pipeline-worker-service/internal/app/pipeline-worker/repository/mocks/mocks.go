package mocks

import (
	"context"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/entity"

	"github.com/stretchr/testify/mock"
)

// MockWarehouseRepository мок для WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWarehouseRepository) TruncateStaging(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWarehouseRepository) CopyStores(ctx context.Context, rows []entity.StoreRecord) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWarehouseRepository) CopyProducts(ctx context.Context, rows []entity.ProductRecord) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWarehouseRepository) CopyCustomers(ctx context.Context, rows []entity.CustomerRecord) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWarehouseRepository) CopyTransactions(ctx context.Context, rows []entity.TransactionRecord) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWarehouseRepository) RebuildFactSales(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockRunRepository мок для RunRepository
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Create(ctx context.Context, run *entity.PipelineRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) Update(ctx context.Context, run *entity.PipelineRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) GetLatest(ctx context.Context) (*entity.PipelineRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PipelineRun), args.Error(1)
}
