package repository

import (
	"context"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/entity"
)

// WarehouseRepository - загрузка датасетов в PostgreSQL хранилище
type WarehouseRepository interface {
	EnsureSchema(ctx context.Context) error
	TruncateStaging(ctx context.Context) error
	CopyStores(ctx context.Context, rows []entity.StoreRecord) (int64, error)
	CopyProducts(ctx context.Context, rows []entity.ProductRecord) (int64, error)
	CopyCustomers(ctx context.Context, rows []entity.CustomerRecord) (int64, error)
	CopyTransactions(ctx context.Context, rows []entity.TransactionRecord) (int64, error)
	RebuildFactSales(ctx context.Context) (int64, error)
}

// RunRepository - манифесты прогонов загрузки в MongoDB
type RunRepository interface {
	Create(ctx context.Context, run *entity.PipelineRun) error
	Update(ctx context.Context, run *entity.PipelineRun) error
	GetLatest(ctx context.Context) (*entity.PipelineRun, error)
}
