package service

import (
	"context"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/entity"
)

// LoadServiceInterface - контракт сервиса загрузки для processor слоя
type LoadServiceInterface interface {
	HandleDatasetEvent(ctx context.Context, event *entity.DatasetEvent) error
	LoadRun(ctx context.Context, runID, dir string) error
	LastRun(ctx context.Context) (*entity.PipelineRun, error)
}
