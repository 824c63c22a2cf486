package service

import (
	"context"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/entity"
)

// ObjectUploader выгружает опубликованные датасеты в object storage
type ObjectUploader interface {
	EnsureBucket(ctx context.Context) error
	UploadDirectory(ctx context.Context, dir string, partitionDate time.Time) (map[string]string, error)
}

// EventPublisher публикует события пайплайна
type EventPublisher interface {
	PublishDatasetEvent(ctx context.Context, event entity.DatasetEvent) error
}
