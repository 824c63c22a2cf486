package mocks

import (
	"context"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/entity"

	"github.com/stretchr/testify/mock"
)

// MockObjectUploader мок для ObjectUploader
type MockObjectUploader struct {
	mock.Mock
}

func (m *MockObjectUploader) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockObjectUploader) UploadDirectory(ctx context.Context, dir string, partitionDate time.Time) (map[string]string, error) {
	args := m.Called(ctx, dir, partitionDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockEventPublisher мок для EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishDatasetEvent(ctx context.Context, event entity.DatasetEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
