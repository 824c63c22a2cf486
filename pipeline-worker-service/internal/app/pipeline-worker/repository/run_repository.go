package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrRunNotFound = errors.New("pipeline run not found")
)

type runRepository struct {
	collection *mongo.Collection
}

// NewRunRepository создает репозиторий манифестов прогонов.
// Автоматически создает индекс по run_id и started_at
func NewRunRepository(db *mongo.Database) RunRepository {
	collection := db.Collection("pipeline_runs")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().SetName("run_id_idx"),
		},
		{
			Keys:    bson.D{{Key: "started_at", Value: -1}},
			Options: options.Index().SetName("started_at_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		// Индексы могут уже существовать - работу не прерываем
		logger.Warn().Err(err).Msg("Failed to create pipeline_runs indexes")
	}

	return &runRepository{
		collection: collection,
	}
}

// Create сохраняет новый манифест прогона
func (r *runRepository) Create(ctx context.Context, run *entity.PipelineRun) error {
	result, err := r.collection.InsertOne(ctx, run)
	if err != nil {
		return fmt.Errorf("failed to create pipeline run: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		run.ID = oid
	}

	return nil
}

// Update обновляет манифест прогона по его ObjectID
func (r *runRepository) Update(ctx context.Context, run *entity.PipelineRun) error {
	filter := bson.M{"_id": run.ID}
	update := bson.M{"$set": bson.M{
		"status":      run.Status,
		"row_counts":  run.RowCounts,
		"fact_rows":   run.FactRows,
		"error":       run.Error,
		"finished_at": run.FinishedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update pipeline run: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrRunNotFound
	}

	return nil
}

// GetLatest возвращает манифест последнего прогона
func (r *runRepository) GetLatest(ctx context.Context) (*entity.PipelineRun, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})

	var run entity.PipelineRun
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&run)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get latest pipeline run: %w", err)
	}

	return &run, nil
}
