package entity

import "time"

// Типы событий пайплайна в Kafka
const (
	EventDatasetPublished = "DATASET_PUBLISHED"
	EventRunCompleted     = "RUN_COMPLETED"
)

// DatasetEvent событие публикации датасета для pipeline-worker
type DatasetEvent struct {
	EventType     string    `json:"event_type"`
	RunID         string    `json:"run_id"`
	Dataset       string    `json:"dataset"`
	RowCount      int64     `json:"row_count"`
	LocalPath     string    `json:"local_path"`
	ObjectKey     string    `json:"object_key,omitempty"`
	PartitionDate string    `json:"partition_date"`
	Timestamp     time.Time `json:"timestamp"`
}
