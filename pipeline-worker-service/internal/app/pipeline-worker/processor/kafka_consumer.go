package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/service"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "pipeline-worker-service"

// KafkaConsumer обрабатывает события пайплайна из Kafka топика pipeline_events
type KafkaConsumer struct {
	reader   *kafka.Reader
	loadSvc  service.LoadServiceInterface
	topic    string
	groupID  string
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	loadSvc service.LoadServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		StartOffset: kafka.LastOffset,
		// Offset коммитим вручную после успешной загрузки
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		loadSvc:  loadSvc,
		topic:    topic,
		groupID:  groupID,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().
		Str("topic", c.topic).
		Str("group_id", c.groupID).
		Msg("Starting Kafka consumer")

	go c.consume(ctx)
}

// Stop останавливает consumer
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer")
	close(c.stopChan)
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close Kafka reader")
	}
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}

				// Таймаут fetch - штатная ситуация при пустом топике
				if readCtx.Err() == context.DeadlineExceeded {
					continue
				}

				metrics.RecordKafkaError(serviceName, c.topic, "fetch")
				logger.Error().Err(err).Msg("Error fetching message")
				time.Sleep(time.Second)
				continue
			}

			start := time.Now()
			if err := c.processMessage(ctx, message); err != nil {
				metrics.RecordKafkaError(serviceName, c.topic, "process")
				logger.Error().
					Err(err).
					Int64("offset", message.Offset).
					Msg("Error processing message")
				// Offset не коммитим - сообщение будет обработано повторно
				continue
			}

			metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, time.Since(start))

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				metrics.RecordKafkaError(serviceName, c.topic, "commit")
				logger.Error().Err(err).Msg("Error committing message")
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.DatasetEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal dataset event: %w", err)
	}

	logger.Info().
		Str("event_type", event.EventType).
		Str("run_id", event.RunID).
		Str("dataset", event.Dataset).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received pipeline event")

	if err := c.loadSvc.HandleDatasetEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to handle dataset event: %w", err)
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
