package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer публикует события пайплайна (DATASET_PUBLISHED,
// RUN_COMPLETED) в топик pipeline_events
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Second,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishDatasetEvent сериализует событие и отправляет его с ключом по
// имени датасета, чтобы события одного датасета шли в одну партицию
func (p *KafkaProducer) PublishDatasetEvent(ctx context.Context, event entity.DatasetEvent) error {
	timer := metrics.NewKafkaProduceTimer("generator", p.topic)

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.Dataset),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	timer.Success()
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
