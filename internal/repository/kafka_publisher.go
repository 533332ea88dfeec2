package repository

import (
	"context"
	"fmt"

	"Moonlander/internal/domain/models"
	domainrepo "Moonlander/internal/domain/repository"
	appkafka "Moonlander/pkg/kafka"
	applogger "Moonlander/pkg/logger"
)

// KafkaPublisher emits each published batch as a single message, keyed
// by generation timestamp. Downstream consumers always see a whole
// cycle, never a partially generated one.
type KafkaPublisher struct {
	producer *appkafka.Producer
	topic    string
	log      *applogger.Logger
}

func NewKafkaPublisher(producer *appkafka.Producer, topic string, log *applogger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, log: log}
}

var _ domainrepo.Publisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PublishBatch(ctx context.Context, b *models.Batch) error {
	key := []byte(b.GeneratedAt.UTC().Format("2006-01-02T15:04:05.000Z"))
	if err := p.producer.Publish(ctx, p.topic, key, b); err != nil {
		return fmt.Errorf("publish batch: %w", err)
	}
	p.log.Debug("batch published to kafka",
		applogger.String("topic", p.topic),
		applogger.Int("assets", len(b.Assets)),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishBatch(context.Context, *models.Batch) error { return nil }
func (NoopPublisher) Close() error                                      { return nil }
