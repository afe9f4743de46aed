package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"CoinFunnel/internal/domain/models"
	"CoinFunnel/pkg/kafka"
)

// KafkaAlertPublisher emits alert events to a Kafka topic, keyed by asset
// so per-asset ordering is preserved.
type KafkaAlertPublisher struct {
	producer *kafka.Producer
}

// NewKafkaAlertPublisher wraps a producer.
func NewKafkaAlertPublisher(producer *kafka.Producer) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer}
}

// PublishAlert serializes and publishes one alert event.
func (p *KafkaAlertPublisher) PublishAlert(ctx context.Context, event models.AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal alert event: %w", err)
	}
	if err := p.producer.Publish(ctx, []byte(event.AssetID), payload); err != nil {
		return fmt.Errorf("publish alert event: %w", err)
	}
	return nil
}

// Close flushes the underlying producer.
func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}
