package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"venueflow/internal/reservations"
	"venueflow/pkg/logger"
)

// ProducerConfig contains Kafka producer settings
type ProducerConfig struct {
	Brokers  []string
	Topic    string
	RetryMax int
	Timeout  time.Duration
}

func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:  []string{"localhost:9092"},
		Topic:    "reservation-events",
		RetryMax: 3,
		Timeout:  10 * time.Second,
	}
}

// Producer publishes reservation lifecycle events. It satisfies
// reservations.Notifier: publish failures are logged, never propagated,
// because the transition has already committed.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
}

func NewProducer(cfg *ProducerConfig, log *logger.Logger) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = cfg.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    cfg.Topic,
		logger:   log,
	}, nil
}

// PublishReservationEvent publishes one lifecycle event keyed by
// reservation ID
func (p *Producer) PublishReservationEvent(ctx context.Context, eventType string, reservation *reservations.Reservation) {
	event := NewReservationEvent(eventType, reservation)

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal reservation event",
			"event_type", eventType, "reservation_id", reservation.ID.String(), "error", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(reservation.ID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error("Failed to publish reservation event",
			"event_type", eventType, "reservation_id", reservation.ID.String(), "error", err)
		return
	}

	p.logger.Debug("Published reservation event",
		"event_type", eventType, "reservation_id", reservation.ID.String(),
		"partition", partition, "offset", offset)
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
