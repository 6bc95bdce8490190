package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"venueflow/pkg/logger"
)

// Sink handles a decoded lifecycle event. Real delivery channels (email,
// push) are external; the default sink just logs.
type Sink interface {
	Handle(ctx context.Context, event *ReservationEvent) error
}

// LogSink records every event through the structured logger
type LogSink struct {
	Logger *logger.Logger
}

func (s *LogSink) Handle(ctx context.Context, event *ReservationEvent) error {
	s.Logger.InfoWithContext(ctx, "Reservation event consumed", map[string]interface{}{
		"event_type":     event.EventType,
		"reservation_id": event.ReservationID.String(),
		"booking_code":   event.BookingCode,
		"status":         event.Status,
	})
	return nil
}

// ConsumerConfig contains Kafka consumer group settings
type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topic          string
	SessionTimeout time.Duration
	OffsetOldest   bool
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:        []string{"localhost:9092"},
		GroupID:        "venueflow-notification-workers",
		Topic:          "reservation-events",
		SessionTimeout: 30 * time.Second,
	}
}

// Consumer runs a consumer group loop feeding events to a Sink
type Consumer struct {
	group  sarama.ConsumerGroup
	topic  string
	sink   Sink
	logger *logger.Logger
	cancel context.CancelFunc
}

func NewConsumer(cfg *ConsumerConfig, sink Sink, log *logger.Logger) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if cfg.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}

	return &Consumer{
		group:  group,
		topic:  cfg.Topic,
		sink:   sink,
		logger: log,
	}, nil
}

// Start begins consuming in the background until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			c.logger.Error("Kafka consumer group error", "error", err)
		}
	}()

	go func() {
		handler := &groupHandler{sink: c.sink, logger: c.logger}
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
				c.logger.Error("Kafka consume loop error", "error", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.group.Close()
}

type groupHandler struct {
	sink   Sink
	logger *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event ReservationEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			h.logger.Error("Failed to decode reservation event",
				"partition", message.Partition, "offset", message.Offset, "error", err)
			session.MarkMessage(message, "")
			continue
		}

		if err := h.sink.Handle(session.Context(), &event); err != nil {
			h.logger.Error("Sink failed to handle reservation event",
				"event_type", event.EventType, "reservation_id", event.ReservationID.String(), "error", err)
		}
		session.MarkMessage(message, "")
	}
	return nil
}
