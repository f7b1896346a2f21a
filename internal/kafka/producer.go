package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/trogers1052/portfolio-service/internal/models"
)

// Producer publishes quote refresh events to Kafka for downstream
// consumers (alerting, analytics).
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishQuotesRefreshed publishes an event describing a completed
// refresh cycle.
func (p *Producer) PublishQuotesRefreshed(ctx context.Context, batch *models.QuoteBatch) error {
	event := models.QuoteEvent{
		EventType:   "QUOTES_REFRESHED",
		SymbolCount: len(batch.Quotes),
		CapturedAt:  batch.CapturedAt,
		Timestamp:   time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.EventType),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
