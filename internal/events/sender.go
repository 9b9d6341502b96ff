// Package events publishes detected price changes to Kafka for downstream
// consumers. Delivery is best effort: the history table, not the topic, is
// the durable record.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"tienda/pricewatch/internal/models"
)

// ChangeMessage is the wire format of one published price change.
type ChangeMessage struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	OldPrice   float64 `json:"old_price"`
	NewPrice   float64 `json:"new_price"`
	ObservedAt string  `json:"observed_at"`
}

// NewWriter builds the Kafka writer for the change topic.
func NewWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
}

// Sender handles sending price changes to Kafka.
type Sender struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

// NewSender creates a new Kafka sender.
func NewSender(writer *kafka.Writer, logger *logrus.Logger) *Sender {
	return &Sender{writer: writer, logger: logger}
}

// PublishChanges serializes and sends the run's change events in order.
func (s *Sender) PublishChanges(ctx context.Context, changes []models.PriceChange) error {
	if len(changes) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(changes))
	for _, c := range changes {
		data, err := json.Marshal(encodeChange(c))
		if err != nil {
			return fmt.Errorf("serialize change for %s: %w", c.ProductID, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(c.ProductID), Value: data})
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.writer.WriteMessages(writeCtx, msgs...); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("kafka write failed: %w", err)
	}

	s.logger.Infof("Published %d price changes to %s", len(msgs), s.writer.Topic)
	return nil
}

// Close closes the underlying writer.
func (s *Sender) Close() error {
	return s.writer.Close()
}

func encodeChange(c models.PriceChange) ChangeMessage {
	return ChangeMessage{
		ProductID:  c.ProductID,
		Name:       c.Name,
		OldPrice:   c.OldPrice,
		NewPrice:   c.NewPrice,
		ObservedAt: c.ObservedAt.UTC().Format(time.RFC3339),
	}
}
