// Package kafka provides a Kafka-backed eventstream publisher.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/papercomputeco/prefs/pkg/eventstream"
)

// Publisher publishes preference-change events to a Kafka topic. Messages
// are keyed by identity so changes for one identity stay ordered within a
// partition.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Kafka publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}

	return &Publisher{writer: writer}, nil
}

// PublishChange writes the event to the topic as JSON.
func (p *Publisher) PublishChange(ctx context.Context, event *eventstream.PreferenceChangedEvent) error {
	if event == nil {
		return eventstream.ErrNilChangeEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding change event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Identity),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publishing change event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
