// Package notify publishes dashboard activity to external consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

// Publisher sends recorded activities somewhere else.
type Publisher interface {
	Publish(ctx context.Context, activity model.Activity) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publishBatchTimeout bounds how long a synchronous publish waits for more
// messages before flushing; each action publishes a single message.
const publishBatchTimeout = 10 * time.Millisecond

// KafkaPublisher writes every activity as a JSON message keyed by activity id.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		BatchTimeout: publishBatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
	}
}

// Publish writes activity to Kafka.
func (p *KafkaPublisher) Publish(ctx context.Context, activity model.Activity) error {
	message, err := activityMessage(activity)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka topic %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func activityMessage(activity model.Activity) (kafka.Message, error) {
	data, err := json.Marshal(activity)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal activity: %w", err)
	}

	return kafka.Message{
		Key:   []byte(activity.ID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(activity.Action)},
			{Key: "status", Value: []byte(activity.Status)},
		},
	}, nil
}

// NopPublisher drops everything. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.Activity) error { return nil }

func (NopPublisher) Close() error { return nil }
