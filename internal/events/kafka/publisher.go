package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	interfaces "github.com/sheikh-saqib/funds-transfer-core/internal/interfaces"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// keyed events are partitioned by their key.
type keyed interface {
	Key() string
}

type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher returns a publisher writing JSON messages to brokers. When
// topic is non-empty every event goes to it, whatever topic the caller asks
// for.
func NewPublisher(brokers []string, topic string) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}, topic)
}

func newPublisher(w messageWriter, topic string) *Publisher {
	return &Publisher{
		writer: w,
		topic:  topic,
	}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	msg, err := p.message(topic, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s: %w", msg.Topic, err)
	}
	return nil
}

func (p *Publisher) message(topic string, event any) (kafka.Message, error) {
	if p.topic != "" {
		topic = p.topic
	}
	if topic == "" {
		return kafka.Message{}, fmt.Errorf("kafka: topic is required")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: encode event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Value: data,
	}
	if k, ok := event.(keyed); ok {
		msg.Key = []byte(k.Key())
	}
	return msg, nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
