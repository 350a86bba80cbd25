package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/user/reel-locator/internal/entity"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// LocationPublisher emits one message per saved record, keyed by record ID.
type LocationPublisher struct {
	writer MessageWriter
}

// NewWriter returns a writer for topic on the given brokers.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func NewLocationPublisher(writer MessageWriter) *LocationPublisher {
	return &LocationPublisher{writer: writer}
}

func (p *LocationPublisher) Publish(ctx context.Context, record *entity.LocationRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", record.ID, err)
	}
	msg := kafka.Message{
		Key:   []byte(record.ID),
		Value: value,
		Time:  record.Timestamp,
	}
	if record.Geohash != "" {
		msg.Headers = []kafka.Header{{Key: "geohash", Value: []byte(record.Geohash)}}
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *LocationPublisher) Close() error {
	return p.writer.Close()
}
