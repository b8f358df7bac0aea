package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/kafka-go"

	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
)

// MessageWriter is the subset of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer MessageWriter
	Topic  string
	Logger *logger.Logger
}

// NewProducer builds a producer writing purchase events to topic.
func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
	return &Producer{Writer: writer, Topic: topic, Logger: log}
}

// PublishPurchaseCompleted streams a committed purchase to Kafka, keyed by
// purchase id so events for one purchase stay ordered.
func (p *Producer) PublishPurchaseCompleted(ctx context.Context, event models.PurchaseCompletedEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal purchase event")
	}

	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.PurchaseID, 10)),
		Value: msgBytes,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("purchase.completed")},
		},
	})
	if err != nil {
		return errors.Wrapf(err, "publish purchase %d", event.PurchaseID)
	}

	if p.Logger != nil {
		p.Logger.LogKafka("PUBLISHED", p.Topic, fmt.Sprintf("purchase %d", event.PurchaseID))
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
