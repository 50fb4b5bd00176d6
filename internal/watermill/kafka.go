package watermillutil

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter is the subset of *kafka.Writer the publisher uses.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes watermill messages to Kafka. The watermill topic
// becomes the Kafka topic and the message UUID becomes the record key.
type KafkaPublisher struct {
	writer  KafkaWriter
	logger  watermill.LoggerAdapter
	timeout time.Duration
}

// NewKafkaPublisher creates a publisher writing to the given brokers.
func NewKafkaPublisher(brokers []string, logger watermill.LoggerAdapter) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
	}
	return NewKafkaPublisherWithWriter(writer, logger)
}

// NewKafkaPublisherWithWriter wraps an existing writer.
func NewKafkaPublisherWithWriter(writer KafkaWriter, logger watermill.LoggerAdapter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger, timeout: 10 * time.Second}
}

// Publish implements the message.Publisher interface.
func (p *KafkaPublisher) Publish(topic string, messages ...*message.Message) error {
	records := make([]kafka.Message, 0, len(messages))
	for _, msg := range messages {
		headers := make([]kafka.Header, 0, len(msg.Metadata))
		for k, v := range msg.Metadata {
			headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
		}
		records = append(records, kafka.Message{
			Topic:   topic,
			Key:     []byte(msg.UUID),
			Value:   msg.Payload,
			Headers: headers,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	p.logger.Debug("Publishing messages", watermill.LogFields{"topic": topic, "count": len(records)})
	if err := p.writer.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("failed to publish message to Kafka: %w", err)
	}
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher", nil)
	return p.writer.Close()
}
