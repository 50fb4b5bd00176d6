package watermillutil

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// NatsPublisher publishes watermill messages as core NATS messages.
type NatsPublisher struct {
	conn   *nc.Conn
	logger watermill.LoggerAdapter
}

// NewNatsPublisher connects to NATS and returns a publisher.
func NewNatsPublisher(natsURL string, logger watermill.LoggerAdapter, opts ...nc.Option) (*NatsPublisher, error) {
	logger.Info("Connecting to NATS for publisher", watermill.LogFields{"url": natsURL})

	reconnectOpts := []nc.Option{
		nc.Name("poker-ledger"),
		nc.MaxReconnects(-1),
		nc.ReconnectWait(2 * time.Second),
	}
	reconnectOpts = append(reconnectOpts, opts...)

	conn, err := nc.Connect(natsURL, reconnectOpts...)
	if err != nil {
		logger.Error("Failed to connect to NATS", err, nil)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Connected to NATS for publisher", nil)

	return &NatsPublisher{conn: conn, logger: logger}, nil
}

// Publish implements the message.Publisher interface.
func (p *NatsPublisher) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		out := nc.NewMsg(topic)
		out.Data = msg.Payload
		out.Header.Set(nc.MsgIdHdr, msg.UUID)
		for k, v := range msg.Metadata {
			out.Header.Set(k, v)
		}

		p.logger.Debug("Publishing message", watermill.LogFields{"topic": topic, "uuid": msg.UUID})
		if err := p.conn.PublishMsg(out); err != nil {
			return fmt.Errorf("failed to publish message to NATS: %w", err)
		}
	}
	return nil
}

// Flush waits until the server has processed everything published so far.
func (p *NatsPublisher) Flush(ctx context.Context) error {
	return p.conn.FlushWithContext(ctx)
}

// Close drains and closes the publisher connection.
func (p *NatsPublisher) Close() error {
	p.logger.Info("Closing NATS publisher connection", nil)
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}
