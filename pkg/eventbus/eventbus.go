package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	watermillutil "github.com/Black-And-White-Club/poker-ledger/internal/watermill"
	"github.com/Black-And-White-Club/poker-ledger/pkg/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// EventBus publishes domain events after their transaction commits.
type EventBus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close() error
}

// Bus encodes payloads as JSON watermill messages and hands them to a publisher.
type Bus struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// New wraps a watermill publisher.
func New(publisher message.Publisher, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{publisher: publisher, logger: logger}
}

// Publish marshals payload and publishes it on topic, tagging the message
// with the correlation ID carried by ctx.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	msg, err := watermillutil.Marshaler.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	if id := attr.CorrelationID(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	msg.SetContext(ctx)

	if err := b.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	b.logger.DebugContext(ctx, "Event published", attr.ExtractCorrelationID(ctx), attr.String("topic", topic))
	return nil
}

// Close closes the underlying publisher.
func (b *Bus) Close() error {
	return b.publisher.Close()
}

// PublishBestEffort publishes an event and logs, rather than returns, any
// failure. Events describe already-committed state.
func PublishBestEffort(ctx context.Context, bus EventBus, logger *slog.Logger, topic string, payload any) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, topic, payload); err != nil {
		logger.WarnContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}

type noop struct{}

// NewNoop returns a bus that drops every event.
func NewNoop() EventBus { return noop{} }

func (noop) Publish(context.Context, string, any) error { return nil }
func (noop) Close() error                               { return nil }
