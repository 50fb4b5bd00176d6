package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/poker-ledger/pkg/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	PlayerID int64  `json:"player_id"`
	Amount   string `json:"amount"`
}

func TestBus_PublishRoundTrip(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	msgs, err := pubsub.Subscribe(context.Background(), "settlement.payment.recorded.v1")
	require.NoError(t, err)

	bus := New(pubsub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := attr.WithCorrelationID(context.Background(), "corr-1")

	go func() {
		_ = bus.Publish(ctx, "settlement.payment.recorded.v1", samplePayload{PlayerID: 7, Amount: "50.00"})
	}()

	select {
	case msg := <-msgs:
		msg.Ack()
		var got samplePayload
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, samplePayload{PlayerID: 7, Amount: "50.00"}, got)
		assert.Equal(t, "corr-1", middleware.MessageCorrelationID(msg))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("down") }
func (failingPublisher) Close() error                             { return nil }

type recordingBus struct {
	topics []string
	err    error
}

func (r *recordingBus) Publish(_ context.Context, topic string, _ any) error {
	r.topics = append(r.topics, topic)
	return r.err
}
func (r *recordingBus) Close() error { return nil }

func TestBus_PublishError(t *testing.T) {
	bus := New(failingPublisher{}, nil)
	err := bus.Publish(context.Background(), "t", samplePayload{})
	assert.ErrorContains(t, err, "failed to publish t")
}

func TestPublishBestEffort_SwallowsErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rb := &recordingBus{err: errors.New("down")}

	assert.NotPanics(t, func() {
		PublishBestEffort(context.Background(), rb, logger, "ledger.player.cleared.v1", nil)
		PublishBestEffort(context.Background(), nil, logger, "ignored", nil)
	})
	assert.Equal(t, []string{"ledger.player.cleared.v1"}, rb.topics)
}

func TestPublishScoped(t *testing.T) {
	rb := &recordingBus{}
	require.NoError(t, PublishScoped(context.Background(), rb, "ledger.entry.edited.v1", "42", nil))
	assert.Equal(t, []string{"ledger.entry.edited.v1.42"}, rb.topics)

	assert.Error(t, PublishScoped(context.Background(), rb, "ledger.entry.edited.v1", "", nil))
	assert.Equal(t, "a.b", FormatScopedTopic("a", "b"))
}
