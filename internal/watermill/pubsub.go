package watermillutil

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewPublisher builds the publisher selected by cfg.Driver.
func NewPublisher(cfg Config, logger *slog.Logger) (message.Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	wmLogger := watermill.NewSlogLogger(logger)

	switch cfg.Driver {
	case "", DriverMemory:
		return gochannel.NewGoChannel(gochannel.Config{}, wmLogger), nil
	case DriverNATS:
		return NewNatsPublisher(cfg.NATSURL, wmLogger)
	case DriverKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("kafka publisher requires at least one broker")
		}
		return NewKafkaPublisher(cfg.KafkaBrokers, wmLogger), nil
	default:
		return nil, fmt.Errorf("unknown publisher driver %q", cfg.Driver)
	}
}
