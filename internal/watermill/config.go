package watermillutil

// Driver names accepted by NewPublisher.
const (
	DriverMemory = "memory"
	DriverNATS   = "nats"
	DriverKafka  = "kafka"
)

// Config selects and configures the publisher backend.
type Config struct {
	Driver       string
	NATSURL      string
	KafkaBrokers []string
}
