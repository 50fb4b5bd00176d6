package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultDSN is used when no database is configured.
const DefaultDSN = "sqlite://poker_ledger.db"

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	HTTP          HTTPConfig          `yaml:"http"`
	Admin         AdminConfig         `yaml:"admin"`
	Events        EventsConfig        `yaml:"events"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds the database DSN. A sqlite:// or file: DSN selects the
// embedded SQLite driver instead of Postgres.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// AdminConfig holds the shared admin password and session signing settings.
type AdminConfig struct {
	Password   string        `yaml:"password"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// EventsConfig selects the domain event backend.
type EventsConfig struct {
	Driver       string   `yaml:"driver"` // memory|nats|kafka
	NATSURL      string   `yaml:"nats_url"`
	KafkaBrokers []string `yaml:"kafka_brokers"`
}

// LoggingConfig holds slog handler settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment    string `yaml:"environment"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Observability.Environment)
	return env == "" || env == "development" || env == "dev" || env == "local"
}

// LoadConfig loads the configuration from a YAML file, then applies
// overrides from the environment and an optional .env file.
func LoadConfig(filename string) (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// fall through to environment-only configuration
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
	if v := os.Getenv("ADMIN_JWT_SECRET"); v != "" {
		cfg.Admin.JWTSecret = v
	}
	if v := os.Getenv("ADMIN_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ADMIN_SESSION_TTL value: %w", err)
		}
		cfg.Admin.SessionTTL = d
	}
	if v := os.Getenv("EVENTS_DRIVER"); v != "" {
		cfg.Events.Driver = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Events.KafkaBrokers = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.MetricsEnabled = v == "true"
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Postgres.DSN == "" {
		cfg.Postgres.DSN = DefaultDSN
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxUploadBytes == 0 {
		cfg.HTTP.MaxUploadBytes = 16 << 20
	}
	if cfg.Admin.SessionTTL == 0 {
		cfg.Admin.SessionTTL = 12 * time.Hour
	}
	if cfg.Events.Driver == "" {
		cfg.Events.Driver = "memory"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.IsDevelopment() {
		if cfg.Admin.Password == "" {
			cfg.Admin.Password = "admin123"
		}
		if cfg.Admin.JWTSecret == "" {
			cfg.Admin.JWTSecret = "dev-secret-key"
		}
	}
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD must be set outside development")
	}
	if c.Admin.JWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET must be set outside development")
	}
	switch c.Events.Driver {
	case "memory":
	case "nats":
		if c.Events.NATSURL == "" {
			return fmt.Errorf("events driver nats requires NATS_URL")
		}
	case "kafka":
		if len(c.Events.KafkaBrokers) == 0 {
			return fmt.Errorf("events driver kafka requires KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("unknown events driver %q", c.Events.Driver)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
