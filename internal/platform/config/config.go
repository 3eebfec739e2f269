package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"

	EventsBackendNone  = "none"
	EventsBackendKafka = "kafka"
	EventsBackendAMQP  = "amqp"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	Port            string
	IsProduction    bool
	EnableDBCheck   bool
	StorageBackend  string
	JWTSecret       string
	FrontendBaseURL string
	APIRateLimit    string // ulule/limiter format, e.g. "300-M"

	// Currency rate cache
	BaseCurrency             string
	RateCacheTTL             time.Duration
	RateProviderURL          string
	RateProviderTimeout      time.Duration
	RateProviderSuccessPath  string
	RateProviderSuccessValue string
	RateProviderRatesPath    string

	// Ledger events
	EventsBackend string
	KafkaBrokers  []string
	KafkaTopic    string
	AMQPURL       string
	AMQPExchange  string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:              v.GetString("PGSQL_URL"),
		Port:                     v.GetString("PORT"),
		IsProduction:             v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:            v.GetBool("ENABLE_DB_CHECK"),
		StorageBackend:           strings.ToLower(v.GetString("STORAGE_BACKEND")),
		JWTSecret:                v.GetString("JWT_SECRET"),
		FrontendBaseURL:          v.GetString("FRONTEND_BASE_URL"),
		APIRateLimit:             v.GetString("API_RATE_LIMIT"),
		BaseCurrency:             strings.ToUpper(v.GetString("BASE_CURRENCY")),
		RateProviderURL:          v.GetString("RATE_PROVIDER_URL"),
		RateProviderSuccessPath:  v.GetString("RATE_PROVIDER_SUCCESS_PATH"),
		RateProviderSuccessValue: v.GetString("RATE_PROVIDER_SUCCESS_VALUE"),
		RateProviderRatesPath:    v.GetString("RATE_PROVIDER_RATES_PATH"),
		EventsBackend:            strings.ToLower(v.GetString("EVENTS_BACKEND")),
		KafkaTopic:               v.GetString("KAFKA_TOPIC"),
		AMQPURL:                  v.GetString("AMQP_URL"),
		AMQPExchange:             v.GetString("AMQP_EXCHANGE"),
	}

	var err error
	if cfg.RateCacheTTL, err = time.ParseDuration(v.GetString("RATE_CACHE_TTL")); err != nil {
		return nil, fmt.Errorf("invalid RATE_CACHE_TTL: %w", err)
	}
	if cfg.RateProviderTimeout, err = time.ParseDuration(v.GetString("RATE_PROVIDER_TIMEOUT")); err != nil {
		return nil, fmt.Errorf("invalid RATE_PROVIDER_TIMEOUT: %w", err)
	}

	for _, broker := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
		}
	}

	if cfg.JWTSecret == defaultJWTSecret {
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.StorageBackend == StorageBackendPostgres && cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set.")
	}
	if cfg.RateProviderURL == "" {
		slog.Warn("RATE_PROVIDER_URL not set. Exchange rates will come from the cache or the static table.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORAGE_BACKEND", StorageBackendPostgres)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("API_RATE_LIMIT", "300-M")
	v.SetDefault("BASE_CURRENCY", "USD")
	v.SetDefault("RATE_CACHE_TTL", "1h")
	v.SetDefault("RATE_PROVIDER_URL", "")
	v.SetDefault("RATE_PROVIDER_TIMEOUT", "10s")
	v.SetDefault("RATE_PROVIDER_SUCCESS_PATH", "$.result")
	v.SetDefault("RATE_PROVIDER_SUCCESS_VALUE", "success")
	v.SetDefault("RATE_PROVIDER_RATES_PATH", "$.rates")
	v.SetDefault("EVENTS_BACKEND", EventsBackendNone)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "ledger-events")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "ledger-events")
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendPostgres, StorageBackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.EventsBackend {
	case EventsBackendNone:
	case EventsBackendKafka:
		if len(c.KafkaBrokers) == 0 || c.KafkaTopic == "" {
			return fmt.Errorf("EVENTS_BACKEND=kafka requires KAFKA_BROKERS and KAFKA_TOPIC")
		}
	case EventsBackendAMQP:
		if c.AMQPURL == "" || c.AMQPExchange == "" {
			return fmt.Errorf("EVENTS_BACKEND=amqp requires AMQP_URL and AMQP_EXCHANGE")
		}
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend)
	}

	if c.RateCacheTTL <= 0 {
		return fmt.Errorf("RATE_CACHE_TTL must be positive, got %s", c.RateCacheTTL)
	}
	if c.RateProviderTimeout <= 0 {
		return fmt.Errorf("RATE_PROVIDER_TIMEOUT must be positive, got %s", c.RateProviderTimeout)
	}
	if len(c.BaseCurrency) != 3 {
		return fmt.Errorf("BASE_CURRENCY must be a three-letter code, got %q", c.BaseCurrency)
	}
	return nil
}
