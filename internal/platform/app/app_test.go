package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/adapters/events"
	"github.com/SscSPs/finance_tracker/internal/adapters/rateprovider"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StorageBackend:      config.StorageBackendMemory,
		EventsBackend:       config.EventsBackendNone,
		BaseCurrency:        "USD",
		RateCacheTTL:        time.Hour,
		RateProviderTimeout: time.Second,
	}
}

func TestNew_MemoryBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := New(context.Background(), memoryConfig(), logger, true)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Services)
	assert.NotNil(t, a.Services.Ledger)
	assert.NotNil(t, a.Services.Recurring)

	snapshot := a.Services.CurrencyRate.GetRates(context.Background())
	assert.Equal(t, "USD", snapshot.BaseCurrency)
}

func TestNewRateProvider(t *testing.T) {
	cfg := memoryConfig()
	assert.Nil(t, NewRateProvider(cfg))

	cfg.RateProviderURL = "http://rates.invalid/latest"
	_, ok := NewRateProvider(cfg).(*rateprovider.HTTPRateProvider)
	assert.True(t, ok)
}

func TestNewPublisher(t *testing.T) {
	cfg := memoryConfig()
	p, err := NewPublisher(cfg)
	require.NoError(t, err)
	assert.IsType(t, events.NoopPublisher{}, p)

	cfg.EventsBackend = config.EventsBackendKafka
	cfg.KafkaBrokers = []string{"localhost:9092"}
	cfg.KafkaTopic = "ledger-events"
	p, err = NewPublisher(cfg)
	require.NoError(t, err)
	assert.IsType(t, &events.KafkaPublisher{}, p)
	assert.NoError(t, p.Close())
}
