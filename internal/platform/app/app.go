// Package app assembles storage, outbound adapters and services from configuration.
// Both the HTTP server and the operator CLI start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_tracker/internal/adapters/events"
	"github.com/SscSPs/finance_tracker/internal/adapters/rateprovider"
	"github.com/SscSPs/finance_tracker/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/pgsql"
	"github.com/SscSPs/finance_tracker/internal/repositories/memory"
	"github.com/SscSPs/finance_tracker/pkg/database"
)

// App is a fully wired service container plus whatever must be released on shutdown.
type App struct {
	Services *portssvc.ServiceContainer
	closers  []func()
}

// Close releases the publisher and the database pool, in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// New builds the application. runMigrations applies pending schema migrations first
// when the postgres backend is selected.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, runMigrations bool) (*App, error) {
	a := &App{}

	repos, err := a.newRepositories(ctx, cfg, logger, runMigrations)
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher, err := NewPublisher(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", slog.String("error", err.Error()))
		}
	})

	a.Services = services.NewServiceContainer(repos, services.ContainerDeps{
		RateProvider: NewRateProvider(cfg),
		Publisher:    publisher,
		BaseCurrency: cfg.BaseCurrency,
		RateCacheTTL: cfg.RateCacheTTL,
		Clock:        func() time.Time { return time.Now().UTC() },
	})
	return a, nil
}

func (a *App) newRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger, runMigrations bool) (portsrepo.RepositoryProvider, error) {
	if cfg.StorageBackend == config.StorageBackendMemory {
		logger.Warn("Using in-memory storage; data is lost on exit")
		return memory.NewRepositoryProvider(memory.NewStore()), nil
	}

	if runMigrations {
		logger.Info("Running database migrations...")
		changed, err := database.RunMigrations(cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("apply migrations: %w", err)
		}
		if changed {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, fmt.Errorf("initialize database pool: %w", err)
	}
	a.closers = append(a.closers, func() { database.ClosePgxPool(pool) })
	logger.Info("Database connection pool established.")

	return pgsql.NewRepositoryProvider(pool), nil
}

// NewPublisher picks the ledger event publisher for EVENTS_BACKEND.
func NewPublisher(cfg *config.Config) (gateways.EventPublisher, error) {
	switch cfg.EventsBackend {
	case config.EventsBackendKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.EventsBackendAMQP:
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, fmt.Errorf("connect AMQP publisher: %w", err)
		}
		return p, nil
	default:
		return events.NoopPublisher{}, nil
	}
}

// NewRateProvider returns nil when no provider URL is configured; the rate cache then
// serves cached or static rates only.
func NewRateProvider(cfg *config.Config) gateways.RateProvider {
	if cfg.RateProviderURL == "" {
		return nil
	}
	return rateprovider.NewHTTPRateProvider(rateprovider.Config{
		URL:          cfg.RateProviderURL,
		Timeout:      cfg.RateProviderTimeout,
		SuccessPath:  cfg.RateProviderSuccessPath,
		SuccessValue: cfg.RateProviderSuccessValue,
		RatesPath:    cfg.RateProviderRatesPath,
		BasePath:     "$.base_code",
		BaseCurrency: cfg.BaseCurrency,
	}, nil)
}
