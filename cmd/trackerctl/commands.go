package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/platform/app"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/SscSPs/finance_tracker/pkg/database"
	"github.com/google/subcommands"
)

// --- migrateCmd ---

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "applies pending database migrations" }
func (*migrateCmd) Usage() string {
	return `migrate

Applies every pending "up" migration to the database named by PGSQL_URL.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		return subcommands.ExitFailure
	}
	if cfg.StorageBackend != config.StorageBackendPostgres {
		fmt.Fprintln(os.Stderr, "Error: migrate needs STORAGE_BACKEND=postgres")
		return subcommands.ExitUsageError
	}

	changed, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if changed {
		fmt.Println("migrations applied")
	} else {
		fmt.Println("no new migrations")
	}
	return subcommands.ExitSuccess
}

// --- processRecurringCmd ---

type processRecurringCmd struct {
	logger *slog.Logger
	userID string
}

func (*processRecurringCmd) Name() string { return "process-recurring" }
func (*processRecurringCmd) Synopsis() string {
	return "materializes due recurring transactions for one or all users"
}
func (*processRecurringCmd) Usage() string {
	return `process-recurring [-user <user_id>]

Runs one catch-up pass (at most 12 cycles per rule) for the given user, or for every user
owning a due rule. Safe to run from cron next to live traffic.
`
}
func (c *processRecurringCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.userID, "user", "", "Only process this user's rules.")
}

func (c *processRecurringCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := openApp(ctx, c.logger)
	if a == nil {
		return status
	}
	defer a.Close()

	ctx = middleware.WithLogger(ctx, c.logger)
	now := time.Now().UTC()

	userIDs := []string{c.userID}
	if c.userID == "" {
		var err error
		userIDs, err = a.Services.Recurring.ListUsersWithDueRules(ctx, now)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error listing users with due rules:", err)
			return subcommands.ExitFailure
		}
	}

	status = subcommands.ExitSuccess
	total := 0
	for _, userID := range userIDs {
		created, err := a.Services.Recurring.ProcessDueRules(ctx, userID, now)
		total += len(created)
		if err != nil {
			c.logger.Error("Recurring pass failed", slog.String("user_id", userID),
				slog.Int("materialized", len(created)), slog.String("error", err.Error()))
			status = subcommands.ExitFailure
			continue
		}
		c.logger.Info("Recurring pass done", slog.String("user_id", userID), slog.Int("materialized", len(created)))
	}
	fmt.Printf("materialized %d transaction(s) for %d user(s)\n", total, len(userIDs))
	return status
}

// --- refreshRatesCmd ---

type refreshRatesCmd struct {
	logger *slog.Logger
}

func (*refreshRatesCmd) Name() string { return "refresh-rates" }
func (*refreshRatesCmd) Synopsis() string {
	return "fetches exchange rates from the provider and caches them"
}
func (*refreshRatesCmd) Usage() string {
	return `refresh-rates

Calls the configured rate provider regardless of cache freshness and stores the result.
Fails when the provider or the cache write fails.
`
}
func (*refreshRatesCmd) SetFlags(*flag.FlagSet) {}

func (c *refreshRatesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := openApp(ctx, c.logger)
	if a == nil {
		return status
	}
	defer a.Close()

	snapshot, err := a.Services.CurrencyRate.RefreshRates(middleware.WithLogger(ctx, c.logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error refreshing rates:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("cached %d rate(s) against %s at %s\n", len(snapshot.Rates), snapshot.BaseCurrency, snapshot.UpdatedAt.Format(time.RFC3339))
	return subcommands.ExitSuccess
}

func openApp(ctx context.Context, logger *slog.Logger) (*app.App, subcommands.ExitStatus) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		return nil, subcommands.ExitFailure
	}
	a, err := app.New(ctx, cfg, logger, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return nil, subcommands.ExitFailure
	}
	return a, subcommands.ExitSuccess
}
