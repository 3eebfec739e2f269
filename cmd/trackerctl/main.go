// Command trackerctl runs operator tasks against the finance tracker storage:
// schema migrations, scheduled recurring processing and forced rate refreshes.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&migrateCmd{}, "storage")
	commander.Register(&processRecurringCmd{logger: logger}, "ledger")
	commander.Register(&refreshRatesCmd{logger: logger}, "rates")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
