package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"cashlens/internal/cli"
	"cashlens/internal/config"
	applog "cashlens/internal/log"
	"cashlens/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "cashlens",
	Short: "Expense ledger with derived spending views",
	Long: `Cashlens keeps a single-user expense ledger and derives the views
built on top of it:

  - income / expenses / balance summary
  - filtered and sorted expense lists
  - per-category spending report with percentages

State lives in a local backend (in-memory or SQLite) and the same ledger
is reachable from these subcommands and from the HTTP API (see "serve").`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the environment, configuration and logger shared by
// every subcommand.
func setup() (*config.Config, *applog.Logger, error) {
	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := cli.SetupLogger(cfg.LogLevel)
	return cfg, logger, nil
}

// openService builds the ledger service on the configured backend.
// The returned cleanup must run before the command exits.
func openService(ctx context.Context) (*services.LedgerService, *config.Config, func() error, error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, nil, nil, err
	}
	svc, cleanup, err := cli.OpenLedgerService(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, cfg, cleanup, nil
}
