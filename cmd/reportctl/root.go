package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/daily-report-service/internal/config"
	"github.com/spec-kit/daily-report-service/internal/observability"
	"github.com/spec-kit/daily-report-service/internal/persistence"
)

// NewRootCmd creates the root command for the admin CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reportctl",
		Short:         "Administer the daily report service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewHashPasswordCmd())

	return cmd
}

// connect loads configuration and opens the database pool. The caller closes the pool.
func connect(ctx context.Context) (*config.Config, *zap.Logger, *persistence.Postgres, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, nil, oops.Code("LOGGER_INIT_FAILED").Wrap(err)
	}

	if cfg.Postgres.DSN == "" {
		return nil, nil, nil, oops.Code("CONFIG_INVALID").Errorf("POSTGRES_DSN environment variable is required")
	}
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, nil, nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	return cfg, logger, pg, nil
}
