package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/spec-kit/daily-report-service/internal/persistence"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL migrations",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, logger, pg, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pg.Close()
	defer logger.Sync() //nolint:errcheck

	cmd.Println("Running migrations...")
	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
		return oops.Code("MIGRATION_FAILED").With("dir", cfg.Postgres.MigrationsDir).Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
