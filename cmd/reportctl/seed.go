package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/spec-kit/daily-report-service/internal/repository"
	"github.com/spec-kit/daily-report-service/internal/seed"
)

const defaultSeedTimeout = 30 * time.Second

type seedConfig struct {
	file    string
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the initial sales accounts",
		Long: `Creates the accounts listed in the seed file.
Accounts whose email already exists are skipped, so the command can be rerun.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "seed/accounts.yaml", "accounts file")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations")

	return cmd
}

func runSeed(cmd *cobra.Command, cfg *seedConfig) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	_, logger, pg, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pg.Close()
	defer logger.Sync() //nolint:errcheck

	result, err := seed.FromFile(ctx, repository.NewSalesRepository(pg.PoolHandle()), cfg.file, logger)
	if err != nil {
		return oops.Code("SEED_FAILED").With("file", cfg.file).Wrap(err)
	}

	cmd.Printf("Seed complete: %d created, %d skipped\n", result.Created, result.Skipped)
	return nil
}
