package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/daily-report-service/internal/auth"
)

// NewHashPasswordCmd creates the hash-password subcommand.
func NewHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strength := auth.ValidatePasswordStrength(args[0]); !strength.Valid {
				for _, msg := range strength.Errors {
					cmd.PrintErrln("warning:", msg)
				}
			}
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			cmd.Println(hash)
			return nil
		},
	}
}
