package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/folio/internal/db"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			applied, err := db.AppliedMigrations(cmd.Context(), database.DB)
			if err != nil {
				return fmt.Errorf("list migrations: %w", err)
			}
			for _, version := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			}
			return nil
		},
	}
}
