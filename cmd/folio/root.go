package main

import (
	"github.com/spf13/cobra"
	"github.com/vytor/folio/internal/config"
	"github.com/vytor/folio/internal/logger"
)

// commandContext carries the settings shared by every subcommand.
type commandContext struct {
	dbFlag string
	cfg    *config.Config
}

// ensureConfig loads and validates configuration once, applying flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg := config.Load()
	if c.dbFlag != "" {
		cfg.DBPath = c.dbFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.SetDefault(logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(!cfg.LogJSON),
		logger.WithJSON(cfg.LogJSON),
	))
	c.cfg = &cfg
	return c.cfg, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "folio",
		Short:         "Flashcard and context reading server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.dbFlag, "db", "", "SQLite database path (overrides DB_PATH)")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))
	return rootCmd
}
