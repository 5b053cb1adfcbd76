package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/mediavault-server/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Close()

			if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			log.Info("migrations applied")
			return nil
		},
	}
}
