package main

import (
	"github.com/spf13/cobra"

	"github.com/yukikurage/promptvault-api/internal/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, appLogger, err := bootstrap()
			if err != nil {
				return err
			}
			defer appLogger.Sync() //nolint:errcheck

			db, err := database.Connect(cfg.Database, appLogger)
			if err != nil {
				return err
			}
			defer database.Close(db, appLogger)

			return database.Migrate(db, appLogger)
		},
	}
}
