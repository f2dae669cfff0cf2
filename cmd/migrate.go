package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-CleaningBooking/internal/migrate"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			ctx := context.Background()
			db, err := openDB(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := migrate.Up(ctx, db, log)
			if err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}
}
