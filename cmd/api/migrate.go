package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/practice-dashboard/internal/config"
	"github.com/jwalitptl/practice-dashboard/internal/repository/postgres"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(migrateStep("up", "Apply every pending migration", postgres.RunMigrations))
	cmd.AddCommand(migrateStep("down", "Roll back the most recent migration", postgres.RollbackMigration))
	cmd.AddCommand(migrateStep("status", "Print the state of each migration", postgres.MigrationStatus))

	return cmd
}

func migrateStep(use, short string, run func(context.Context, *sqlx.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDB(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := run(ctx, db); err != nil {
				return err
			}
			log.Info().Str("step", use).Msg("migration finished")
			return nil
		},
	}
}

func openDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	return postgres.NewDB(ctx, postgres.Config{
		URL:             cfg.URL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
}
