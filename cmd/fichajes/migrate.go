package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/controlfichajes/fichajes-backend-go/internal/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if migrateRollback {
		if err := migrations.Down(cmd.Context(), db); err != nil {
			return err
		}
		slog.Info("rolled back latest migration")
		return nil
	}

	if err := migrations.Up(cmd.Context(), db); err != nil {
		return err
	}
	slog.Info("migrations applied")
	return nil
}
