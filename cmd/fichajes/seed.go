package main

import (
	"fmt"
	"log/slog"

	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/database"
	"github.com/controlfichajes/fichajes-backend-go/internal/repository/postgresql"
	"github.com/controlfichajes/fichajes-backend-go/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo admin and employee accounts",
	Long:  `Insert admin@demo.local and empleado1@demo.local when they do not exist yet.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.NewPostgreSQLDB(cmd.Context(), cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		created, err := seed.Run(cmd.Context(), postgresql.NewUserRepository(db), seed.DemoAccounts)
		if err != nil {
			return err
		}
		slog.Info("seed completed", "created", created)
		return nil
	},
}
