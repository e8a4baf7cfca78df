package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/controlfichajes/fichajes-backend-go/internal/config"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fichajes",
	Short: "Control de Fichajes",
	Long:  `Employee clock-in/out, incident requests and user administration API.`,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the process-wide logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)
	return cfg, log, nil
}
