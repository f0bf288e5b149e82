package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Back-office order service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)

	serveCmd.Flags().Bool("console-producer", false, "log change events instead of sending them to kafka")
	serveCmd.Flags().String("http-port", "", "override HTTP_PORT")
	migrateCmd.Flags().Bool("skip-admin", false, "do not create the admin operator")
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, source, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(cfg.LogLevel)
	if source != "" {
		log.Info("Loaded environment file", zap.String("path", source))
	}
	return cfg, log, nil
}
