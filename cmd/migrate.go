package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository/postgresql"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the schema and make sure the admin operator exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		skipAdmin, _ := cmd.Flags().GetBool("skip-admin")

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		database, err := db.NewDb(ctx, cfg.DB.DSN())
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.Migrate(ctx, database); err != nil {
			return err
		}
		log.Info("Schema applied")

		if skipAdmin {
			return nil
		}
		if cfg.AdminPassword == "" {
			return fmt.Errorf("ADMIN_PASSWORD is empty, refusing to create %q", cfg.AdminUsername)
		}
		created, err := postgresql.NewUserRepo(database).EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("ensuring admin: %w", err)
		}
		log.Info("Admin operator ready", zap.String("username", cfg.AdminUsername), zap.Bool("created", created))
		return nil
	},
}
