package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	pgbackend "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend/kafkafeed"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/grpcserver"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/notify"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the operator session with its HTTP and gRPC health endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		consoleProducer, _ := cmd.Flags().GetBool("console-producer")
		httpPort, _ := cmd.Flags().GetString("http-port")

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		if httpPort != "" {
			cfg.HTTPPort = httpPort
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return serve(ctx, cfg, consoleProducer, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, consoleProducer bool, log *zap.Logger) error {
	database, err := db.NewDb(ctx, cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer database.Close()

	outboxRepo := postgresql.NewOutboxTaskRepo()
	userRepo := postgresql.NewUserRepo(database)

	var producer kafka.Producer
	if consoleProducer {
		producer = kafka.NewConsoleProducer(log)
	} else {
		producer = kafka.NewWriterProducer(cfg.Kafka.Brokers, log)
	}
	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
		MaxAttempts:  cfg.Outbox.MaxAttempts,
	}, log)

	store := pgbackend.New(database, outboxRepo, cfg.Kafka.ChangesTopic, cfg.SearchLimit, log)
	feed := kafkafeed.New(cfg.Kafka.Brokers, cfg.Kafka.ChangesTopic, cfg.Kafka.GroupPrefix, log)

	notifier := notify.NewDispatcher(notify.NewLogSink(log), cfg.Notify.Workers, cfg.Notify.BatchSize, cfg.Notify.Flush, log)
	notifier.Start(ctx)

	sess := session.New(store, feed, notifier, session.AdminPolicy(cfg.AdminUsername), session.Config{
		PageSize:       cfg.PageSize,
		SearchDebounce: cfg.SearchDebounce,
		Lanes:          cfg.RealtimeLanes,
		StuckAfter:     cfg.StuckAfter,
	}, log)

	srv := server.New(sess, userRepo, log)
	health := grpcserver.NewServer(sess, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		publisher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return srv.Run(cfg.HTTPPort)
	})
	g.Go(func() error {
		return health.Run(gctx, cfg.GRPCPort)
	})
	g.Go(func() error {
		sess.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", zap.Error(err))
		}
		health.Shutdown()
		sess.Close()
		publisher.Shutdown()
		notifier.Shutdown(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Server gracefully stopped")
	return nil
}
