package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend/kafkafeed"
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
	Use:   "consumer",
	Short: "Print change events from the change topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		group, _ := cmd.Flags().GetString("group")
		fromStart, _ := cmd.Flags().GetBool("from-start")

		cfg, _, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel)
		defer func() { _ = log.Sync() }()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		offset := kafka.LastOffset
		if fromStart {
			offset = kafka.FirstOffset
		}
		return tail(ctx, kafka.ReaderConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        group,
			Topic:          cfg.Kafka.ChangesTopic,
			StartOffset:    offset,
			MinBytes:       10e3,
			MaxBytes:       10e6,
			CommitInterval: time.Second,
			MaxWait:        3 * time.Second,
		}, log)
	},
}

func init() {
	rootCmd.Flags().String("group", "backoffice-change-tail", "consumer group id")
	rootCmd.Flags().Bool("from-start", false, "read the topic from the first offset")
}

func tail(ctx context.Context, cfg kafka.ReaderConfig, log *zap.Logger) error {
	r := kafka.NewReader(cfg)
	defer func() {
		log.Info("Closing Kafka reader...")
		if err := r.Close(); err != nil {
			log.Error("Error closing Kafka reader", zap.Error(err))
		}
	}()

	log.Info("Consumer connected", zap.String("topic", cfg.Topic), zap.Strings("brokers", cfg.Brokers))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Shutdown signal received, stopping consumer.")
				return nil
			}
			log.Warn("Error reading message", zap.Error(err))
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		ev, err := kafkafeed.Decode(m.Value)
		if err != nil {
			log.Warn("Undecodable message", zap.Int64("offset", m.Offset), zap.ByteString("value", m.Value), zap.Error(err))
			continue
		}
		log.Info("Change",
			zap.Time("at", m.Time),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.ByteString("key", m.Key),
			zap.String("kind", string(ev.Kind)),
			zap.String("operation", string(ev.Operation)),
			zap.String("entity_id", ev.ID),
		)
	}
}
