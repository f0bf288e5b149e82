package kafkafeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
)

const (
	defaultBuffer     = 256
	defaultRetryDelay = 5 * time.Second
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type ReaderFactory func(cfg kafka.ReaderConfig) MessageReader

// Feed is the change stream read from the change topic. Every subscription
// joins its own consumer group starting at the newest offset, so each session
// sees every change published after it subscribed.
type Feed struct {
	brokers     []string
	topic       string
	groupPrefix string
	log         *zap.Logger
	newReader   ReaderFactory
	retryDelay  time.Duration
	buffer      int
}

type Option func(*Feed)

func WithReaderFactory(f ReaderFactory) Option {
	return func(feed *Feed) {
		feed.newReader = f
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(feed *Feed) {
		feed.retryDelay = d
	}
}

func New(brokers []string, topic, groupPrefix string, logger *zap.Logger, opts ...Option) *Feed {
	f := &Feed{
		brokers:     brokers,
		topic:       topic,
		groupPrefix: groupPrefix,
		log:         logger.With(zap.String("component", "kafka-feed"), zap.String("topic", topic)),
		newReader: func(cfg kafka.ReaderConfig) MessageReader {
			return kafka.NewReader(cfg)
		},
		retryDelay: defaultRetryDelay,
		buffer:     defaultBuffer,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Feed) Subscribe(ctx context.Context, kinds []entity.Kind) (<-chan backend.ChangeEvent, error) {
	if len(f.brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	if f.topic == "" {
		return nil, errors.New("no change topic configured")
	}

	groupID := fmt.Sprintf("%s-%s", f.groupPrefix, uuid.NewString())
	r := f.newReader(kafka.ReaderConfig{
		Brokers:        f.brokers,
		GroupID:        groupID,
		Topic:          f.topic,
		StartOffset:    kafka.LastOffset,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        500 * time.Millisecond,
	})

	out := make(chan backend.ChangeEvent, f.buffer)
	go f.consume(ctx, r, kinds, out)

	f.log.Info("Subscribed to change feed", zap.String("group_id", groupID), zap.Int("kinds", len(kinds)))
	return out, nil
}

func (f *Feed) consume(ctx context.Context, r MessageReader, kinds []entity.Kind, out chan<- backend.ChangeEvent) {
	defer close(out)
	defer func() {
		if err := r.Close(); err != nil {
			f.log.Warn("Error closing Kafka reader", zap.Error(err))
		}
	}()

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			f.log.Warn("Error reading message", zap.Error(err))
			select {
			case <-time.After(f.retryDelay):
				continue
			case <-ctx.Done():
				return
			}
		}

		ev, err := Decode(m.Value)
		if err != nil {
			f.log.Warn("Skipping undecodable change event",
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
			continue
		}
		if len(kinds) > 0 && !slices.Contains(kinds, ev.Kind) {
			continue
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Decode parses a change event published by the outbox publisher.
func Decode(value []byte) (backend.ChangeEvent, error) {
	var ev backend.ChangeEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return backend.ChangeEvent{}, fmt.Errorf("decoding change event: %w", err)
	}
	if !ev.Kind.Valid() || !ev.Operation.Valid() || ev.ID == "" {
		return backend.ChangeEvent{}, fmt.Errorf("invalid change event %+v", ev)
	}
	return ev, nil
}
