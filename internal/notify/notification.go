package notify

import (
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/metrics"
)

type Type string

const (
	TypeNewOrder     Type = "new_order"
	TypeFetchFailure Type = "fetch_failure"
	TypeCommand      Type = "command"
)

type Notification struct {
	At       time.Time   `json:"at"`
	Type     Type        `json:"type"`
	Kind     entity.Kind `json:"kind,omitempty"`
	EntityID string      `json:"entity_id,omitempty"`
	Actor    string      `json:"actor,omitempty"`
	Message  string      `json:"message"`
}

// Sink receives batches of notifications. Worker is -1 for batches delivered
// directly when the workers are saturated or stopped.
type Sink interface {
	Deliver(worker int, batch []Notification)
}

type SinkFunc func(worker int, batch []Notification)

func (f SinkFunc) Deliver(worker int, batch []Notification) {
	f(worker, batch)
}

// LogSink writes notifications to the log. The visual layer tails it.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{log: logger.With(zap.String("component", "notify"))}
}

func (s *LogSink) Deliver(worker int, batch []Notification) {
	for _, n := range batch {
		metrics.NotificationsTotal.WithLabelValues(string(n.Type)).Inc()
		s.log.Info(n.Message,
			zap.Int("worker", worker),
			zap.String("type", string(n.Type)),
			zap.String("kind", string(n.Kind)),
			zap.String("entity_id", n.EntityID),
			zap.String("actor", n.Actor),
			zap.Time("at", n.At),
		)
	}
}
