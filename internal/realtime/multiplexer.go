package realtime

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/metrics"
)

const (
	DefaultLanes = 8
	laneBuffer   = 64
)

var (
	ErrAlreadyRunning = errors.New("multiplexer is already running")
	ErrMalformedEvent = errors.New("malformed change event")
)

// Target applies change events of one entity kind.
type Target interface {
	Apply(ctx context.Context, ev backend.ChangeEvent) error
}

type ErrorHandler func(ctx context.Context, ev backend.ChangeEvent, err error)

// Multiplexer reads the single change stream of a session and routes every
// event to the target registered for its kind. Events are spread over lanes by
// kind and identifier: one lane applies its events in arrival order, lanes run
// concurrently, so a slow re-fetch only holds back events for the same entity
// and whatever shares its lane.
type Multiplexer struct {
	log     *zap.Logger
	feed    backend.Feed
	lanes   int
	onError ErrorHandler

	mu      sync.RWMutex
	targets map[entity.Kind]Target
	running bool
}

type Option func(*Multiplexer)

func WithLanes(n int) Option {
	return func(m *Multiplexer) {
		if n > 0 {
			m.lanes = n
		}
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Multiplexer) {
		m.onError = h
	}
}

func New(feed backend.Feed, logger *zap.Logger, opts ...Option) *Multiplexer {
	m := &Multiplexer{
		log:     logger.With(zap.String("component", "realtime")),
		feed:    feed,
		lanes:   DefaultLanes,
		targets: make(map[entity.Kind]Target),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Multiplexer) Register(kind entity.Kind, t Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[kind] = t
}

// Kinds returns the registered kinds in a stable order.
func (m *Multiplexer) Kinds() []entity.Kind {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kinds := make([]entity.Kind, 0, len(m.targets))
	for k := range m.targets {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Run subscribes once and dispatches until ctx is done or the feed closes.
func (m *Multiplexer) Run(ctx context.Context) error {
	stopped, err := m.Start(ctx)
	if err != nil {
		return err
	}
	return <-stopped
}

// Start subscribes synchronously and dispatches in the background until ctx is
// done or the feed closes. The returned channel yields the result of the run
// once every lane has drained. A stopped multiplexer may be started again.
func (m *Multiplexer) Start(ctx context.Context) (<-chan error, error) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	m.running = true
	m.mu.Unlock()

	kinds := m.Kinds()
	events, err := m.feed.Subscribe(ctx, kinds)
	if err != nil {
		m.stop()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	m.log.Info("Realtime: subscribed", zap.Int("kinds", len(kinds)), zap.Int("lanes", m.lanes))

	stopped := make(chan error, 1)
	go func() {
		err := m.dispatchAll(ctx, events)
		m.stop()
		stopped <- err
	}()
	return stopped, nil
}

func (m *Multiplexer) stop() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

func (m *Multiplexer) dispatchAll(ctx context.Context, events <-chan backend.ChangeEvent) error {
	g, gctx := errgroup.WithContext(ctx)

	lanes := make([]chan backend.ChangeEvent, m.lanes)
	for i := range lanes {
		ch := make(chan backend.ChangeEvent, laneBuffer)
		lanes[i] = ch
		g.Go(func() error {
			for ev := range ch {
				_ = m.Dispatch(gctx, ev)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, ch := range lanes {
				close(ch)
			}
		}()
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					m.log.Info("Realtime: feed closed")
					return nil
				}
				select {
				case lanes[m.laneOf(ev)] <- ev:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	return g.Wait()
}

// Dispatch applies one event synchronously. Failures are logged and handed
// to the error handler; they never stop the stream.
func (m *Multiplexer) Dispatch(ctx context.Context, ev backend.ChangeEvent) error {
	if !ev.Kind.Valid() || !ev.Operation.Valid() || ev.ID == "" {
		m.log.Warn("Realtime: dropping malformed event",
			zap.String("kind", string(ev.Kind)),
			zap.String("operation", string(ev.Operation)),
			zap.String("entity_id", ev.ID),
		)
		return ErrMalformedEvent
	}

	m.mu.RLock()
	t, ok := m.targets[ev.Kind]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	metrics.RealtimeEventsTotal.WithLabelValues(string(ev.Kind), string(ev.Operation)).Inc()

	if err := t.Apply(ctx, ev); err != nil {
		m.log.Warn("Realtime: event not applied",
			zap.String("kind", string(ev.Kind)),
			zap.String("operation", string(ev.Operation)),
			zap.String("entity_id", ev.ID),
			zap.Error(err),
		)
		if m.onError != nil {
			m.onError(ctx, ev, err)
		}
		return err
	}
	return nil
}

func (m *Multiplexer) laneOf(ev backend.ChangeEvent) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ev.Kind))
	_, _ = h.Write([]byte{'/'})
	_, _ = h.Write([]byte(ev.ID))
	return int(h.Sum32() % uint32(m.lanes))
}
