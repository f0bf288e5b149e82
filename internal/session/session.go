package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/lifecycle"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/notify"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/pagination"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/realtime"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/search"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/xref"
)

type Notifier interface {
	Notify(ctx context.Context, n notify.Notification)
}

const (
	DefaultRetryDelay    = time.Second
	DefaultMaxRetryDelay = 30 * time.Second
)

var ErrStreamStopped = errors.New("realtime stream stopped during start")

type Config struct {
	PageSize       int
	SearchDebounce time.Duration
	Lanes          int
	StuckAfter     time.Duration
	// RetryDelay is the first wait of Run after a failure, MaxRetryDelay the longest.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// Session owns one set of stores and everything that feeds them. It is created
// when an operator session starts and torn down by Close.
type Session struct {
	log      *zap.Logger
	backend  backend.Backend
	notifier Notifier
	policy   Policy
	machine  *lifecycle.Machine
	now      func() time.Time
	retry    time.Duration
	maxRetry time.Duration

	orders    *cache.Store[*entity.Order]
	clients   *cache.Store[*entity.Client]
	stores    *cache.Store[*entity.Store]
	shipments *cache.Store[*entity.Shipment]

	orderPages    *pagination.Controller[*entity.Order]
	clientPages   *pagination.Controller[*entity.Client]
	storePages    *pagination.Controller[*entity.Store]
	shipmentPages *pagination.Controller[*entity.Shipment]

	orderSearch  *search.Overlay[*entity.Order]
	clientSearch *search.Overlay[*entity.Client]

	mux      *realtime.Multiplexer
	resolver *xref.Resolver
	locks    orderLocks

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	ready  atomic.Bool
}

type Option func(*Session)

func WithMachine(m *lifecycle.Machine) Option {
	return func(s *Session) {
		s.machine = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func New(
	b backend.Backend,
	feed backend.Feed,
	notifier Notifier,
	policy Policy,
	cfg Config,
	logger *zap.Logger,
	opts ...Option,
) *Session {
	s := &Session{
		log:      logger.With(zap.String("component", "session")),
		backend:  b,
		notifier: notifier,
		policy:   policy,
		now:      time.Now,
		retry:    cfg.RetryDelay,
		maxRetry: cfg.MaxRetryDelay,
	}
	if s.retry <= 0 {
		s.retry = DefaultRetryDelay
	}
	if s.maxRetry < s.retry {
		s.maxRetry = max(DefaultMaxRetryDelay, s.retry)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.machine == nil {
		s.machine = lifecycle.New(lifecycle.WithClock(s.now), lifecycle.WithStuckAfter(cfg.StuckAfter))
	}

	s.orders = cache.NewStore[*entity.Order](entity.KindOrder, logger)
	s.clients = cache.NewStore[*entity.Client](entity.KindClient, logger)
	s.stores = cache.NewStore[*entity.Store](entity.KindStore, logger)
	s.shipments = cache.NewStore[*entity.Shipment](entity.KindShipment, logger)

	s.resolver = xref.New(b, s.clients, s.stores, s.shipments, logger)

	s.orderPages = pagination.New(s.orders, b, mapper.Orders, cfg.PageSize, logger)
	s.clientPages = pagination.New(s.clients, b, mapper.Clients, cfg.PageSize, logger)
	s.storePages = pagination.New(s.stores, b, mapper.Stores, cfg.PageSize, logger)
	s.shipmentPages = pagination.New(s.shipments, b, mapper.Shipments, cfg.PageSize, logger)
	s.orderPages.OnLoaded(s.resolveAll)

	s.orderSearch = search.New(s.orders, b, mapper.Orders, cfg.SearchDebounce, logger)
	s.clientSearch = search.New(s.clients, b, mapper.Clients, cfg.SearchDebounce, logger)
	s.orderSearch.OnResult(s.resolveAll)

	s.mux = realtime.New(feed, logger, realtime.WithLanes(cfg.Lanes), realtime.WithErrorHandler(s.onEventError))

	orderBinding := realtime.Bind(s.orders, b, mapper.Orders, logger)
	orderBinding.OnInsert(s.onOrderInserted)
	s.mux.Register(entity.KindOrder, orderBinding)
	s.mux.Register(entity.KindClient, realtime.Bind(s.clients, b, mapper.Clients, logger))
	s.mux.Register(entity.KindStore, realtime.Bind(s.stores, b, mapper.Stores, logger))
	s.mux.Register(entity.KindShipment, realtime.Bind(s.shipments, b, mapper.Shipments, logger))

	return s
}

// Start subscribes to the change feed and loads the first page of every store.
// A failed start leaves nothing running and may be retried. The session runs
// until ctx is done, Close is called or the feed closes.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return realtime.ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	stopped, err := s.mux.Start(runCtx)
	if err != nil {
		s.mu.Unlock()
		cancel()
		s.log.Warn("Realtime subscription failed", zap.Error(err))
		return fmt.Errorf("realtime: %w", err)
	}
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	go func() {
		if err := <-stopped; err != nil {
			s.log.Error("Realtime stream stopped", zap.Error(err))
		} else if runCtx.Err() == nil {
			s.log.Warn("Realtime stream ended")
		}
		s.mu.Lock()
		if s.done == done {
			s.ready.Store(false)
		}
		close(done)
		s.mu.Unlock()
	}()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return s.orderPages.Reload(gctx) })
	g.Go(func() error { return s.clientPages.Reload(gctx) })
	g.Go(func() error { return s.storePages.Reload(gctx) })
	g.Go(func() error { return s.shipmentPages.Reload(gctx) })
	if err := g.Wait(); err != nil {
		s.stop()
		if ctx.Err() == nil {
			s.surface(ctx, "initial load", err)
		}
		return fmt.Errorf("initial load: %w", err)
	}

	s.mu.Lock()
	current := s.done == done
	select {
	case <-done:
		current = false
	default:
	}
	if current {
		s.ready.Store(true)
	}
	s.mu.Unlock()
	if !current {
		s.stop()
		return ErrStreamStopped
	}

	s.log.Info("Session started",
		zap.Int("orders", s.orders.Len()),
		zap.Int("clients", s.clients.Len()),
		zap.Int("stores", s.stores.Len()),
		zap.Int("shipments", s.shipments.Len()),
	)
	return nil
}

// Run keeps the session started until ctx is done. A failed start is retried
// and a stream that stops is started again, waiting twice as long after every
// consecutive failure.
func (s *Session) Run(ctx context.Context) {
	delay := s.retry
	for {
		if err := s.Start(ctx); err == nil {
			delay = s.retry
			select {
			case <-ctx.Done():
				s.stop()
				return
			case <-s.Stopped():
				s.log.Warn("Session stream stopped, starting again")
				s.stop()
			}
		} else if ctx.Err() == nil {
			s.log.Error("Session start failed", zap.Error(err), zap.Duration("retry_in", delay))
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		delay = min(delay*2, s.maxRetry)
	}
}

// Stopped is closed when the realtime stream of the current run stops. It is
// nil while the session is not started.
func (s *Session) Stopped() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Close stops the realtime stream and waits for it. Stores stay readable.
func (s *Session) Close() {
	s.orderSearch.Deactivate()
	s.clientSearch.Deactivate()
	if s.stop() {
		s.log.Info("Session closed")
	}
}

// stop cancels the current run and waits for its stream. It reports whether
// a run was there to stop.
func (s *Session) stop() bool {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.ready.Store(false)
	s.mu.Unlock()
	if cancel == nil {
		return false
	}

	cancel()
	<-done
	return true
}

// Ready reports whether the initial load finished and the stream is running.
func (s *Session) Ready() bool {
	return s.ready.Load()
}

func (s *Session) Orders() *cache.Store[*entity.Order] {
	return s.orders
}

func (s *Session) Clients() *cache.Store[*entity.Client] {
	return s.clients
}

func (s *Session) Stores() *cache.Store[*entity.Store] {
	return s.stores
}

func (s *Session) Shipments() *cache.Store[*entity.Shipment] {
	return s.shipments
}

func (s *Session) resolveAll(ctx context.Context, orders []*entity.Order) error {
	return s.resolver.Resolve(ctx, orders...)
}

func (s *Session) onOrderInserted(ctx context.Context, o *entity.Order) error {
	err := s.resolver.ResolveOne(ctx, o)
	s.notifier.Notify(ctx, notify.Notification{
		At:       s.now().UTC(),
		Type:     notify.TypeNewOrder,
		Kind:     entity.KindOrder,
		EntityID: o.ID,
		Message:  fmt.Sprintf("new order #%d: %s", o.DisplayID, o.ProductName),
	})
	return err
}

func (s *Session) onEventError(ctx context.Context, ev backend.ChangeEvent, err error) {
	if !backend.IsTransient(err) {
		return
	}
	s.notifier.Notify(ctx, notify.Notification{
		At:       s.now().UTC(),
		Type:     notify.TypeFetchFailure,
		Kind:     ev.Kind,
		EntityID: ev.ID,
		Message:  fmt.Sprintf("could not refresh %s %s: %v", ev.Kind, ev.ID, err),
	})
}

// surface turns a transient failure into a non-blocking notification.
func (s *Session) surface(ctx context.Context, op string, err error) {
	var te *backend.TransientError
	if !errors.As(err, &te) {
		return
	}
	s.notifier.Notify(context.WithoutCancel(ctx), notify.Notification{
		At:      s.now().UTC(),
		Type:    notify.TypeFetchFailure,
		Kind:    te.Kind,
		Message: fmt.Sprintf("%s failed, retry later: %v", op, err),
	})
}
