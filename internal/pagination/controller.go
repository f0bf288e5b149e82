package pagination

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/metrics"
)

const DefaultPageSize = 30

// LoadedHook runs after a page has been merged into the store.
type LoadedHook[T any] func(ctx context.Context, loaded []T) error

// Controller owns the pagination cursor of one store.
type Controller[T entity.Entity[T]] struct {
	log   *zap.Logger
	store *cache.Store[T]
	pager backend.Pager
	codec mapper.Codec[T]
	size  int
	hooks []LoadedHook[T]

	flight singleflight.Group
	// serializes Reload against LoadNext so the cursor only moves one way at a time
	loadMu sync.Mutex

	mu        sync.Mutex
	next      int
	exhausted bool
}

func New[T entity.Entity[T]](
	store *cache.Store[T],
	pager backend.Pager,
	codec mapper.Codec[T],
	size int,
	logger *zap.Logger,
) *Controller[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Controller[T]{
		log:   logger.With(zap.String("component", "pagination"), zap.String("kind", string(store.Kind()))),
		store: store,
		pager: pager,
		codec: codec,
		size:  size,
	}
}

// OnLoaded registers h. Must be called before the first load.
func (c *Controller[T]) OnLoaded(h LoadedHook[T]) {
	c.hooks = append(c.hooks, h)
}

// LoadNext fetches the page under the cursor and appends it to the window.
// It is a no-op once the window is exhausted; concurrent calls share one request.
// It reports how many entities the page carried.
func (c *Controller[T]) LoadNext(ctx context.Context) (int, error) {
	v, err, shared := c.flight.Do("next", func() (any, error) {
		c.loadMu.Lock()
		defer c.loadMu.Unlock()

		c.mu.Lock()
		page, done := c.next, c.exhausted
		c.mu.Unlock()
		if done {
			return 0, nil
		}
		return c.load(ctx, page)
	})
	if shared {
		c.log.Debug("Pagination: joined in-flight load")
	}
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// Reload drops the cursor and loads the first page again. Entities inserted at
// the head by realtime events after the request was issued stay on top.
func (c *Controller[T]) Reload(ctx context.Context) error {
	_, err, _ := c.flight.Do("reload", func() (any, error) {
		c.loadMu.Lock()
		defer c.loadMu.Unlock()
		return c.load(ctx, 0)
	})
	return err
}

// Cursor reports the next page index and whether the window is exhausted.
func (c *Controller[T]) Cursor() (next int, exhausted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next, c.exhausted
}

func (c *Controller[T]) PageSize() int {
	return c.size
}

func (c *Controller[T]) load(ctx context.Context, page int) (int, error) {
	kind := c.store.Kind()
	mark := c.store.Mark()
	defer c.store.Release(mark)

	start := time.Now()
	rows, isLast, err := c.pager.FetchPage(ctx, kind, page, c.size)
	metrics.FetchDuration.WithLabelValues("fetch_page").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues("fetch_page").Inc()
		c.log.Warn("Pagination: fetch failed", zap.Int("page", page), zap.Error(err))
		return 0, backend.Transient("fetch page", kind, err)
	}

	loaded, err := mapper.ToDomainAll(c.codec, rows)
	if err != nil {
		c.log.Error("Pagination: page violates row contract", zap.Int("page", page), zap.Error(err))
		return 0, err
	}

	if page == 0 {
		c.store.ResetPage(mark, loaded)
	} else {
		c.store.AppendPage(mark, loaded)
	}

	c.mu.Lock()
	c.next = page + 1
	c.exhausted = isLast || len(rows) < c.size
	exhausted := c.exhausted
	c.mu.Unlock()

	metrics.PageLoadsTotal.WithLabelValues(string(kind)).Inc()
	c.log.Debug("Pagination: page loaded",
		zap.Int("page", page),
		zap.Int("rows", len(rows)),
		zap.Bool("exhausted", exhausted),
	)

	for _, h := range c.hooks {
		if err := h(ctx, loaded); err != nil {
			c.log.Warn("Pagination: post-load hook failed", zap.Error(err))
		}
	}
	return len(loaded), nil
}
