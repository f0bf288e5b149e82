package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/metrics"
)

const DefaultDebounce = 300 * time.Millisecond

// ErrSuperseded is returned to a caller whose query was overtaken by a newer
// Activate or by Deactivate. Its result, if any, has been discarded.
var ErrSuperseded = errors.New("search superseded")

type Hook[T any] func(ctx context.Context, found []T) error

// Overlay shows server-side search results in place of the paginated window.
// Every request takes a sequence number; only the newest one may touch the store.
type Overlay[T entity.Entity[T]] struct {
	log      *zap.Logger
	store    *cache.Store[T]
	searcher backend.Searcher
	codec    mapper.Codec[T]
	debounce time.Duration
	hooks    []Hook[T]

	seq atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	query  string
}

func New[T entity.Entity[T]](
	store *cache.Store[T],
	searcher backend.Searcher,
	codec mapper.Codec[T],
	debounce time.Duration,
	logger *zap.Logger,
) *Overlay[T] {
	if debounce < 0 {
		debounce = 0
	}
	return &Overlay[T]{
		log:      logger.With(zap.String("component", "search"), zap.String("kind", string(store.Kind()))),
		store:    store,
		searcher: searcher,
		codec:    codec,
		debounce: debounce,
	}
}

// OnResult registers h to run after a result set has been shown.
func (o *Overlay[T]) OnResult(h Hook[T]) {
	o.hooks = append(o.hooks, h)
}

// Activate waits out the debounce interval, fetches the filtered rows and swaps
// them into the visible window. A blank query deactivates the overlay instead.
// The pagination cursor is never touched.
func (o *Overlay[T]) Activate(ctx context.Context, query string) (int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		o.Deactivate()
		return 0, nil
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the sequence number and the cancel func change together, so a request
	// can only ever cancel older ones
	o.mu.Lock()
	seq := o.seq.Add(1)
	if o.cancel != nil {
		o.cancel()
	}
	o.cancel = cancel
	o.mu.Unlock()

	kind := o.store.Kind()
	log := o.log.With(zap.String("query", query), zap.Uint64("seq", seq))

	if o.debounce > 0 {
		timer := time.NewTimer(o.debounce)
		select {
		case <-timer.C:
		case <-reqCtx.Done():
			timer.Stop()
			if o.superseded(seq) {
				return 0, o.discard(log)
			}
			return 0, reqCtx.Err()
		}
	}
	if o.superseded(seq) {
		return 0, o.discard(log)
	}

	mark := o.store.Mark()
	defer o.store.Release(mark)
	start := time.Now()
	rows, err := o.searcher.FetchFiltered(reqCtx, kind, query)
	metrics.FetchDuration.WithLabelValues("fetch_filtered").Observe(time.Since(start).Seconds())
	if err != nil {
		if o.superseded(seq) {
			return 0, o.discard(log)
		}
		metrics.FetchErrorsTotal.WithLabelValues("fetch_filtered").Inc()
		metrics.SearchesTotal.WithLabelValues(string(kind), "failed").Inc()
		log.Warn("Search: fetch failed", zap.Error(err))
		return 0, backend.Transient("fetch filtered", kind, err)
	}

	found, err := mapper.ToDomainAll(o.codec, rows)
	if err != nil {
		log.Error("Search: result violates row contract", zap.Error(err))
		return 0, err
	}
	ids := make([]string, len(found))
	for i, e := range found {
		ids[i] = e.EntityID()
	}

	o.mu.Lock()
	if o.superseded(seq) {
		o.mu.Unlock()
		return 0, o.discard(log)
	}
	o.store.ReplaceWindowSince(mark, ids, found)
	o.query = query
	o.mu.Unlock()

	metrics.SearchesTotal.WithLabelValues(string(kind), "applied").Inc()
	log.Debug("Search: result applied", zap.Int("rows", len(found)))

	for _, h := range o.hooks {
		if err := h(ctx, found); err != nil {
			log.Warn("Search: result hook failed", zap.Error(err))
		}
	}
	return len(found), nil
}

// Deactivate drops any pending request and shows the paginated window again.
func (o *Overlay[T]) Deactivate() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.seq.Add(1)
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.query = ""
	o.store.RestoreWindow()
}

// Query returns the query whose results are currently shown.
func (o *Overlay[T]) Query() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.query, o.query != ""
}

func (o *Overlay[T]) superseded(seq uint64) bool {
	return o.seq.Load() != seq
}

func (o *Overlay[T]) discard(log *zap.Logger) error {
	metrics.SearchesTotal.WithLabelValues(string(o.store.Kind()), "superseded").Inc()
	log.Debug("Search: superseded, discarding")
	return ErrSuperseded
}
