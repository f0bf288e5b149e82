package realtime

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/metrics"
)

type InsertHook[T any] func(ctx context.Context, inserted T) error

// Binding applies change events to one store. Events are notifications only:
// inserts and updates always re-fetch the authoritative row.
type Binding[T entity.Entity[T]] struct {
	log      *zap.Logger
	store    *cache.Store[T]
	getter   backend.Getter
	codec    mapper.Codec[T]
	onInsert []InsertHook[T]
}

func Bind[T entity.Entity[T]](store *cache.Store[T], getter backend.Getter, codec mapper.Codec[T], logger *zap.Logger) *Binding[T] {
	return &Binding[T]{
		log:    logger.With(zap.String("component", "realtime"), zap.String("kind", string(store.Kind()))),
		store:  store,
		getter: getter,
		codec:  codec,
	}
}

// OnInsert registers h to run after an inserted entity has been stored.
func (b *Binding[T]) OnInsert(h InsertHook[T]) {
	b.onInsert = append(b.onInsert, h)
}

func (b *Binding[T]) Apply(ctx context.Context, ev backend.ChangeEvent) error {
	if ev.Operation == backend.OpDelete {
		b.store.Remove(ev.ID)
		return nil
	}

	kind := b.store.Kind()
	start := time.Now()
	row, err := b.getter.FetchByID(ctx, kind, ev.ID)
	metrics.FetchDuration.WithLabelValues("fetch_by_id").Observe(time.Since(start).Seconds())
	switch {
	case errors.Is(err, backend.ErrNotFound):
		// gone between notification and fetch
		metrics.StaleReferencesTotal.WithLabelValues(string(kind)).Inc()
		b.log.Debug("Realtime: stale reference, removing", zap.String("entity_id", ev.ID))
		b.store.Remove(ev.ID)
		return nil
	case err != nil:
		metrics.FetchErrorsTotal.WithLabelValues("fetch_by_id").Inc()
		return backend.Transient("fetch by id", kind, err)
	}

	e, err := b.codec.ToDomain(row)
	if err != nil {
		return err
	}

	inserted := ev.Operation == backend.OpInsert
	b.store.Upsert(e, inserted)
	if !inserted {
		return nil
	}

	for _, h := range b.onInsert {
		if err := h(ctx, e); err != nil {
			b.log.Warn("Realtime: insert hook failed", zap.String("entity_id", ev.ID), zap.Error(err))
		}
	}
	return nil
}
