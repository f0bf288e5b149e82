package xref

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

// Resolver makes sure the clients, stores and shipments that orders point at
// are resident, so an order can be rendered without a round trip per row.
// Referenced entities go into the collection only, never into a window.
type Resolver struct {
	log       *zap.Logger
	getter    backend.BatchGetter
	clients   *cache.Store[*entity.Client]
	stores    *cache.Store[*entity.Store]
	shipments *cache.Store[*entity.Shipment]
}

func New(
	getter backend.BatchGetter,
	clients *cache.Store[*entity.Client],
	stores *cache.Store[*entity.Store],
	shipments *cache.Store[*entity.Shipment],
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		log:       logger.With(zap.String("component", "xref")),
		getter:    getter,
		clients:   clients,
		stores:    stores,
		shipments: shipments,
	}
}

// Resolve fetches, in one batch per kind, every referenced entity that is not
// resident yet. Failures of one kind do not stop the others.
func (r *Resolver) Resolve(ctx context.Context, orders ...*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}

	clientIDs := make([]string, 0, len(orders))
	storeIDs := make([]string, 0, len(orders))
	shipmentIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		clientIDs = append(clientIDs, o.ClientID)
		storeIDs = append(storeIDs, o.StoreID)
		shipmentIDs = append(shipmentIDs, o.ShipmentID)
	}

	var errs []error
	if r.clients != nil {
		errs = append(errs, fill(ctx, r.log, r.getter, r.clients, mapper.Clients, clientIDs))
	}
	if r.stores != nil {
		errs = append(errs, fill(ctx, r.log, r.getter, r.stores, mapper.Stores, storeIDs))
	}
	if r.shipments != nil {
		errs = append(errs, fill(ctx, r.log, r.getter, r.shipments, mapper.Shipments, shipmentIDs))
	}
	return errors.Join(errs...)
}

// ResolveOne adapts Resolve to single-entity hooks.
func (r *Resolver) ResolveOne(ctx context.Context, o *entity.Order) error {
	return r.Resolve(ctx, o)
}

func fill[T entity.Entity[T]](
	ctx context.Context,
	log *zap.Logger,
	getter backend.BatchGetter,
	store *cache.Store[T],
	codec mapper.Codec[T],
	ids []string,
) error {
	missing := store.Missing(ids)
	if len(missing) == 0 {
		return nil
	}

	kind := store.Kind()
	mark := store.Mark()
	defer store.Release(mark)
	start := time.Now()
	rows, err := getter.FetchByIDs(ctx, kind, missing)
	metrics.FetchDuration.WithLabelValues("fetch_by_ids").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues("fetch_by_ids").Inc()
		log.Warn("Xref: batch fetch failed", zap.String("kind", string(kind)), zap.Int("ids", len(missing)), zap.Error(err))
		return backend.Transient("fetch by ids", kind, err)
	}

	found, err := mapper.ToDomainAll(codec, rows)
	if err != nil {
		log.Error("Xref: row contract violated", zap.String("kind", string(kind)), zap.Error(err))
		return err
	}
	store.Merge(mark, found)

	if len(found) < len(missing) {
		log.Debug("Xref: dangling references",
			zap.String("kind", string(kind)),
			zap.Int("requested", len(missing)),
			zap.Int("found", len(found)),
		)
	}
	return nil
}
