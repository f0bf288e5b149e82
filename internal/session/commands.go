package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/lifecycle"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/notify"
)

// A command reads the order again at most this many times when other writers
// keep moving it.
const maxCommandAttempts = 3

// Columns each command writes. Everything else in the row stays as the
// backend has it.
var (
	statusColumns = []string{
		"status", "order_date", "expected_arrival", "arrived_at", "stored_at", "withdrawn_at",
		"tracking_number", "history",
	}
	paymentColumns  = []string{"amount_paid", "history"}
	notifiedColumns = []string{"notified", "history"}
	printedColumns  = []string{"printed", "history"}
)

type NewOrder struct {
	ClientID        string     `json:"client_id"`
	StoreID         string     `json:"store_id"`
	ShipmentID      string     `json:"shipment_id"`
	ProductName     string     `json:"product_name"`
	ProductURL      string     `json:"product_url"`
	Quantity        int64      `json:"quantity"`
	DeclaredPrice   int64      `json:"declared_price"`
	Commission      int64      `json:"commission"`
	ShippingCost    int64      `json:"shipping_cost"`
	DeliveryCost    int64      `json:"delivery_cost"`
	AmountPaid      int64      `json:"amount_paid"`
	ExpectedArrival *time.Time `json:"expected_arrival"`
	Note            string     `json:"note"`
}

func (in NewOrder) validate() error {
	switch {
	case strings.TrimSpace(in.ClientID) == "":
		return fmt.Errorf("%w: client_id is required", ErrInvalidInput)
	case strings.TrimSpace(in.ProductName) == "":
		return fmt.Errorf("%w: product_name is required", ErrInvalidInput)
	case in.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	case in.DeclaredPrice < 0 || in.Commission < 0 || in.ShippingCost < 0 || in.DeliveryCost < 0 || in.AmountPaid < 0:
		return fmt.Errorf("%w: money fields must not be negative", ErrInvalidInput)
	}
	return nil
}

// CreateOrder persists a NEW order and puts the stored row at the head of the window.
func (s *Session) CreateOrder(ctx context.Context, actor string, in NewOrder) (OrderView, error) {
	if err := in.validate(); err != nil {
		return OrderView{}, err
	}

	draft := &entity.Order{
		ClientID:        in.ClientID,
		StoreID:         in.StoreID,
		ShipmentID:      in.ShipmentID,
		Status:          entity.StatusNew,
		ProductName:     in.ProductName,
		ProductURL:      in.ProductURL,
		Quantity:        in.Quantity,
		DeclaredPrice:   in.DeclaredPrice,
		Commission:      in.Commission,
		ShippingCost:    in.ShippingCost,
		DeliveryCost:    in.DeliveryCost,
		AmountPaid:      in.AmountPaid,
		ExpectedArrival: in.ExpectedArrival,
	}
	draft.History = draft.History.Append(entity.HistoryEntry{
		At:       s.now().UTC(),
		Actor:    actor,
		Activity: activity("created", in.Note),
	})

	patch := mapper.Orders.ToRaw(draft)
	for _, col := range []string{"id", "display_id", "created_at", "updated_at"} {
		delete(patch, col)
	}

	row, err := s.backend.Persist(ctx, entity.KindOrder, nil, patch)
	if err != nil {
		return OrderView{}, s.persistFailed(ctx, "create order", err)
	}
	o, err := mapper.Orders.ToDomain(row)
	if err != nil {
		s.log.Error("Created order row violates contract", zap.Error(err))
		return OrderView{}, err
	}

	s.orders.Upsert(o, true)
	if err := s.resolver.ResolveOne(ctx, o); err != nil {
		s.log.Warn("Could not resolve references of created order", zap.String("entity_id", o.ID), zap.Error(err))
	}
	s.commandDone(ctx, actor, o, "created")
	return s.view(o.Clone()), nil
}

func (s *Session) AdvanceOrder(ctx context.Context, actor, id string, target entity.Status, p lifecycle.Payload) (OrderView, error) {
	if !s.policy(actor).CanAdvance(target) {
		return OrderView{}, fmt.Errorf("%w: advance to %s", ErrForbidden, target)
	}
	p.Actor = actor
	return s.transition(ctx, actor, id, func(o *entity.Order) (*entity.Order, error) {
		return s.machine.Advance(o, target, p)
	})
}

func (s *Session) RevertOrder(ctx context.Context, actor, id string, p lifecycle.Payload) (OrderView, error) {
	if !s.policy(actor).Revert {
		return OrderView{}, fmt.Errorf("%w: revert", ErrForbidden)
	}
	p.Actor = actor
	return s.transition(ctx, actor, id, func(o *entity.Order) (*entity.Order, error) {
		return s.machine.Revert(o, p)
	})
}

func (s *Session) CancelOrder(ctx context.Context, actor, id string, p lifecycle.Payload) (OrderView, error) {
	if !s.policy(actor).Cancel {
		return OrderView{}, fmt.Errorf("%w: cancel", ErrForbidden)
	}
	p.Actor = actor
	return s.transition(ctx, actor, id, func(o *entity.Order) (*entity.Order, error) {
		return s.machine.Cancel(o, p)
	})
}

func (s *Session) transition(ctx context.Context, actor, id string, step func(*entity.Order) (*entity.Order, error)) (OrderView, error) {
	var from entity.Status
	stored, err := s.mutate(ctx, id, statusColumns, func(current *entity.Order) (*entity.Order, string, error) {
		next, err := step(current)
		if err != nil {
			s.log.Error("Illegal transition",
				zap.String("entity_id", id),
				zap.String("actor", actor),
				zap.Error(err),
			)
			return nil, "", err
		}
		if next.Status == current.Status {
			return nil, "", nil
		}
		from = current.Status
		return next, fmt.Sprintf("status %s -> %s", current.Status, next.Status), nil
	})
	if err != nil || stored.changed == "" {
		return stored.view, err
	}

	metrics.TransitionsTotal.WithLabelValues(string(from), string(stored.order.Status)).Inc()
	s.commandDone(ctx, actor, stored.order, stored.changed)
	return stored.view, nil
}

// RecordPayment adds amount to what the client has paid. Only positive amounts
// are accepted; decreasing the paid amount needs CorrectPayment.
func (s *Session) RecordPayment(ctx context.Context, actor, id string, amount int64) (OrderView, error) {
	if !s.policy(actor).Payments {
		return OrderView{}, fmt.Errorf("%w: payments", ErrForbidden)
	}
	if amount <= 0 {
		return OrderView{}, fmt.Errorf("%w: payment must be positive", ErrInvalidInput)
	}

	return s.update(ctx, actor, id, paymentColumns, func(o *entity.Order) (string, bool) {
		o.AmountPaid += amount
		return fmt.Sprintf("payment +%d (paid %d)", amount, o.AmountPaid), true
	})
}

func (s *Session) CorrectPayment(ctx context.Context, actor, id string, amountPaid int64, note string) (OrderView, error) {
	if !s.policy(actor).CorrectPayments {
		return OrderView{}, fmt.Errorf("%w: payment correction", ErrForbidden)
	}
	if amountPaid < 0 {
		return OrderView{}, fmt.Errorf("%w: paid amount must not be negative", ErrInvalidInput)
	}

	return s.update(ctx, actor, id, paymentColumns, func(o *entity.Order) (string, bool) {
		if o.AmountPaid == amountPaid {
			return "", false
		}
		msg := activity(fmt.Sprintf("payment corrected %d -> %d", o.AmountPaid, amountPaid), note)
		o.AmountPaid = amountPaid
		return msg, true
	})
}

// MarkNotified sets the notified flag. Once set it stays set.
func (s *Session) MarkNotified(ctx context.Context, actor, id string) (OrderView, error) {
	if !s.policy(actor).Flags {
		return OrderView{}, fmt.Errorf("%w: flags", ErrForbidden)
	}
	return s.update(ctx, actor, id, notifiedColumns, func(o *entity.Order) (string, bool) {
		if o.Notified {
			return "", false
		}
		o.Notified = true
		return "client notified", true
	})
}

func (s *Session) MarkPrinted(ctx context.Context, actor, id string) (OrderView, error) {
	if !s.policy(actor).Flags {
		return OrderView{}, fmt.Errorf("%w: flags", ErrForbidden)
	}
	return s.update(ctx, actor, id, printedColumns, func(o *entity.Order) (string, bool) {
		if o.Printed {
			return "", false
		}
		o.Printed = true
		return "label printed", true
	})
}

// update applies change to a copy of the order and persists cols. A change
// reporting false leaves the order as it is without a write.
func (s *Session) update(ctx context.Context, actor, id string, cols []string, change func(*entity.Order) (string, bool)) (OrderView, error) {
	stored, err := s.mutate(ctx, id, cols, func(current *entity.Order) (*entity.Order, string, error) {
		next := current.Clone()
		what, changed := change(next)
		if !changed {
			return nil, "", nil
		}
		next.History = next.History.Append(entity.HistoryEntry{
			At:       s.now().UTC(),
			Actor:    actor,
			Activity: what,
		})
		return next, what, nil
	})
	if err != nil || stored.changed == "" {
		return stored.view, err
	}
	s.commandDone(ctx, actor, stored.order, stored.changed)
	return stored.view, nil
}

// mutation derives the next state of an order from its stored state. A nil
// order means nothing changes.
type mutation func(current *entity.Order) (next *entity.Order, what string, err error)

type mutated struct {
	order   *entity.Order
	view    OrderView
	changed string
}

// mutate runs change against the row the backend holds, never the cached
// copy, and writes cols only while that row is still the one change saw.
// Commands on one order run one at a time; a row moved on by another writer
// is read again and change is reapplied.
func (s *Session) mutate(ctx context.Context, id string, cols []string, change mutation) (mutated, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	for attempt := 1; ; attempt++ {
		current, seen, err := s.fetchOrder(ctx, id)
		if err != nil {
			return mutated{}, err
		}

		next, what, err := change(current)
		if err != nil {
			return mutated{}, err
		}
		if next == nil {
			return mutated{order: current, view: s.view(current)}, nil
		}

		expect := mapper.Row{
			"status":     string(current.Status),
			"updated_at": seen["updated_at"],
		}
		stored, err := s.persist(ctx, id, expect, next, cols)
		if errors.Is(err, backend.ErrConflict) {
			s.log.Debug("Order changed under command, reading it again",
				zap.String("entity_id", id),
				zap.Int("attempt", attempt),
			)
			if attempt < maxCommandAttempts {
				continue
			}
			s.log.Warn("Order keeps changing under command", zap.String("entity_id", id))
			return mutated{}, ErrOrderConflict
		}
		if err != nil {
			return mutated{}, err
		}
		return mutated{order: stored, view: s.view(stored), changed: what}, nil
	}
}

// fetchOrder reads the stored row of id and refreshes the resident copy.
func (s *Session) fetchOrder(ctx context.Context, id string) (*entity.Order, mapper.Row, error) {
	mark := s.orders.Mark()
	defer s.orders.Release(mark)
	row, err := s.backend.FetchByID(ctx, entity.KindOrder, id)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil, ErrOrderNotFound
	}
	if err != nil {
		err = backend.Transient("fetch by id", entity.KindOrder, err)
		s.surface(ctx, "fetch order", err)
		return nil, nil, err
	}
	o, err := mapper.Orders.ToDomain(row)
	if err != nil {
		s.log.Error("Stored order row violates contract", zap.String("entity_id", id), zap.Error(err))
		return nil, nil, err
	}
	s.orders.Merge(mark, []*entity.Order{o})
	return o.Clone(), row, nil
}

// persist writes cols of next and merges the row the backend returns, never
// the local copy.
func (s *Session) persist(ctx context.Context, id string, expect mapper.Row, next *entity.Order, cols []string) (*entity.Order, error) {
	row := mapper.Orders.ToRaw(next)
	patch := make(mapper.Row, len(cols))
	for _, col := range cols {
		patch[col] = row[col]
	}

	stored, err := s.backend.PersistIf(ctx, entity.KindOrder, id, expect, patch)
	if errors.Is(err, backend.ErrConflict) {
		return nil, err
	}
	if err != nil {
		return nil, s.persistFailed(ctx, "update order", err)
	}
	o, err := mapper.Orders.ToDomain(stored)
	if err != nil {
		s.log.Error("Persisted order row violates contract", zap.String("entity_id", id), zap.Error(err))
		return nil, err
	}

	s.orders.Upsert(o, false)
	return o.Clone(), nil
}

func (s *Session) persistFailed(ctx context.Context, op string, err error) error {
	if errors.Is(err, backend.ErrNotFound) {
		return ErrOrderNotFound
	}
	if errors.Is(err, backend.ErrRejected) {
		s.log.Warn("Persist rejected", zap.String("op", op), zap.Error(err))
		return err
	}
	s.log.Warn("Persist failed", zap.String("op", op), zap.Error(err))
	err = backend.Transient(op, entity.KindOrder, err)
	s.surface(ctx, op, err)
	return err
}

func (s *Session) commandDone(ctx context.Context, actor string, o *entity.Order, what string) {
	s.notifier.Notify(ctx, notify.Notification{
		At:       s.now().UTC(),
		Type:     notify.TypeCommand,
		Kind:     entity.KindOrder,
		EntityID: o.ID,
		Actor:    actor,
		Message:  fmt.Sprintf("order #%d: %s", o.DisplayID, what),
	})
}

func activity(base, note string) string {
	if note = strings.TrimSpace(note); note == "" {
		return base
	}
	return base + ": " + note
}
