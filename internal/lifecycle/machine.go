package lifecycle

import (
	"fmt"
	"slices"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
)

// chain is the forward order of the main lifecycle.
var chain = []entity.Status{
	entity.StatusNew,
	entity.StatusOrdered,
	entity.StatusShippedFromStore,
	entity.StatusArrivedAtOffice,
	entity.StatusStored,
	entity.StatusCompleted,
}

const DefaultStuckAfter = 72 * time.Hour

type Payload struct {
	Actor           string
	Note            string
	ExpectedArrival *time.Time
	TrackingNumber  string
}

// Machine computes status transitions. It never performs I/O and never checks
// who is asking: callers gate transitions with Permissions first.
type Machine struct {
	now        func() time.Time
	stuckAfter time.Duration
}

type Option func(*Machine)

func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

func WithStuckAfter(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.stuckAfter = d
		}
	}
}

func New(opts ...Option) *Machine {
	m := &Machine{
		now:        time.Now,
		stuckAfter: DefaultStuckAfter,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Successors lists the statuses Advance accepts from s.
func Successors(s entity.Status) []entity.Status {
	switch s {
	case entity.StatusStored:
		return []entity.Status{entity.StatusCompleted, entity.StatusOutForDelivery}
	case entity.StatusOutForDelivery:
		return []entity.Status{entity.StatusCompleted}
	case entity.StatusCompleted, entity.StatusCancelled:
		return nil
	}
	i := slices.Index(chain, s)
	if i < 0 || i == len(chain)-1 {
		return nil
	}
	return []entity.Status{chain[i+1]}
}

// Predecessor is the status Revert moves s to.
func Predecessor(s entity.Status) (entity.Status, bool) {
	if s == entity.StatusOutForDelivery {
		return entity.StatusStored, true
	}
	i := slices.Index(chain, s)
	if i <= 0 {
		return s, false
	}
	return chain[i-1], true
}

func IsTerminal(s entity.Status) bool {
	return s == entity.StatusCompleted || s == entity.StatusCancelled
}

// Advance moves o to target, which must be an immediate successor of its status.
// The returned order is a new value; o is not modified.
func (m *Machine) Advance(o *entity.Order, target entity.Status, p Payload) (*entity.Order, error) {
	if !slices.Contains(Successors(o.Status), target) {
		return nil, &IllegalTransitionError{From: o.Status, To: target, Reason: "not an immediate successor"}
	}

	now := m.now().UTC()
	next := o.Clone()
	next.Status = target
	stampMilestone(next, target, now)

	if p.ExpectedArrival != nil {
		at := *p.ExpectedArrival
		next.ExpectedArrival = &at
	}
	if p.TrackingNumber != "" {
		next.TrackingNumber = p.TrackingNumber
	}

	next.History = next.History.Append(entity.HistoryEntry{
		At:       now,
		Actor:    p.Actor,
		Activity: activity(fmt.Sprintf("status %s -> %s", o.Status, target), p.Note),
	})
	return next, nil
}

// Revert moves o back to the previous status of the chain. Milestones stamped
// on the way forward are kept. An order at NEW is returned unchanged.
func (m *Machine) Revert(o *entity.Order, p Payload) (*entity.Order, error) {
	if o.Status == entity.StatusCancelled {
		return nil, &IllegalTransitionError{From: o.Status, To: o.Status, Reason: "cancelled orders are not revertible"}
	}
	prev, ok := Predecessor(o.Status)
	if !ok {
		return o.Clone(), nil
	}

	next := o.Clone()
	next.Status = prev
	next.History = next.History.Append(entity.HistoryEntry{
		At:       m.now().UTC(),
		Actor:    p.Actor,
		Activity: activity(fmt.Sprintf("reverted %s -> %s", o.Status, prev), p.Note),
	})
	return next, nil
}

func (m *Machine) Cancel(o *entity.Order, p Payload) (*entity.Order, error) {
	if IsTerminal(o.Status) {
		return nil, &IllegalTransitionError{From: o.Status, To: entity.StatusCancelled, Reason: "order is already terminal"}
	}

	next := o.Clone()
	next.Status = entity.StatusCancelled
	next.History = next.History.Append(entity.HistoryEntry{
		At:       m.now().UTC(),
		Actor:    p.Actor,
		Activity: activity(fmt.Sprintf("cancelled at %s", o.Status), p.Note),
	})
	return next, nil
}

func stampMilestone(o *entity.Order, s entity.Status, at time.Time) {
	switch s {
	case entity.StatusOrdered:
		o.OrderDate = &at
	case entity.StatusArrivedAtOffice:
		o.ArrivedAt = &at
	case entity.StatusStored:
		o.StoredAt = &at
	case entity.StatusCompleted:
		o.WithdrawnAt = &at
	}
}

func activity(base, note string) string {
	if note == "" {
		return base
	}
	return base + ": " + note
}
