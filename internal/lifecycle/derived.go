package lifecycle

import (
	"time"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
)

type Classification struct {
	Late  bool `json:"late"`
	Stuck bool `json:"stuck"`
	Ready bool `json:"ready"`
}

// Classify derives the read-only flags of o at the machine's current time.
//   - late: still in transit (ORDERED or SHIPPED_FROM_STORE) past the expected arrival
//   - stuck: ARRIVED_AT_OFFICE or STORED for longer than the stuck threshold
//   - ready: STORED, waiting for withdrawal
func (m *Machine) Classify(o *entity.Order) Classification {
	now := m.now()
	c := Classification{Ready: o.Status == entity.StatusStored}

	switch o.Status {
	case entity.StatusOrdered, entity.StatusShippedFromStore:
		c.Late = o.ExpectedArrival != nil && now.After(*o.ExpectedArrival)
	case entity.StatusArrivedAtOffice:
		c.Stuck = o.ArrivedAt != nil && now.Sub(*o.ArrivedAt) > m.stuckAfter
	case entity.StatusStored:
		c.Stuck = o.StoredAt != nil && now.Sub(*o.StoredAt) > m.stuckAfter
	}
	return c
}

// TimeInStatus measures from the milestone of the current status, falling back
// to the last history entry and then to creation time.
func (m *Machine) TimeInStatus(o *entity.Order) time.Duration {
	since := milestone(o)
	if since == nil {
		if last, ok := o.History.Last(); ok {
			since = &last.At
		} else if !o.CreatedAt.IsZero() {
			since = &o.CreatedAt
		}
	}
	if since == nil {
		return 0
	}
	if d := m.now().Sub(*since); d > 0 {
		return d
	}
	return 0
}

// Debt is what the client still owes. Overpayment is not debt.
func Debt(o *entity.Order) int64 {
	if d := o.Total() - o.AmountPaid; d > 0 {
		return d
	}
	return 0
}

func milestone(o *entity.Order) *time.Time {
	switch o.Status {
	case entity.StatusOrdered:
		return o.OrderDate
	case entity.StatusArrivedAtOffice:
		return o.ArrivedAt
	case entity.StatusStored:
		return o.StoredAt
	case entity.StatusCompleted:
		return o.WithdrawnAt
	}
	return nil
}
