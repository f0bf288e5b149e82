package session

import (
	"time"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/lifecycle"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
)

// OrderView is an order with its derived facts, computed at read time.
// Record is the order in row form, the shape the HTTP surface renders.
type OrderView struct {
	Order          *entity.Order            `json:"-"`
	Record         mapper.Row               `json:"order"`
	Total          int64                    `json:"total"`
	Debt           int64                    `json:"debt"`
	TimeInStatus   time.Duration            `json:"time_in_status"`
	Classification lifecycle.Classification `json:"classification"`
	Next           []entity.Status          `json:"next"`
}

func (s *Session) view(o *entity.Order) OrderView {
	return OrderView{
		Order:          o,
		Record:         mapper.Orders.ToRaw(o),
		Total:          o.Total(),
		Debt:           lifecycle.Debt(o),
		TimeInStatus:   s.machine.TimeInStatus(o),
		Classification: s.machine.Classify(o),
		Next:           lifecycle.Successors(o.Status),
	}
}

func (s *Session) views(orders []*entity.Order) []OrderView {
	out := make([]OrderView, len(orders))
	for i, o := range orders {
		out[i] = s.view(o)
	}
	return out
}
