package session

import (
	"context"
	"errors"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/search"
)

var (
	ErrOrderNotFound = fmt.Errorf("order %w", backend.ErrNotFound)
	ErrOrderConflict = fmt.Errorf("order %w", backend.ErrConflict)
)

// Page is a snapshot of a visible window.
type Page[T any] struct {
	Items     []T    `json:"items"`
	Next      int    `json:"next_page"`
	Exhausted bool   `json:"exhausted"`
	Query     string `json:"query,omitempty"`
}

func (s *Session) ListOrders() Page[OrderView] {
	next, exhausted := s.orderPages.Cursor()
	q, _ := s.orderSearch.Query()
	return Page[OrderView]{
		Items:     s.views(s.orders.Window()),
		Next:      next,
		Exhausted: exhausted,
		Query:     q,
	}
}

func (s *Session) LoadMoreOrders(ctx context.Context) (int, error) {
	n, err := s.orderPages.LoadNext(ctx)
	if err != nil {
		s.surface(ctx, "load orders", err)
	}
	return n, err
}

// SearchOrders shows the orders matching query. A superseded search is not an error.
func (s *Session) SearchOrders(ctx context.Context, query string) (int, error) {
	n, err := s.orderSearch.Activate(ctx, query)
	if errors.Is(err, search.ErrSuperseded) {
		return 0, nil
	}
	if err != nil {
		s.surface(ctx, "search orders", err)
	}
	return n, err
}

func (s *Session) ClearOrderSearch() {
	s.orderSearch.Deactivate()
}

// GetOrder returns the resident order or fetches it into the collection.
func (s *Session) GetOrder(ctx context.Context, id string) (OrderView, error) {
	o, err := s.order(ctx, id)
	if err != nil {
		return OrderView{}, err
	}
	return s.view(o), nil
}

func (s *Session) order(ctx context.Context, id string) (*entity.Order, error) {
	if o, ok := s.orders.Get(id); ok {
		return o, nil
	}

	mark := s.orders.Mark()
	defer s.orders.Release(mark)
	row, err := s.backend.FetchByID(ctx, entity.KindOrder, id)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		err = backend.Transient("fetch by id", entity.KindOrder, err)
		s.surface(ctx, "fetch order", err)
		return nil, err
	}
	o, err := mapper.Orders.ToDomain(row)
	if err != nil {
		return nil, err
	}
	s.orders.Merge(mark, []*entity.Order{o})
	return o.Clone(), nil
}

func (s *Session) ListClients() Page[*entity.Client] {
	next, exhausted := s.clientPages.Cursor()
	q, _ := s.clientSearch.Query()
	return Page[*entity.Client]{
		Items:     s.clients.Window(),
		Next:      next,
		Exhausted: exhausted,
		Query:     q,
	}
}

func (s *Session) LoadMoreClients(ctx context.Context) (int, error) {
	n, err := s.clientPages.LoadNext(ctx)
	if err != nil {
		s.surface(ctx, "load clients", err)
	}
	return n, err
}

func (s *Session) SearchClients(ctx context.Context, query string) (int, error) {
	n, err := s.clientSearch.Activate(ctx, query)
	if errors.Is(err, search.ErrSuperseded) {
		return 0, nil
	}
	if err != nil {
		s.surface(ctx, "search clients", err)
	}
	return n, err
}

func (s *Session) ClearClientSearch() {
	s.clientSearch.Deactivate()
}
