//go:generate mockgen -source ./backend.go -destination=./mocks/backend.go -package=mock_backend
package backend

import (
	"context"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
)

type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func (o Operation) Valid() bool {
	return o == OpInsert || o == OpUpdate || o == OpDelete
}

// ChangeEvent is a change notification. It never carries the record itself.
type ChangeEvent struct {
	Kind      entity.Kind `json:"kind"`
	Operation Operation   `json:"operation"`
	ID        string      `json:"id"`
}

type Pager interface {
	// FetchPage returns the rows of page (0-based) ordered by display id, newest first.
	FetchPage(ctx context.Context, kind entity.Kind, page, size int) (rows []mapper.Row, isLast bool, err error)
}

type Searcher interface {
	FetchFiltered(ctx context.Context, kind entity.Kind, query string) ([]mapper.Row, error)
}

type Getter interface {
	// FetchByID returns ErrNotFound when the row does not exist.
	FetchByID(ctx context.Context, kind entity.Kind, id string) (mapper.Row, error)
}

type BatchGetter interface {
	// FetchByIDs returns the rows that exist; missing ids are silently absent.
	FetchByIDs(ctx context.Context, kind entity.Kind, ids []string) ([]mapper.Row, error)
}

type Persister interface {
	// Persist creates a row when id is nil and patches the row otherwise.
	// The returned row is the authoritative state after the write.
	Persist(ctx context.Context, kind entity.Kind, id *string, patch mapper.Row) (mapper.Row, error)
	// PersistIf patches the row only while every column of expect still holds
	// the given value. It returns ErrConflict when the row exists but has moved on.
	PersistIf(ctx context.Context, kind entity.Kind, id string, expect, patch mapper.Row) (mapper.Row, error)
}

type Backend interface {
	Pager
	Searcher
	Getter
	BatchGetter
	Persister
}

type Feed interface {
	// Subscribe opens the multiplexed change stream. The channel is closed
	// when ctx is done or the feed shuts down.
	Subscribe(ctx context.Context, kinds []entity.Kind) (<-chan ChangeEvent, error)
}
