package postgresql_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend/postgresql"
	mock_database "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository"
	mock_repository "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository/mocks"
)

func fillRows(rows ...map[string]interface{}) func(context.Context, interface{}, string, ...interface{}) error {
	return func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
		out := dest.(*[]map[string]interface{})
		*out = append(*out, rows...)
		return nil
	}
}

func fillRow(row map[string]interface{}) func(context.Context, interface{}, string, ...interface{}) error {
	return func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
		*(dest.(*map[string]interface{})) = row
		return nil
	}
}

func queryContains(parts ...string) gomock.Matcher {
	return gomock.Cond(func(q any) bool {
		s, _ := q.(string)
		for _, p := range parts {
			if !strings.Contains(s, p) {
				return false
			}
		}
		return true
	})
}

func TestBackend_FetchPage(t *testing.T) {
	ctx := context.Background()

	t.Run("more pages", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		b := postgresql.New(mockDB, nil, "changes", 0, zap.NewNop())

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), queryContains("FROM orders", "ORDER BY display_id DESC"), 3, 4).
			DoAndReturn(fillRows(
				map[string]interface{}{"id": "a"},
				map[string]interface{}{"id": "b"},
				map[string]interface{}{"id": "c"},
			))

		rows, isLast, err := b.FetchPage(ctx, entity.KindOrder, 2, 2)
		require.NoError(t, err)
		assert.False(t, isLast)
		assert.Equal(t, []mapper.Row{{"id": "a"}, {"id": "b"}}, rows)
	})

	t.Run("last page", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		b := postgresql.New(mockDB, nil, "changes", 0, zap.NewNop())

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), queryContains("FROM clients"), 31, 0).
			DoAndReturn(fillRows(map[string]interface{}{"id": "c1"}))

		rows, isLast, err := b.FetchPage(ctx, entity.KindClient, 0, 30)
		require.NoError(t, err)
		assert.True(t, isLast)
		assert.Len(t, rows, 1)
	})

	t.Run("database error is transient", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		b := postgresql.New(mockDB, nil, "changes", 0, zap.NewNop())

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("conn reset"))

		_, _, err := b.FetchPage(ctx, entity.KindOrder, 0, 30)
		assert.True(t, backend.IsTransient(err))
	})

	t.Run("unknown kind", func(t *testing.T) {
		b := postgresql.New(nil, nil, "changes", 0, zap.NewNop())
		_, _, err := b.FetchPage(ctx, "invoice", 0, 30)
		assert.Error(t, err)
	})
}

func TestBackend_FetchFiltered(t *testing.T) {
	ctx := context.Background()

	t.Run("text query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		b := postgresql.New(mockDB, nil, "changes", 50, zap.NewNop())

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), queryContains("product_name ILIKE $1", "LIMIT $2"), `%50\% off%`, 50).
			DoAndReturn(fillRows(map[string]interface{}{"id": "o1"}))

		rows, err := b.FetchFiltered(ctx, entity.KindOrder, " 50% off ")
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("display id query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		b := postgresql.New(mockDB, nil, "changes", 50, zap.NewNop())

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), queryContains("display_id = $2", "LIMIT $3"), "%1024%", int64(1024), 50).
			DoAndReturn(fillRows())

		rows, err := b.FetchFiltered(ctx, entity.KindClient, "#1024")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestBackend_FetchByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		b := postgresql.New(mockDB, nil, "changes", 0, zap.NewNop())

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), queryContains("FROM stores", "WHERE id = $1"), "s1").
			DoAndReturn(fillRow(map[string]interface{}{"id": "s1", "name": "Amazon"}))

		row, err := b.FetchByID(ctx, entity.KindStore, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Amazon", row["name"])
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		b := postgresql.New(mockDB, nil, "changes", 0, zap.NewNop())

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "gone").Return(pgx.ErrNoRows)

		_, err := b.FetchByID(ctx, entity.KindOrder, "gone")
		assert.ErrorIs(t, err, backend.ErrNotFound)
		assert.False(t, backend.IsTransient(err))
	})
}

func TestBackend_FetchByIDs(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockDB := mock_database.NewMockDB(ctrl)
	b := postgresql.New(mockDB, nil, "changes", 0, zap.NewNop())

	rows, err := b.FetchByIDs(ctx, entity.KindClient, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), queryContains("id = ANY($1)"), []string{"c1", "c2"}).
		DoAndReturn(fillRows(map[string]interface{}{"id": "c1"}))

	rows, err = b.FetchByIDs(ctx, entity.KindClient, []string{"c1", "c2"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestBackend_Persist(t *testing.T) {
	ctx := context.Background()

	t.Run("insert writes row and outbox task", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		outbox := mock_repository.NewMockOutboxTaskRepository(ctrl)
		b := postgresql.New(mockDB, outbox, "changes", 0, zap.NewNop())

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), queryContains("INSERT INTO orders (id, product_name, status)", "RETURNING"),
			gomock.Any(), "lamp", "NEW").
			DoAndReturn(fillRow(map[string]interface{}{"id": "o1", "status": "NEW", "product_name": "lamp", "display_id": int64(7)}))
		outbox.EXPECT().CreateTx(gomock.Any(), mockTx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, task *repository.OutboxTask) error {
				var ev backend.ChangeEvent
				require.NoError(t, json.Unmarshal(task.Payload, &ev))
				assert.Equal(t, backend.ChangeEvent{Kind: entity.KindOrder, Operation: backend.OpInsert, ID: "o1"}, ev)
				assert.Equal(t, "changes", task.Topic)
				assert.Equal(t, "order/o1", task.Key)
				return nil
			})
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)

		row, err := b.Persist(ctx, entity.KindOrder, nil, mapper.Row{
			"id":           "ignored",
			"display_id":   int64(99),
			"product_name": "lamp",
			"status":       "NEW",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), row["display_id"])
	})

	t.Run("update of missing row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		outbox := mock_repository.NewMockOutboxTaskRepository(ctrl)
		b := postgresql.New(mockDB, outbox, "changes", 0, zap.NewNop())

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), queryContains("UPDATE orders SET amount_paid = $2, updated_at = now() WHERE id = $1"), "o9", int64(100)).
			Return(pgx.ErrNoRows)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		id := "o9"
		_, err := b.Persist(ctx, entity.KindOrder, &id, mapper.Row{"amount_paid": int64(100)})
		assert.ErrorIs(t, err, backend.ErrNotFound)
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		outbox := mock_repository.NewMockOutboxTaskRepository(ctrl)
		b := postgresql.New(mockDB, outbox, "changes", 0, zap.NewNop())

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(fillRow(map[string]interface{}{"id": "c1"}))
		outbox.EXPECT().CreateTx(gomock.Any(), mockTx, gomock.Any()).Return(errors.New("disk full"))
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		id := "c1"
		_, err := b.Persist(ctx, entity.KindClient, &id, mapper.Row{"name": "Ann"})
		assert.True(t, backend.IsTransient(err))
	})

	t.Run("constraint violation is rejected, not transient", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		b := postgresql.New(mockDB, mock_repository.NewMockOutboxTaskRepository(ctrl), "changes", 0, zap.NewNop())

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23514", Message: "violates check constraint"})
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		id := "c1"
		_, err := b.Persist(ctx, entity.KindClient, &id, mapper.Row{"name": "Ann"})
		assert.ErrorIs(t, err, backend.ErrRejected)
		assert.False(t, backend.IsTransient(err))
	})

	t.Run("empty patch", func(t *testing.T) {
		b := postgresql.New(nil, nil, "changes", 0, zap.NewNop())
		id := "c1"
		_, err := b.Persist(ctx, entity.KindClient, &id, mapper.Row{"id": "c1"})
		assert.ErrorIs(t, err, postgresql.ErrEmptyPatch)
	})
}

func TestBackend_PersistIf(t *testing.T) {
	ctx := context.Background()
	seen := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	expect := mapper.Row{"status": "STORED", "updated_at": seen}
	updateQuery := queryContains(
		"UPDATE orders SET amount_paid = $2, updated_at = now()",
		"WHERE id = $1 AND status IS NOT DISTINCT FROM $3 AND updated_at IS NOT DISTINCT FROM $4",
	)
	setExists := func(exists bool) func(context.Context, interface{}, string, ...interface{}) error {
		return func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
			*(dest.(*bool)) = exists
			return nil
		}
	}

	t.Run("matching row is written", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		outbox := mock_repository.NewMockOutboxTaskRepository(ctrl)
		b := postgresql.New(mockDB, outbox, "changes", 0, zap.NewNop())

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), updateQuery, "o1", int64(700), "STORED", seen).
			DoAndReturn(fillRow(map[string]interface{}{"id": "o1", "amount_paid": int64(700)}))
		outbox.EXPECT().CreateTx(gomock.Any(), mockTx, gomock.Any()).Return(nil)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)

		row, err := b.PersistIf(ctx, entity.KindOrder, "o1", expect, mapper.Row{"amount_paid": int64(700)})
		require.NoError(t, err)
		assert.Equal(t, int64(700), row["amount_paid"])
	})

	t.Run("row moved on", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		b := postgresql.New(mockDB, mock_repository.NewMockOutboxTaskRepository(ctrl), "changes", 0, zap.NewNop())

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), updateQuery, "o1", int64(700), "STORED", seen).
			Return(pgx.ErrNoRows)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), queryContains("SELECT EXISTS"), "o1").
			DoAndReturn(setExists(true))
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		_, err := b.PersistIf(ctx, entity.KindOrder, "o1", expect, mapper.Row{"amount_paid": int64(700)})
		assert.ErrorIs(t, err, backend.ErrConflict)
	})

	t.Run("row is gone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		b := postgresql.New(mockDB, mock_repository.NewMockOutboxTaskRepository(ctrl), "changes", 0, zap.NewNop())

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), updateQuery, "o1", int64(700), "STORED", seen).
			Return(pgx.ErrNoRows)
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), queryContains("SELECT EXISTS"), "o1").
			DoAndReturn(setExists(false))
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		_, err := b.PersistIf(ctx, entity.KindOrder, "o1", expect, mapper.Row{"amount_paid": int64(700)})
		assert.ErrorIs(t, err, backend.ErrNotFound)
	})

	t.Run("unknown expectation column", func(t *testing.T) {
		b := postgresql.New(nil, nil, "changes", 0, zap.NewNop())
		_, err := b.PersistIf(ctx, entity.KindOrder, "o1", mapper.Row{"version": 1}, mapper.Row{"amount_paid": int64(700)})
		assert.Error(t, err)
	})
}
