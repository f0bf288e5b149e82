package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db"
	mock_database "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db/mocks"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies schema", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)

		mockDB.EXPECT().Exec(gomock.Any(), gomock.Cond(func(q any) bool {
			s, _ := q.(string)
			return len(s) > 0
		})).Return(pgconn.CommandTag("CREATE TABLE"), nil)

		assert.NoError(t, db.Migrate(ctx, mockDB))
	})

	t.Run("error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)

		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any()).Return(nil, errors.New("permission denied"))

		assert.Error(t, db.Migrate(ctx, mockDB))
	})
}

func TestInTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)

		assert.NoError(t, db.InTx(ctx, mockDB, func(db.Tx) error { return nil }))
	})

	t.Run("rolls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		boom := errors.New("boom")
		assert.ErrorIs(t, db.InTx(ctx, mockDB, func(db.Tx) error { return boom }), boom)
	})
}
