package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository/postgresql"
)

func TestOutboxTaskRepo_CreateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		task := &repository.OutboxTask{
			Payload: []byte(`{"kind":"order","operation":"insert","id":"o1"}`),
			Topic:   "backoffice.changes",
			Key:     "order/o1",
		}

		mockTx.EXPECT().Exec(
			gomock.Any(),
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(repository.TaskStatusCreated),
			gomock.Eq(task.Payload),
			gomock.Eq(task.Topic),
			gomock.Eq(task.Key),
			gomock.Any(),
			gomock.Any(),
		).Return(pgconn.CommandTag("INSERT 0 1"), nil)

		err := repo.CreateTx(ctx, mockTx, task)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, repository.TaskStatusCreated, task.Status)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		expectedErr := errors.New("database error")
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, expectedErr)

		err := repo.CreateTx(ctx, mockTx, &repository.OutboxTask{})
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestOutboxTaskRepo_GetProcessableTasksTx(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mock_database.NewMockTx(ctrl)
	repo := postgresql.NewOutboxTaskRepo()

	id := uuid.New()
	mockTx.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(),
		repository.TaskStatusCreated, repository.TaskStatusFailed, 3, 10).
		DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
			tasks := dest.(*[]*repository.OutboxTask)
			*tasks = append(*tasks, &repository.OutboxTask{ID: id, Status: repository.TaskStatusCreated})
			return nil
		})

	tasks, err := repo.GetProcessableTasksTx(ctx, mockTx, 10, 3)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)
}

func TestOutboxTaskRepo_UpdateTaskStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("done", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		id := uuid.New()
		now := time.Now().UTC()
		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), id, repository.TaskStatusDone, 1, nil, &now, gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		err := repo.UpdateTaskStatus(ctx, mockDB, id, repository.TaskStatusDone, 1, nil, &now)
		assert.NoError(t, err)
	})

	t.Run("missing task", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.UpdateTaskStatusTx(ctx, mockTx, uuid.New(), repository.TaskStatusProcessing, 0, nil, nil)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}
