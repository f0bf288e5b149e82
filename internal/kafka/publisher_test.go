package kafka_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	mock_database "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/kafka"
	mock_kafka "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/kafka/mocks"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository"
	mock_repository "gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository/mocks"
)

func TestPublisher_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	cfg := kafka.PublisherConfig{BatchSize: 10, MaxAttempts: 3}

	t.Run("sends and marks done", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := mock_repository.NewMockOutboxTaskRepository(ctrl)
		producer := mock_kafka.NewMockProducer(ctrl)

		task := &repository.OutboxTask{
			ID:      uuid.New(),
			Topic:   "backoffice.changes",
			Key:     "order/o1",
			Payload: []byte(`{"kind":"order","operation":"update","id":"o1"}`),
		}

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		repo.EXPECT().GetProcessableTasksTx(gomock.Any(), mockTx, 10, 3).Return([]*repository.OutboxTask{task}, nil)
		repo.EXPECT().UpdateTaskStatusTx(gomock.Any(), mockTx, task.ID, repository.TaskStatusProcessing, 0, nil, nil).Return(nil)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)
		producer.EXPECT().SendMessage(gomock.Any(), "backoffice.changes", []byte("order/o1"), task.Payload).Return(nil)
		repo.EXPECT().UpdateTaskStatus(gomock.Any(), mockDB, task.ID, repository.TaskStatusDone, 0, nil, gomock.Not(gomock.Nil())).Return(nil)

		p := kafka.NewPublisher(mockDB, repo, producer, cfg, zap.NewNop())
		sent, err := p.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})

	t.Run("send failure counts an attempt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := mock_repository.NewMockOutboxTaskRepository(ctrl)
		producer := mock_kafka.NewMockProducer(ctrl)

		task := &repository.OutboxTask{ID: uuid.New(), Topic: "backoffice.changes", Attempts: 1}

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		repo.EXPECT().GetProcessableTasksTx(gomock.Any(), mockTx, 10, 3).Return([]*repository.OutboxTask{task}, nil)
		repo.EXPECT().UpdateTaskStatusTx(gomock.Any(), mockTx, task.ID, repository.TaskStatusProcessing, 1, nil, nil).Return(nil)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)
		producer.EXPECT().SendMessage(gomock.Any(), gomock.Any(), []byte(task.ID.String()), gomock.Any()).Return(errors.New("leader not available"))
		repo.EXPECT().UpdateTaskStatus(gomock.Any(), mockDB, task.ID, repository.TaskStatusFailed, 2, gomock.Not(gomock.Nil()), nil).Return(nil)

		p := kafka.NewPublisher(mockDB, repo, producer, cfg, zap.NewNop())
		sent, err := p.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, sent)
	})

	t.Run("empty batch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := mock_repository.NewMockOutboxTaskRepository(ctrl)
		producer := mock_kafka.NewMockProducer(ctrl)

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(mockTx, nil)
		repo.EXPECT().GetProcessableTasksTx(gomock.Any(), mockTx, 10, 3).Return(nil, nil)
		mockTx.EXPECT().Commit(gomock.Any()).Return(nil)
		mockTx.EXPECT().Rollback(gomock.Any()).Return(nil)

		p := kafka.NewPublisher(mockDB, repo, producer, cfg, zap.NewNop())
		sent, err := p.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, sent)
	})

	t.Run("begin failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := mock_repository.NewMockOutboxTaskRepository(ctrl)
		producer := mock_kafka.NewMockProducer(ctrl)

		mockDB.EXPECT().BeginTx(gomock.Any()).Return(nil, errors.New("too many connections"))

		p := kafka.NewPublisher(mockDB, repo, producer, cfg, zap.NewNop())
		_, err := p.ProcessBatch(ctx)
		assert.Error(t, err)
	})
}

func TestPublisher_ShutdownClosesProducer(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := mock_kafka.NewMockProducer(ctrl)
	producer.EXPECT().Close().Return(nil).Times(1)

	p := kafka.NewPublisher(nil, nil, producer, kafka.PublisherConfig{}, zap.NewNop())
	p.Shutdown()
	p.Shutdown()
}
