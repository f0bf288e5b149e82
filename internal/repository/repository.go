//go:generate mockgen -source ./repository.go -destination=./mocks/repository.go -package=mock_repository
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db"
)

type OutboxTaskRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, task *OutboxTask) error
	GetProcessableTasksTx(ctx context.Context, tx db.Tx, limit, maxAttempts int) ([]*OutboxTask, error)
	UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
	UpdateTaskStatus(ctx context.Context, db db.DB, id uuid.UUID, status TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, password string) error
	EnsureUser(ctx context.Context, username, password string) (bool, error)
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}
