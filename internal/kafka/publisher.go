package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository"
)

type PublisherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Publisher relays outbox tasks to kafka. Each task is sent at least once;
// consumers treat change events as idempotent notifications.
type Publisher struct {
	db             db.DB
	repo           repository.OutboxTaskRepository
	producer       Producer
	config         PublisherConfig
	log            *zap.Logger
	now            func() time.Time
	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
}

func NewPublisher(db db.DB, repo repository.OutboxTaskRepository, producer Producer, config PublisherConfig, logger *zap.Logger) *Publisher {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	return &Publisher{
		db:             db,
		repo:           repo,
		producer:       producer,
		config:         config,
		log:            logger.With(zap.String("component", "outbox-publisher")),
		now:            time.Now,
		shutdownSignal: make(chan struct{}),
	}
}

func (p *Publisher) Run(ctx context.Context) {
	p.log.Info("Starting outbox publisher", zap.Duration("poll_interval", p.config.PollInterval))
	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil {
				p.log.Error("Outbox publisher failed to process batch", zap.Error(err))
			}
		case <-p.shutdownSignal:
			p.log.Info("Outbox publisher received shutdown signal, stopping")
			return
		case <-ctx.Done():
			p.log.Info("Outbox publisher context cancelled, stopping")
			return
		}
	}
}

func (p *Publisher) Shutdown() {
	p.stopOnce.Do(func() {
		p.log.Info("Initiating outbox publisher shutdown")
		close(p.shutdownSignal)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			p.log.Info("Outbox publisher shutdown complete")
		case <-shutdownCtx.Done():
			p.log.Warn("Outbox publisher shutdown timed out")
		}

		if err := p.producer.Close(); err != nil {
			p.log.Error("Failed to close Kafka producer", zap.Error(err))
		}
	})
}

// ProcessBatch claims one batch of tasks and sends them. It returns the number
// of tasks sent successfully.
func (p *Publisher) ProcessBatch(ctx context.Context) (int, error) {
	tx, err := p.db.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for fetching tasks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	tasks, err := p.repo.GetProcessableTasksTx(ctx, tx, p.config.BatchSize, p.config.MaxAttempts)
	if err != nil {
		return 0, fmt.Errorf("failed to get processable tasks: %w", err)
	}

	if len(tasks) == 0 {
		return 0, tx.Commit(ctx)
	}

	p.log.Debug("Outbox publisher fetched tasks", zap.Int("tasks", len(tasks)))

	for _, task := range tasks {
		err := p.repo.UpdateTaskStatusTx(ctx, tx, task.ID, repository.TaskStatusProcessing, task.Attempts, nil, nil)
		if err != nil {
			return 0, fmt.Errorf("failed to mark task %s as PROCESSING: %w", task.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction after marking tasks as PROCESSING: %w", err)
	}

	sent := 0
	for _, task := range tasks {
		select {
		case <-p.shutdownSignal:
			p.log.Warn("Shutdown signal received during batch processing", zap.Stringer("task_id", task.ID))
			return sent, errors.New("publisher shutdown during batch processing")
		case <-ctx.Done():
			return sent, ctx.Err()
		default:
		}

		if err := p.processSingleTask(ctx, task); err != nil {
			p.log.Error("Failed to process task", zap.Stringer("task_id", task.ID), zap.Error(err))
			continue
		}
		sent++
	}

	return sent, nil
}

func (p *Publisher) processSingleTask(ctx context.Context, task *repository.OutboxTask) error {
	err := p.producer.SendMessage(ctx, task.Topic, task.MessageKey(), task.Payload)
	if err != nil {
		metrics.OutboxPublishedTotal.WithLabelValues("failed").Inc()
		newAttempts := task.Attempts + 1
		errMsg := err.Error()

		if newAttempts >= p.config.MaxAttempts {
			p.log.Error("Task reached max attempts, giving up",
				zap.Stringer("task_id", task.ID),
				zap.Int("attempts", newAttempts),
			)
		}

		updateErr := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusFailed, newAttempts, &errMsg, nil)
		if updateErr != nil {
			return fmt.Errorf("failed to update task status after send failure: %w (send error: %v)", updateErr, err)
		}
		return err
	}

	metrics.OutboxPublishedTotal.WithLabelValues("sent").Inc()
	now := p.now().UTC()
	updateErr := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusDone, task.Attempts, nil, &now)
	if updateErr != nil {
		return fmt.Errorf("failed to update task status after successful send: %w", updateErr)
	}

	return nil
}
