package service

import (
	"context"
	"log/slog"

	"github.com/personal-finance-ledger/internal/domain/activity"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolAuditService runs Record calls of the wrapped service on an ants pool
type WorkerPoolAuditService struct {
	baseService AuditService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolAuditService(
	baseService AuditService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolAuditService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolAuditService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// Record submits the event to the pool and waits for its result
func (s *WorkerPoolAuditService) Record(ctx context.Context, event *activity.Event) error {
	resultChan := make(chan error, 1)
	eventCopy := *event

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.Record(ctx, &eventCopy)
	})
	if err != nil {
		s.logger.Error("Failed to submit activity event to worker pool",
			"event_id", event.EventID.String(),
			"error", err,
		)
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown releases the pool
func (s *WorkerPoolAuditService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

func (s *WorkerPoolAuditService) Running() int {
	return s.pool.Running()
}

func (s *WorkerPoolAuditService) Capacity() int {
	return s.pool.Cap()
}
