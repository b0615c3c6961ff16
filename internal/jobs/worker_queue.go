package jobs

import (
	"context"
	"time"

	"github.com/vytor/folio/internal/logger"
	"github.com/vytor/folio/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool     *worker.Pool
	sessions worker.SessionCleaner
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, sessions worker.SessionCleaner) *WorkerQueue {
	return &WorkerQueue{pool: pool, sessions: sessions}
}

func (q *WorkerQueue) EnqueueSessionCleanup() error {
	return q.pool.Submit(&worker.SessionCleanupJob{Sessions: q.sessions})
}

// RunPeriodic calls enqueue once at start and then on every tick until ctx is
// cancelled. Enqueue failures are logged and the schedule continues.
func RunPeriodic(ctx context.Context, interval time.Duration, name string, enqueue func() error) {
	log := logger.FromContext(ctx).WithPrefix("scheduler").WithField("job", name)
	log.Info("scheduling every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := enqueue(); err != nil {
			log.Warn("failed to enqueue: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Debug("scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}
