package worker

import (
	"context"

	"github.com/vytor/folio/internal/logger"
)

// SessionCleaner removes sessions past their expiry.
type SessionCleaner interface {
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

// SessionCleanupJob deletes expired bearer sessions.
type SessionCleanupJob struct {
	Sessions SessionCleaner
}

func (j *SessionCleanupJob) Name() string { return "session_cleanup" }

func (j *SessionCleanupJob) Run(ctx context.Context) error {
	n, err := j.Sessions.CleanupExpiredSessions(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.FromContext(ctx).Info("removed %d expired sessions", n)
	}
	return nil
}
