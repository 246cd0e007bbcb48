package jobs

import (
	"context"

	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

// StaleCleaner drops expired entries (see session.MemoryStore)
type StaleCleaner interface {
	CleanStale() int
}

// SessionCleanupJob evicts expired in-memory sessions
type SessionCleanupJob struct {
	store  StaleCleaner
	logger *logger.Logger
}

// NewSessionCleanupJob creates a new session cleanup job
func NewSessionCleanupJob(store StaleCleaner, log *logger.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		store:  store,
		logger: log,
	}
}

// Name returns the job name
func (j *SessionCleanupJob) Name() string {
	return "session_cleanup"
}

// Schedule returns the cron schedule (every 10 minutes)
func (j *SessionCleanupJob) Schedule() string {
	return "0 */10 * * * *"
}

// Run executes the cleanup
func (j *SessionCleanupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled session cleanup")

	count := j.store.CleanStale()

	if count > 0 {
		j.logger.WithField("removed", count).Info("Session cleanup completed")
	}

	return nil
}
