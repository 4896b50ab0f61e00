package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SessionSweeper provides the ability to delete expired sessions.
type SessionSweeper interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// CleanupSessionsTask removes session rows whose expiry has passed. Expired
// sessions are already rejected on lookup; this keeps the table from growing
// without bound.
type CleanupSessionsTask struct{}

// Config returns the queue configuration for session cleanup tasks.
func (t CleanupSessionsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_expired_sessions",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     1 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupSessionsProcessor creates a processor function for CleanupSessionsTask.
func CleanupSessionsProcessor(sweeper SessionSweeper) backlite.QueueProcessor[CleanupSessionsTask] {
	return func(ctx context.Context, task CleanupSessionsTask) error {
		if sweeper == nil {
			return fmt.Errorf("session sweeper not configured")
		}

		deleted, err := sweeper.DeleteExpired(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("cleanup expired sessions: %w", err)
		}

		if deleted > 0 {
			log.Printf("[TASK] Cleaned up %d expired sessions", deleted)
		}
		return nil
	}
}

// NewCleanupSessionsQueue creates a backlite queue for session cleanup tasks.
func NewCleanupSessionsQueue(sweeper SessionSweeper) backlite.Queue {
	return backlite.NewQueue(CleanupSessionsProcessor(sweeper))
}
