package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CleanupOrphanGenresQueue is the backlite queue name for genre cleanup.
const CleanupOrphanGenresQueue = "cleanup_orphan_genres"

// OrphanGenresCleaner deletes genres no book links to.
type OrphanGenresCleaner interface {
	DeleteOrphans(ctx context.Context) (int64, error)
}

// CleanupOrphanGenresTask removes genres that are no longer linked to any book.
type CleanupOrphanGenresTask struct{}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupOrphanGenresTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        CleanupOrphanGenresQueue,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphanGenresProcessor creates a processor function for CleanupOrphanGenresTask.
func CleanupOrphanGenresProcessor(cleaner OrphanGenresCleaner) backlite.QueueProcessor[CleanupOrphanGenresTask] {
	return func(ctx context.Context, task CleanupOrphanGenresTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan genres cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphans(ctx)
		if err != nil {
			return fmt.Errorf("cleanup orphan genres: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d orphan genres", deleted)
		return nil
	}
}

// NewCleanupOrphanGenresQueue creates a backlite queue for genre cleanup tasks.
func NewCleanupOrphanGenresQueue(cleaner OrphanGenresCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanGenresProcessor(cleaner))
}
