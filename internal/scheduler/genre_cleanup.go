package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Enqueuer schedules one orphan genre cleanup run and returns a task ID.
type Enqueuer interface {
	EnqueueGenreCleanup() (string, error)
}

// OrphanGenresCleaner deletes genres no book links to.
type OrphanGenresCleaner interface {
	DeleteOrphans(ctx context.Context) (int64, error)
}

// InlineCleanup runs the cleanup synchronously for deployments without a
// task queue. It satisfies Enqueuer.
type InlineCleanup struct {
	Cleaner OrphanGenresCleaner
	Timeout time.Duration
}

// EnqueueGenreCleanup runs the cleanup immediately. The returned ID is
// always "inline".
func (i InlineCleanup) EnqueueGenreCleanup() (string, error) {
	timeout := i.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	deleted, err := i.Cleaner.DeleteOrphans(ctx)
	if err != nil {
		return "", fmt.Errorf("cleanup orphan genres: %w", err)
	}
	log.Printf("Genre cleanup: removed %d orphan genres", deleted)
	return "inline", nil
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// GenreCleanupScheduler enqueues the orphan genre cleanup on a cron schedule.
type GenreCleanupScheduler struct {
	enqueuer Enqueuer
	schedule string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	lastRun   time.Time
	lastErr   error
}

// NewGenreCleanupScheduler creates a new scheduler instance
func NewGenreCleanupScheduler(enqueuer Enqueuer, schedule string) *GenreCleanupScheduler {
	return &GenreCleanupScheduler{
		enqueuer: enqueuer,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the job and starts cron. The scheduler stops itself when
// ctx is cancelled.
func (s *GenreCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return fmt.Errorf("failed to schedule genre cleanup job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Genre cleanup scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish and stops the scheduler.
func (s *GenreCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Printf("Genre cleanup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *GenreCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will be enqueued, or nil when stopped.
func (s *GenreCleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// LastRun reports when the job last fired and the error it returned.
func (s *GenreCleanupScheduler) LastRun() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastErr
}

func (s *GenreCleanupScheduler) run() {
	id, err := s.enqueuer.EnqueueGenreCleanup()

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		log.Printf("Genre cleanup scheduler: failed to enqueue cleanup: %v", err)
		return
	}
	log.Printf("Genre cleanup scheduler: enqueued cleanup %s", id)
}
