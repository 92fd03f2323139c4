// Package scheduler runs periodic maintenance jobs for the preview service.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context)

// Scheduler manages scheduled maintenance jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobs            map[string]cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		logger:          logger,
		jobs:            make(map[string]cron.EntryID),
		jobTimeout:      30 * time.Second,
		gracefulTimeout: 10 * time.Second,
	}
}

// Schedule registers fn under name with a standard cron expression or descriptor
// such as "@every 1m".
func (s *Scheduler) Schedule(name, expr string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q is already scheduled", name)
	}

	entryID, err := s.cron.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		start := time.Now()
		fn(ctx)
		s.logger.WithFields(logrus.Fields{
			"job":         name,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Scheduled job finished")
	})
	if err != nil {
		return fmt.Errorf("failed to add job %q: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.WithFields(logrus.Fields{
		"job":      name,
		"schedule": expr,
	}).Info("Scheduled job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs, up to the graceful
// timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler jobs still running after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the next run time of the named job, or the zero time if
// the job is unknown or the scheduler is stopped.
func (s *Scheduler) NextRun(name string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.jobs[name]
	if !ok || !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}
