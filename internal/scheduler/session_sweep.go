// Package scheduler runs periodic maintenance on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"grantscope/internal/config"
)

// SweepFunc performs one sweep of expired sessions. It is usually a closure
// that enqueues a cleanup task on the task queue.
type SweepFunc func() error

// SessionSweepScheduler triggers expired-session cleanup on a cron schedule.
type SessionSweepScheduler struct {
	cfg   config.Auth
	sweep SweepFunc

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSweeping bool
	cancelFunc context.CancelFunc
}

// NewSessionSweepScheduler creates a new scheduler instance.
func NewSessionSweepScheduler(cfg config.Auth, sweep SweepFunc) *SessionSweepScheduler {
	return &SessionSweepScheduler{
		cfg:   cfg,
		sweep: sweep,
		cron:  cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if the sweep is enabled.
func (s *SessionSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.SweepEnabled {
		log.Printf("Session sweep scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.SweepSchedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule '%s': %w", s.cfg.SweepSchedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Session sweep scheduler: started with schedule '%s'. Next run: %v",
		s.cfg.SweepSchedule, s.cron.Entry(entryID).Next)

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (s *SessionSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	// Cancel the derived context so the monitor goroutine exits. Its own
	// re-entrant Stop call finds isRunning already false and returns.
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Printf("Session sweep scheduler: stopped")
}

// RunNow triggers an immediate sweep.
func (s *SessionSweepScheduler) RunNow() {
	go s.runSweep()
}

// IsRunning returns whether the scheduler is active.
func (s *SessionSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will occur.
func (s *SessionSweepScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *SessionSweepScheduler) runSweep() {
	s.mu.Lock()
	if s.isSweeping {
		s.mu.Unlock()
		log.Printf("Session sweep: skipped (already sweeping)")
		return
	}
	s.isSweeping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSweeping = false
		s.mu.Unlock()
	}()

	if err := s.sweep(); err != nil {
		log.Printf("Session sweep: failed: %v", err)
	}
}
