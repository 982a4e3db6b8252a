// Package scheduler drives the daily reminder and settlement triggers.
//
// Each trigger fires once per calendar day at its configured local
// wall-clock time. A trigger goroutine sleeps until the next computed
// occurrence, fires, then recomputes; there are no fixed-duration
// sleeps, so drift and zone offsets cannot shift the firing time.
// Starting an already-running scheduler is a no-op.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wonyeong0810/studyBot/internal/app/system/dayclock"
	"go.uber.org/zap"
)

// SweepTimeout bounds one full firing (all communities).
const SweepTimeout = 5 * time.Minute

// Trigger is one named daily firing. Run receives a context bounded by
// SweepTimeout and must iterate all communities itself; the scheduler
// only decides when.
type Trigger struct {
	Name string
	At   dayclock.TimeOfDay
	Run  func(ctx context.Context)
}

// Scheduler owns one goroutine per trigger.
type Scheduler struct {
	clock    *dayclock.Clock
	log      *zap.Logger
	triggers []Trigger

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates a scheduler for the given triggers. Nothing runs until
// Start is called.
func New(clock *dayclock.Clock, logger *zap.Logger, triggers ...Trigger) *Scheduler {
	return &Scheduler{
		clock:    clock,
		log:      logger,
		triggers: triggers,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the trigger goroutines. Calling Start on a running
// (or stopped) scheduler is a no-op, not an error, so duplicate starts
// from re-entrant glue cannot double-fire triggers.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for _, t := range s.triggers {
		s.wg.Add(1)
		go s.run(t)
		s.log.Info("trigger scheduled",
			zap.String("trigger", t.Name),
			zap.String("at", t.At.String()))
	}
}

// Stop signals every trigger goroutine and waits for them to finish.
// A sweep already in flight runs to completion.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) run(t Trigger) {
	defer s.wg.Done()

	for {
		now := s.clock.Now()
		next := s.clock.Next(now, t.At)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-s.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			s.fire(t)
		}
	}
}

func (s *Scheduler) fire(t Trigger) {
	sweepID := uuid.NewString()
	started := time.Now()
	s.log.Info("trigger firing",
		zap.String("trigger", t.Name),
		zap.String("sweep_id", sweepID))

	ctx, cancel := context.WithTimeout(context.Background(), SweepTimeout)
	defer cancel()
	t.Run(ctx)

	s.log.Info("trigger finished",
		zap.String("trigger", t.Name),
		zap.String("sweep_id", sweepID),
		zap.Duration("elapsed", time.Since(started)))
}
