// Package scheduler serializes reconciliation passes and collapses bursts of
// triggers into at most one pending pass.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/store"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/syncer"
	"github.com/sirupsen/logrus"
)

// State is the scheduler's observable phase.
type State int32

const (
	Idle State = iota
	Running
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Runner executes a single reconciliation pass.
type Runner interface {
	Run(ctx context.Context) (syncer.Report, error)
}

// Scheduler owns the only goroutine allowed to run passes.
type Scheduler struct {
	runner Runner
	store  *store.Store
	logger *logrus.Entry
	busy   atomic.Bool
}

// New creates a Scheduler.
func New(runner Runner, st *store.Store, logger *logrus.Entry) *Scheduler {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scheduler{runner: runner, store: st, logger: logger}
}

// State reports whether a pass is in flight.
func (s *Scheduler) State() State {
	if s.busy.Load() {
		return Running
	}
	return Idle
}

// Run consumes triggers until ctx is cancelled, a pass fails fatally, or the
// trigger channel closes. It returns only after any in-flight pass finished.
func (s *Scheduler) Run(ctx context.Context, triggers <-chan store.Trigger) error {
	pending := make(chan store.Trigger, 1)
	fatal := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.work(ctx, pending, fatal)
	}()

	err := s.coordinate(ctx, triggers, pending, fatal)
	close(pending)
	<-done

	if err == nil {
		select {
		case err = <-fatal:
		default:
		}
	}
	return err
}

func (s *Scheduler) coordinate(ctx context.Context, triggers <-chan store.Trigger, pending chan<- store.Trigger, fatal <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Scheduler stopping")
			return nil
		case err := <-fatal:
			return err
		case t, ok := <-triggers:
			if !ok {
				return errors.TriggerChannelClosed()
			}
			s.offer(t, pending)
		}
	}
}

// offer hands t to the worker, or drops it if a pass is already pending. The
// pending pass loads state after t was emitted, so dropping t loses nothing.
func (s *Scheduler) offer(t store.Trigger, pending chan<- store.Trigger) {
	select {
	case pending <- t:
		s.logger.WithField("source", t.Source).Debug("Pass scheduled")
	default:
		s.logger.WithField("source", t.Source).Debug("Trigger coalesced into pending pass")
		if s.store != nil {
			s.store.RecordCoalesced(t)
		}
	}
}

func (s *Scheduler) work(ctx context.Context, pending <-chan store.Trigger, fatal chan<- error) {
	for t := range pending {
		if ctx.Err() != nil {
			s.logger.WithField("source", t.Source).Debug("Discarding pending pass on shutdown")
			continue
		}
		if err := s.runPass(ctx, t); err != nil {
			fatal <- err
			return
		}
	}
}

// runPass runs one pass and returns an error only if it is fatal.
func (s *Scheduler) runPass(ctx context.Context, t store.Trigger) error {
	s.setBusy(true)
	defer s.setBusy(false)

	log := s.logger.WithField("source", t.Source)
	log.Info("Sync started")

	// An in-flight pass always completes, even during shutdown
	report, err := s.runner.Run(context.WithoutCancel(ctx))

	pass := store.Pass{Trigger: t, Report: report}
	if t.At.IsZero() {
		pass.Trigger.At = time.Now()
	}
	if err != nil {
		pass.Error = err.Error()
	}
	if s.store != nil {
		s.store.RecordPass(pass)
	}

	fields := logrus.Fields{
		"added":    report.Added,
		"removed":  report.Removed,
		"kept":     report.Kept,
		"failures": len(report.Failures),
		"duration": report.Duration.Round(time.Millisecond).String(),
	}

	switch {
	case err == nil:
		log.WithFields(fields).Info("Sync complete")
		return nil
	case IsFatal(err):
		log.WithFields(fields).WithError(err).Error("Sync failed fatally")
		return err
	default:
		log.WithFields(fields).WithError(err).Warn("Sync failed")
		return nil
	}
}

func (s *Scheduler) setBusy(busy bool) {
	s.busy.Store(busy)
	if s.store != nil {
		s.store.SetSyncing(busy)
	}
}

// IsFatal reports whether a pass error must stop the daemon.
func IsFatal(err error) bool {
	return errors.Is(err, errors.ErrCodePostStepFailed)
}
