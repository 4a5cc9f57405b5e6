// Package engine wires trigger sources to the scheduler and runs them as one
// unit of work.
package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/grovetools/steam-shortcut-sync/internal/daemon/scheduler"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/store"
)

// triggerBuffer absorbs short bursts from producers while the coordinator is busy.
const triggerBuffer = 16

// StartupSource names the trigger emitted when the engine starts.
const StartupSource = "startup"

// Source is a background producer of sync triggers.
type Source interface {
	// Name returns the unique identifier for this source.
	Name() string

	// Run emits triggers until ctx is cancelled or st stops running.
	// A returned error stops the whole engine.
	Run(ctx context.Context, st *store.Store, triggers chan<- store.Trigger) error
}

// Engine manages the scheduler and every registered source.
type Engine struct {
	store       *store.Store
	scheduler   *scheduler.Scheduler
	sources     []Source
	initialSync bool
	logger      *logrus.Entry
}

// New creates a new Engine instance.
func New(st *store.Store, sched *scheduler.Scheduler, logger *logrus.Entry) *Engine {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		store:     st,
		scheduler: sched,
		logger:    logger,
	}
}

// Register adds a source to the engine.
func (e *Engine) Register(s Source) {
	e.sources = append(e.sources, s)
}

// SetInitialSync controls whether a pass is queued as soon as the engine starts.
func (e *Engine) SetInitialSync(enabled bool) {
	e.initialSync = enabled
}

// Start runs the scheduler and all sources and blocks until they have all
// returned. The first error cancels the rest and is returned. Cancelling ctx
// is a clean shutdown and returns nil.
func (e *Engine) Start(ctx context.Context) error {
	triggers := make(chan store.Trigger, triggerBuffer)
	g, gctx := errgroup.WithContext(ctx)

	// Flip the running flag as soon as shutdown starts, whatever caused it
	g.Go(func() error {
		<-gctx.Done()
		if e.store.Stop() {
			e.logger.Info("Shutting down")
		}
		return nil
	})

	g.Go(func() error {
		return e.scheduler.Run(gctx, triggers)
	})

	for _, s := range e.sources {
		src := s
		g.Go(func() error {
			log := e.logger.WithField("source", src.Name())
			log.Info("Starting source")
			if err := src.Run(gctx, e.store, triggers); err != nil {
				log.WithError(err).Error("Source failed")
				return err
			}
			log.Debug("Source stopped")
			return nil
		})
	}

	if e.initialSync {
		triggers <- store.Trigger{Source: StartupSource, At: time.Now()}
	}

	return g.Wait()
}
