// Package syncer runs one reconciliation pass between the Steam-managed
// shortcut population and the launcher's applications directory.
package syncer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/grovetools/steam-shortcut-sync/internal/icon"
	"github.com/grovetools/steam-shortcut-sync/internal/reconcile"
	"github.com/grovetools/steam-shortcut-sync/internal/shortcut"
	"github.com/sirupsen/logrus"
)

// Config holds the directories a pass reads and writes.
type Config struct {
	// SteamDataDir is the Flatpak Steam data root. Source entries live in
	// its applications/ subdirectory and source icons under icons/hicolor.
	SteamDataDir    string
	ApplicationsDir string
	IconsDir        string
	PixmapsDir      string
	LaunchCommand   string
}

// SourceDir returns the directory Steam writes its own entries to.
func (c Config) SourceDir() string { return filepath.Join(c.SteamDataDir, "applications") }

// IconSourceDir returns the tree searched for game icons.
func (c Config) IconSourceDir() string { return filepath.Join(c.SteamDataDir, "icons", "hicolor") }

// Option configures a Syncer.
type Option func(*Syncer)

// WithPostStep sets the step run after every pass. nil disables it.
func WithPostStep(step PostStep) Option {
	return func(s *Syncer) { s.postStep = step }
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Syncer) { s.logger = logger }
}

// Syncer performs reconciliation passes. A Syncer must not run two passes
// concurrently; the scheduler guarantees this.
type Syncer struct {
	cfg      Config
	codec    *shortcut.Codec
	postStep PostStep
	logger   *logrus.Entry
}

// New validates cfg. It touches nothing on disk; see EnsureDirs.
func New(cfg Config, opts ...Option) (*Syncer, error) {
	if cfg.SteamDataDir == "" || cfg.ApplicationsDir == "" || cfg.IconsDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "steam data, applications and icons directories are required")
	}

	s := &Syncer{
		cfg:    cfg,
		logger: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.codec = shortcut.NewCodec(cfg.LaunchCommand, s.logger)
	return s, nil
}

// Config returns the directories the syncer operates on.
func (s *Syncer) Config() Config { return s.cfg }

// EnsureDirs creates the applications directory. Run calls it before
// mutating anything; the daemon calls it at startup to fail early.
func (s *Syncer) EnsureDirs() error {
	if err := os.MkdirAll(s.cfg.ApplicationsDir, 0755); err != nil {
		return errors.NoApplicationsDir(s.cfg.ApplicationsDir, err)
	}
	return nil
}

// Preview is a computed pass that has not been applied yet.
type Preview struct {
	Plan reconcile.Plan
	// Collisions are source records skipped because another source record
	// sanitizes to the same entry filename.
	Collisions []shortcut.Record

	sourceIDs map[string]struct{}
	keptFiles map[string]struct{}
}

// Plan loads both populations and computes the plan without mutating anything.
func (s *Syncer) Plan(ctx context.Context) (*Preview, error) {
	source, err := s.codec.Load(s.cfg.SourceDir())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "failed to load steam shortcuts").
			WithDetail("path", s.cfg.SourceDir())
	}
	target, err := s.codec.Load(s.cfg.ApplicationsDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "failed to load launcher shortcuts").
			WithDetail("path", s.cfg.ApplicationsDir)
	}

	plan, collisions := reconcile.Compute(source, target).ResolveCollisions(func(r shortcut.Record) string {
		return shortcut.FileName(r.Name)
	})

	p := &Preview{
		Plan:       plan,
		Collisions: collisions,
		sourceIDs:  make(map[string]struct{}, len(source)),
		keptFiles:  make(map[string]struct{}),
	}
	for r := range source {
		p.sourceIDs[r.ID] = struct{}{}
	}
	for _, r := range plan.Keeps() {
		p.keptFiles[shortcut.FileName(r.Name)] = struct{}{}
	}
	return p, nil
}

// Run executes one pass. Per-item failures are collected in the report; the
// returned error is set only when loading, creating the applications
// directory or the post-step fails.
//
// Removes run before adds: entry files are keyed by name and icons by id, so
// an add may reuse the file a remove deletes.
func (s *Syncer) Run(ctx context.Context) (Report, error) {
	report := Report{StartedAt: time.Now()}

	preview, err := s.Plan(ctx)
	if err == nil {
		err = s.EnsureDirs()
	}
	if err != nil {
		report.Duration = time.Since(report.StartedAt)
		return report, err
	}
	plan := preview.Plan

	counts := plan.Counts()
	s.logger.WithFields(logrus.Fields{
		"add":        counts.Add,
		"remove":     counts.Remove,
		"keep":       counts.Keep,
		"collisions": len(preview.Collisions),
	}).Debug("Computed plan")

	for _, rec := range preview.Collisions {
		file := shortcut.FileName(rec.Name)
		s.logger.WithFields(logrus.Fields{"name": rec.Name, "id": rec.ID, "file": file}).Warn("Skipping colliding shortcut")
		report.fail(rec, OpCollision, errors.NameCollision(rec.Name, file))
	}
	for _, rec := range plan.Removes() {
		s.remove(rec, preview, &report)
	}
	for _, rec := range plan.Adds() {
		s.add(rec, &report)
	}
	report.Kept = counts.Keep

	if s.postStep != nil {
		if err := s.postStep(ctx, s.cfg.ApplicationsDir); err != nil {
			report.Duration = time.Since(report.StartedAt)
			return report, errors.Wrap(err, errors.ErrCodePostStepFailed, "failed to refresh desktop database").
				WithDetail("path", s.cfg.ApplicationsDir)
		}
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

func (s *Syncer) add(rec shortcut.Record, report *Report) {
	log := s.logger.WithFields(logrus.Fields{"name": rec.Name, "id": rec.ID})

	if err := s.codec.Write(rec, s.cfg.ApplicationsDir); err != nil {
		log.WithError(err).Warn("Failed to write shortcut")
		report.fail(rec, OpWriteEntry, err)
		return
	}
	report.Added++
	log.Info("Added shortcut")

	src, ok := icon.Resolve(rec.ID, s.cfg.IconSourceDir())
	if !ok {
		err := errors.IconNotFound(rec.ID, s.cfg.IconSourceDir())
		log.Warn("Icon not found")
		report.fail(rec, OpCopyIcon, err)
		return
	}

	dst := filepath.Join(s.cfg.IconsDir, icon.FileName(rec.ID))
	if err := copyFile(src, dst); err != nil {
		log.WithError(err).Warn("Failed to copy icon")
		report.fail(rec, OpCopyIcon, err)
		return
	}
	log.WithField("icon", src).Debug("Copied icon")
}

func (s *Syncer) remove(rec shortcut.Record, preview *Preview, report *Report) {
	log := s.logger.WithFields(logrus.Fields{"name": rec.Name, "id": rec.ID})

	if _, kept := preview.keptFiles[shortcut.FileName(rec.Name)]; kept {
		log.Debug("Entry file belongs to a kept shortcut, leaving it")
	} else if err := s.codec.Remove(rec.Name, s.cfg.ApplicationsDir); err != nil {
		log.WithError(err).Warn("Failed to remove shortcut")
		report.fail(rec, OpRemoveEntry, err)
	} else {
		report.Removed++
		log.Info("Removed shortcut")
	}

	// A renamed game keeps its id, and with it the icon
	if _, ok := preview.sourceIDs[rec.ID]; ok {
		return
	}

	userIcon := filepath.Join(s.cfg.IconsDir, icon.FileName(rec.ID))
	if err := os.Remove(userIcon); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to remove icon")
		report.fail(rec, OpRemoveIcon, err)
	}

	if s.cfg.PixmapsDir == "" {
		return
	}
	if pixmap, ok := icon.Resolve(rec.ID, s.cfg.PixmapsDir); ok {
		if err := os.Remove(pixmap); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("icon", pixmap).Warn("Failed to remove system icon")
			report.fail(rec, OpRemoveIcon, err)
		}
	}
}

// copyFile copies src to dst through a temporary file in dst's directory.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create icon directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open icon: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".icon-*")
	if err != nil {
		return fmt.Errorf("create temp icon: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copy icon: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod icon: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close icon: %w", err)
	}
	return os.Rename(tmp.Name(), dst)
}
