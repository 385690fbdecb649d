package repository

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/piojo/easybuild-framework/internal/config"
	"github.com/piojo/easybuild-framework/internal/easyconfig"
	"github.com/piojo/easybuild-framework/internal/errors"
	"github.com/piojo/easybuild-framework/internal/logfields"
	"github.com/piojo/easybuild-framework/internal/metrics"
)

type phase int

const (
	phaseReady phase = iota
	phaseClosed
)

func (p phase) String() string {
	switch p {
	case phaseReady:
		return "ready"
	case phaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Repository is a handle on one build-record storage target. It is created
// once per build session, driven by a single logical sequence of calls
// (AddRecord* -> Commit? -> Cleanup) and is not safe for concurrent use.
type Repository struct {
	cfg      config.RepositoryConfig
	session  string
	logger   *slog.Logger
	rec      metrics.Recorder
	strategy Strategy
	staging  *Staging
	phase    phase

	// svnClient, when set, overrides the exec-based client; used by tests
	// and embedding callers.
	svnClient SvnClient
}

// Option customizes a Repository at construction.
type Option func(*Repository)

// WithLogger sets the logger; defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// WithRecorder sets the metrics recorder; defaults to NoopRecorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Repository) { r.rec = rec }
}

// WithSvnClient injects a specific SvnClient for the centralized backend.
func WithSvnClient(client SvnClient) Option {
	return func(r *Repository) { r.svnClient = client }
}

// New constructs a repository handle bound to the configured target. Setup
// runs first (capability probing, target validation, backing-store
// creation), then working-copy acquisition. Configuration-class failures
// are returned as errors; remote hiccups degrade to local-only operation.
func New(cfg config.RepositoryConfig, opts ...Option) (*Repository, error) {
	r := &Repository{
		cfg:     cfg,
		session: uuid.NewString(),
		logger:  slog.Default(),
		rec:     metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logfields.Session(r.session), logfields.Backend(string(cfg.Type)))

	strategy, err := newStrategy(cfg, strategyDeps{logger: r.logger, rec: r.rec}, r.svnClient)
	if err != nil {
		return nil, err
	}
	r.strategy = strategy

	if err := strategy.Prepare(); err != nil {
		return nil, err
	}
	wc, err := strategy.Acquire()
	if err != nil {
		// Acquisition failed fatally; the temp dir must not leak.
		if relErr := strategy.Release(); relErr != nil {
			r.logger.Warn("Release after failed acquisition", logfields.Error(relErr))
		}
		return nil, err
	}
	r.staging = NewStaging(wc, cfg.Subdir)

	r.logger.Info("Repository ready",
		logfields.Repository(cfg.Path), logfields.WorkingCopy(wc))
	return r, nil
}

// WorkingCopy returns the resolved working-copy path for this session.
func (r *Repository) WorkingCopy() string {
	return r.staging.Root()
}

// Session returns the handle's session identifier.
func (r *Repository) Session() string {
	return r.session
}

// AddRecord writes the record for one build (configuration snapshot plus a
// statistics entry) and stages it if the backend is versioned. A local
// write failure aborts this call only; a staging failure is logged and the
// record stays local. Returns the written path.
func (r *Repository) AddRecord(source []byte, name, version string, entry easyconfig.Entry, hasPrevious bool) (string, error) {
	if err := r.requireReady("AddRecord"); err != nil {
		return "", err
	}
	dest, err := r.staging.WriteRecord(source, name, version, entry, hasPrevious)
	if err != nil {
		r.rec.IncRecordAdded(r.strategy.Name(), metrics.ResultFatal)
		return "", err
	}
	r.logger.Debug("Record written",
		logfields.Name(name), logfields.Version(version), logfields.Path(dest))

	if err := r.strategy.Stage(dest); err != nil {
		r.rec.IncRecordAdded(r.strategy.Name(), metrics.ResultWarning)
		r.logger.Warn("Staging record in version control failed, file remains local",
			logfields.Path(dest), logfields.Error(err))
		return dest, nil
	}
	r.rec.IncRecordAdded(r.strategy.Name(), metrics.ResultSuccess)
	return dest, nil
}

// Commit persists pending records durably and, for VCS backends, publishes
// them. Publish failures are reported and swallowed: one unreachable
// remote must not abort a build campaign that is recording many packages.
func (r *Repository) Commit(msg string) error {
	if err := r.requireReady("Commit"); err != nil {
		return err
	}
	message := BuildCommitMessage(msg, time.Now())
	if err := r.strategy.Publish(message); err != nil {
		if errors.IsFatal(err) {
			return err
		}
		r.logger.Warn("Publish failed, records remain in working copy", logfields.Error(err))
	}
	return nil
}

// GetStats returns the recorded statistics entries for a package/version in
// write order. A never-recorded key yields an empty sequence, not an error.
func (r *Repository) GetStats(name, version string) ([]easyconfig.Entry, error) {
	if err := r.requireReady("GetStats"); err != nil {
		return nil, err
	}
	entries, err := r.staging.ReadStats(name, version)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		r.logger.Debug("No record found",
			logfields.Name(name), logfields.Version(version))
	}
	return entries, nil
}

// Cleanup releases the working copy. It must run even when Commit failed;
// after Cleanup the handle is terminally closed. Removal failure is
// reported but not escalated.
func (r *Repository) Cleanup() error {
	if r.phase == phaseClosed {
		return errors.LifecycleViolation("Cleanup", r.phase.String())
	}
	r.phase = phaseClosed
	if err := r.strategy.Release(); err != nil {
		r.logger.Warn("Working copy release failed", logfields.Error(err))
	}
	r.logger.Info("Repository session closed")
	return nil
}

func (r *Repository) requireReady(op string) error {
	if r.phase != phaseReady {
		return errors.LifecycleViolation(op, r.phase.String())
	}
	return nil
}
