package repository

import (
	"log/slog"

	"github.com/piojo/easybuild-framework/internal/config"
	"github.com/piojo/easybuild-framework/internal/errors"
	"github.com/piojo/easybuild-framework/internal/metrics"
)

// Strategy is the synchronization side of a repository backend. Local
// staging handles record I/O; a Strategy only acquires, stages, publishes
// and releases the working copy.
//
// Prepare and Acquire may fail fatally (configuration-class errors).
// Stage and Publish return warning-severity errors for remote hiccups;
// the Repository facade logs those and continues.
type Strategy interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Prepare probes required client capability and allocates any
	// ephemeral resources. Idempotent.
	Prepare() error

	// Acquire produces a usable working-copy directory reflecting the
	// current backing-store state and returns its path.
	Acquire() (string, error)

	// Stage marks a written record path for inclusion in the next publish.
	Stage(path string) error

	// Publish persists pending changes durably with the given message.
	Publish(message string) error

	// Release frees ephemeral resources. Safe to call after failures.
	Release() error
}

// strategyDeps carries the facade's logger and recorder into a strategy so
// warning paths are logged and counted consistently.
type strategyDeps struct {
	logger *slog.Logger
	rec    metrics.Recorder
}

func newStrategy(cfg config.RepositoryConfig, deps strategyDeps, svn SvnClient) (Strategy, error) {
	switch cfg.Type {
	case config.BackendFile:
		return newLocalStrategy(cfg.Path, cfg.Subdir), nil
	case config.BackendGit:
		return newGitStrategy(cfg.Path, deps), nil
	case config.BackendSvn:
		return newSvnStrategy(cfg.Path, cfg.Subdir, svn, deps)
	default:
		return nil, errors.InvalidTarget(cfg.Path, "unknown backend type "+string(cfg.Type))
	}
}

// localStrategy is the plain filesystem backend: the working copy is the
// root itself and there is nothing to synchronize.
type localStrategy struct {
	root   string
	subdir string
}

func newLocalStrategy(root, subdir string) *localStrategy {
	return &localStrategy{root: root, subdir: subdir}
}

func (l *localStrategy) Name() string { return "fs" }

func (l *localStrategy) Prepare() error {
	return NewStaging(l.root, l.subdir).EnsureLayout()
}

func (l *localStrategy) Acquire() (string, error) { return l.root, nil }

func (l *localStrategy) Stage(string) error { return nil }

func (l *localStrategy) Publish(string) error { return nil }

func (l *localStrategy) Release() error { return nil }
