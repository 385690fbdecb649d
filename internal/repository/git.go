package repository

import (
	stderrors "errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/piojo/easybuild-framework/internal/errors"
	"github.com/piojo/easybuild-framework/internal/logfields"
	"github.com/piojo/easybuild-framework/internal/metrics"
)

// gitStrategy is the distributed backend: clone/pull on acquisition,
// stage/commit/push on save, temporary working copy removed on release.
type gitStrategy struct {
	remote string
	deps   strategyDeps

	tmpDir string
	wc     string
	repo   *gogit.Repository
}

func newGitStrategy(remote string, deps strategyDeps) *gitStrategy {
	return &gitStrategy{remote: remote, deps: deps}
}

func (g *gitStrategy) Name() string { return "git" }

func (g *gitStrategy) Prepare() error {
	if g.tmpDir != "" {
		return nil
	}
	dir, err := os.MkdirTemp("", "git-wc-")
	if err != nil {
		return errors.WriteFailure("git working copy", err)
	}
	g.tmpDir = dir
	return nil
}

// Acquire clones the remote into the temporary directory and pulls the
// latest state. Both steps are best-effort: an unreachable remote degrades
// the session to local-only instead of aborting construction.
func (g *gitStrategy) Acquire() (string, error) {
	g.wc = filepath.Join(g.tmpDir, repoNameFromURL(g.remote))

	start := time.Now()
	repo, err := gogit.PlainClone(g.wc, false, &gogit.CloneOptions{URL: g.remote})
	g.deps.rec.ObserveSyncDuration(g.Name(), "clone", time.Since(start))
	if err != nil {
		g.deps.rec.IncSyncResult(g.Name(), "clone", metrics.ResultWarning)
		g.deps.logger.Warn("Clone failed, continuing with local-only working copy",
			logfields.Remote(g.remote), logfields.WorkingCopy(g.wc), logfields.Error(err))
		repo, err = g.openOrInit()
		if err != nil {
			return "", err
		}
	} else {
		g.deps.rec.IncSyncResult(g.Name(), "clone", metrics.ResultSuccess)
	}
	g.repo = repo

	g.pull()
	return g.wc, nil
}

// openOrInit recovers a working copy when clone failed: reuse a directory a
// previous clone attempt left behind, or initialize an empty repository
// wired to the remote so a later push can still publish.
func (g *gitStrategy) openOrInit() (*gogit.Repository, error) {
	if repo, err := gogit.PlainOpen(g.wc); err == nil {
		return repo, nil
	}
	if err := os.MkdirAll(g.wc, recordDirPerm); err != nil {
		return nil, errors.WriteFailure(g.wc, err)
	}
	repo, err := gogit.PlainInit(g.wc, false)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal,
			"cannot initialize local git working copy").WithContext("working_copy", g.wc)
	}
	_, err = repo.CreateRemote(&gitcfg.RemoteConfig{Name: "origin", URLs: []string{g.remote}})
	if err != nil {
		g.deps.logger.Warn("Could not wire origin remote on local-only working copy",
			logfields.Remote(g.remote), logfields.Error(err))
	}
	return repo, nil
}

// pull fetches the latest remote state, best-effort.
func (g *gitStrategy) pull() {
	wt, err := g.repo.Worktree()
	if err != nil {
		g.deps.logger.Warn("No worktree for pull", logfields.WorkingCopy(g.wc), logfields.Error(err))
		return
	}
	start := time.Now()
	err = wt.Pull(&gogit.PullOptions{RemoteName: "origin"})
	g.deps.rec.ObserveSyncDuration(g.Name(), "pull", time.Since(start))
	switch {
	case err == nil, stderrors.Is(err, gogit.NoErrAlreadyUpToDate):
		g.deps.rec.IncSyncResult(g.Name(), "pull", metrics.ResultSuccess)
		g.deps.logger.Debug("Pulled latest state", logfields.WorkingCopy(g.wc))
	default:
		g.deps.rec.IncSyncResult(g.Name(), "pull", metrics.ResultWarning)
		g.deps.logger.Warn("Pull failed, keeping best-known working copy state",
			logfields.Remote(g.remote), logfields.WorkingCopy(g.wc), logfields.Error(err))
	}
}

// Stage adds the written record to the index.
func (g *gitStrategy) Stage(recordPath string) error {
	wt, err := g.repo.Worktree()
	if err != nil {
		return errors.SyncWarning("add", g.wc, g.remote, err)
	}
	rel, err := filepath.Rel(g.wc, recordPath)
	if err != nil {
		return errors.SyncWarning("add", g.wc, g.remote, err)
	}
	if _, err := wt.Add(rel); err != nil {
		return errors.SyncWarning("add", g.wc, g.remote, err)
	}
	return nil
}

// Publish commits staged changes and pushes them to the remote. A clean
// worktree ("nothing to commit") and push failures are both warnings.
func (g *gitStrategy) Publish(message string) error {
	wt, err := g.repo.Worktree()
	if err != nil {
		return errors.SyncWarning("commit", g.wc, g.remote, err)
	}

	status, err := wt.Status()
	if err != nil {
		return errors.SyncWarning("status", g.wc, g.remote, err)
	}
	if status.IsClean() {
		g.deps.logger.Debug("Nothing to commit", logfields.WorkingCopy(g.wc))
	} else {
		sig := &object.Signature{
			Name:  currentUsername(),
			Email: currentUsername() + "@" + hostnameOrUnknown(),
			When:  time.Now(),
		}
		if _, err := wt.Commit(message, &gogit.CommitOptions{Author: sig}); err != nil {
			return errors.SyncWarning("commit", g.wc, g.remote, err)
		}
		g.deps.logger.Debug("Committed working copy", logfields.WorkingCopy(g.wc))
	}

	start := time.Now()
	err = g.repo.Push(&gogit.PushOptions{RemoteName: "origin"})
	g.deps.rec.ObserveSyncDuration(g.Name(), "push", time.Since(start))
	if err != nil && !stderrors.Is(err, gogit.NoErrAlreadyUpToDate) {
		g.deps.rec.IncSyncResult(g.Name(), "push", metrics.ResultWarning)
		return errors.SyncWarning("push", g.wc, g.remote, err)
	}
	g.deps.rec.IncSyncResult(g.Name(), "push", metrics.ResultSuccess)
	return nil
}

func (g *gitStrategy) Release() error {
	if g.tmpDir == "" {
		return nil
	}
	if err := os.RemoveAll(g.tmpDir); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityWarning,
			"cannot remove git working copy").WithContext("working_copy", g.tmpDir)
	}
	g.tmpDir = ""
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

// repoNameFromURL derives the local clone directory name from the remote
// URL, e.g. "git@example.com:eb/easyconfigs.git" -> "easyconfigs".
func repoNameFromURL(remote string) string {
	trimmed := strings.TrimRight(remote, "/")
	name := path.Base(trimmed)
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	if name == "" || name == "." || name == "/" {
		return "repo"
	}
	return name
}
