package repository

import (
	"os"
	"strings"
	"time"

	"github.com/piojo/easybuild-framework/internal/errors"
	"github.com/piojo/easybuild-framework/internal/logfields"
	"github.com/piojo/easybuild-framework/internal/metrics"
)

// svnStrategy is the centralized backend: checkout-or-update on
// acquisition, conditional stage plus recursive checkin on save. Unlike the
// distributed backend, the remote must exist: an invalid or unreachable
// target is fatal because there is no local-only mode to fall back to.
type svnStrategy struct {
	target string
	client SvnClient
	deps   strategyDeps

	wc string
}

func newSvnStrategy(root, subdir string, client SvnClient, deps strategyDeps) (*svnStrategy, error) {
	if client == nil {
		c, err := NewExecSvnClient()
		if err != nil {
			return nil, err
		}
		client = c
	}
	return &svnStrategy{target: joinTarget(root, subdir), client: client, deps: deps}, nil
}

// joinTarget resolves the effective remote address: root plus subdirectory.
func joinTarget(root, subdir string) string {
	if subdir == "" {
		return root
	}
	return strings.TrimRight(root, "/") + "/" + strings.Trim(subdir, "/")
}

func (s *svnStrategy) Name() string { return "svn" }

func (s *svnStrategy) Prepare() error {
	if !s.client.IsValidTarget(s.target) {
		return errors.InvalidTarget(s.target, "not a valid svn repository address")
	}
	if s.wc != "" {
		return nil
	}
	dir, err := os.MkdirTemp("", "svn-wc-")
	if err != nil {
		return errors.WriteFailure("svn working copy", err)
	}
	s.wc = dir
	return nil
}

// Acquire probes the remote, then tries the cheap update first and falls
// back to a full checkout when nothing is checked out yet.
func (s *svnStrategy) Acquire() (string, error) {
	if err := s.client.Info(s.target); err != nil {
		return "", errors.RemoteUnreachable(s.target, err)
	}

	start := time.Now()
	res, err := s.client.Update(s.wc)
	s.deps.rec.ObserveSyncDuration(s.Name(), "update", time.Since(start))
	if err != nil {
		s.deps.rec.IncSyncResult(s.Name(), "update", metrics.ResultFatal)
		return "", errors.Wrap(err, errors.CategorySync, errors.SeverityFatal,
			"update of working copy failed").WithContext("working_copy", s.wc).WithContext("target", s.target)
	}

	switch res.Outcome {
	case UpdateUpToDate:
		s.deps.rec.IncSyncResult(s.Name(), "update", metrics.ResultSuccess)
		s.deps.logger.Debug("Updated working copy",
			logfields.WorkingCopy(s.wc), logfields.Revision(res.Revision))
	case UpdateNeedsCheckout:
		start = time.Now()
		rev, err := s.client.Checkout(s.target, s.wc)
		s.deps.rec.ObserveSyncDuration(s.Name(), "checkout", time.Since(start))
		if err != nil {
			s.deps.rec.IncSyncResult(s.Name(), "checkout", metrics.ResultFatal)
			return "", errors.Wrap(err, errors.CategorySync, errors.SeverityFatal,
				"initial checkout failed").WithContext("working_copy", s.wc).WithContext("target", s.target)
		}
		s.deps.rec.IncSyncResult(s.Name(), "checkout", metrics.ResultSuccess)
		s.deps.logger.Debug("Checked out working copy",
			logfields.WorkingCopy(s.wc), logfields.Revision(rev))
	}
	return s.wc, nil
}

// Stage adds the written record only if it is not already tracked, so
// repeated builds of the same package do not trip the client on re-adds.
func (s *svnStrategy) Stage(recordPath string) error {
	st, err := s.client.Status(recordPath)
	if err != nil {
		return errors.SyncWarning("status", s.wc, s.target, err)
	}
	if st.Versioned {
		return nil
	}
	if err := s.client.Add(recordPath, false); err != nil {
		return errors.SyncWarning("add", s.wc, s.target, err)
	}
	return nil
}

// Publish performs a combined add+commit over the whole working copy.
func (s *svnStrategy) Publish(message string) error {
	start := time.Now()
	err := s.client.Checkin(s.wc, message)
	s.deps.rec.ObservePublishDuration(s.Name(), time.Since(start))
	if err != nil {
		s.deps.rec.IncSyncResult(s.Name(), "checkin", metrics.ResultWarning)
		return errors.SyncWarning("checkin", s.wc, s.target, err)
	}
	s.deps.rec.IncSyncResult(s.Name(), "checkin", metrics.ResultSuccess)
	return nil
}

func (s *svnStrategy) Release() error {
	if s.wc == "" {
		return nil
	}
	if err := os.RemoveAll(s.wc); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityWarning,
			"cannot remove svn working copy").WithContext("working_copy", s.wc)
	}
	s.wc = ""
	return nil
}
