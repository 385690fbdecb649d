package repository

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piojo/easybuild-framework/internal/easyconfig"
	"github.com/piojo/easybuild-framework/internal/errors"
	ebversion "github.com/piojo/easybuild-framework/internal/version"
)

const (
	// RecordExt is the extension of build-record files.
	RecordExt = ".eb"

	// TimestampFormat is used in record headers and commit messages.
	TimestampFormat = "2006-01-02_15-04-05"

	recordDirPerm  = 0o750
	recordFilePerm = 0o644
)

// Staging writes and reads build records in the working-copy file layout
// <root>/<subdir>/<name>/<version>.eb. It has no remote synchronization;
// the VCS strategies layer that on top.
type Staging struct {
	root   string
	subdir string
}

// NewStaging returns a Staging rooted at the given working copy.
func NewStaging(root, subdir string) *Staging {
	return &Staging{root: root, subdir: subdir}
}

// Root returns the working-copy root.
func (s *Staging) Root() string { return s.root }

// EnsureLayout creates root and root/subdir if absent. Idempotent.
func (s *Staging) EnsureLayout() error {
	full := filepath.Join(s.root, s.subdir)
	if err := os.MkdirAll(full, recordDirPerm); err != nil {
		return errors.WriteFailure(full, err)
	}
	return nil
}

// WriteRecord persists one build's record. The first write for a key
// produces a fresh document: a generated header, the verbatim source
// content, and a buildstats list literal. A subsequent write (hasPrevious)
// appends only a buildstats.append expression to the existing file, keeping
// history intact and the textual diff small. Returns the destination path.
func (s *Staging) WriteRecord(source []byte, name, version string, entry easyconfig.Entry, hasPrevious bool) (string, error) {
	dir := filepath.Join(s.root, s.subdir, name)
	if err := os.MkdirAll(dir, recordDirPerm); err != nil {
		return "", errors.WriteFailure(dir, err)
	}
	dest := filepath.Join(dir, version+RecordExt)

	if hasPrevious {
		if _, err := os.Stat(dest); err == nil {
			return dest, s.appendStats(dest, entry)
		}
		// Nothing on disk to append to; fall through to a fresh write.
		hasPrevious = false
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "# Built with %s on %s\n", ebversion.Verbose(), time.Now().Format(TimestampFormat))
	b.Write(source)
	b.WriteString(easyconfig.RenderStatsBlock(entry, hasPrevious))

	if err := os.WriteFile(dest, b.Bytes(), recordFilePerm); err != nil {
		return "", errors.WriteFailure(dest, err)
	}
	return dest, nil
}

func (s *Staging) appendStats(dest string, entry easyconfig.Entry) error {
	f, err := os.OpenFile(dest, os.O_APPEND|os.O_WRONLY, recordFilePerm)
	if err != nil {
		return errors.WriteFailure(dest, err)
	}
	defer f.Close()
	if _, err := f.WriteString(easyconfig.RenderStatsBlock(entry, true)); err != nil {
		return errors.WriteFailure(dest, err)
	}
	return nil
}

// ReadStats returns the accumulated statistics entries for a package and
// version, in write order. A key that was never recorded yields an empty
// sequence, not an error.
func (s *Staging) ReadStats(name, version string) ([]easyconfig.Entry, error) {
	dest := filepath.Join(s.root, s.subdir, name, version+RecordExt)
	data, err := os.ReadFile(dest)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WriteFailure(dest, err)
	}
	entries, err := easyconfig.ParseStats(data)
	if err != nil {
		return nil, errors.ParseFailure(dest, err)
	}
	return entries, nil
}

// RecordPath returns where the record for name/version lives, whether or not
// it exists yet.
func (s *Staging) RecordPath(name, version string) string {
	return filepath.Join(s.root, s.subdir, name, version+RecordExt)
}
