package repository

import (
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/piojo/easybuild-framework/internal/errors"
)

// UpdateOutcome is the tagged result of an update attempt, replacing the
// sentinel revision value the svn client reports when nothing is checked
// out at a location yet.
type UpdateOutcome int

const (
	// UpdateUpToDate means the working copy now reflects the remote.
	UpdateUpToDate UpdateOutcome = iota
	// UpdateNeedsCheckout means nothing is checked out at this location
	// yet and a full checkout is required.
	UpdateNeedsCheckout
)

// UpdateResult reports the outcome of an update, with the resulting
// revision when up to date.
type UpdateResult struct {
	Outcome  UpdateOutcome
	Revision int
}

// PathStatus reports whether a path is tracked by the client.
type PathStatus struct {
	Versioned bool
}

// SvnClient is the centralized-VCS capability consumed by the svn strategy.
// The production implementation shells out to the svn command-line client;
// tests substitute a fake.
type SvnClient interface {
	// IsValidTarget reports whether target is a syntactically valid
	// repository address.
	IsValidTarget(target string) bool
	// Info probes remote metadata; it fails if the target is absent.
	Info(target string) error
	// Update brings the working copy up to date with the remote.
	Update(wc string) (UpdateResult, error)
	// Checkout materializes the remote into the working copy and returns
	// the checked-out revision.
	Checkout(target, wc string) (int, error)
	// Status reports the versioned state of a path.
	Status(path string) (PathStatus, error)
	// Add schedules a path for addition.
	Add(path string, force bool) error
	// Checkin commits the working copy recursively with the message.
	Checkin(wc, message string) error
}

// NewExecSvnClient probes for the svn binary and returns a client that
// shells out to it. The probe happens here, at backend-selection time, so a
// missing client surfaces as a typed configuration error instead of an
// ambiguous failure on first use.
func NewExecSvnClient() (SvnClient, error) {
	bin, err := exec.LookPath("svn")
	if err != nil {
		return nil, errors.ClientUnavailable("svn", err)
	}
	return &execSvnClient{bin: bin}, nil
}

type execSvnClient struct {
	bin string
}

var svnSchemes = map[string]bool{
	"file":    true,
	"http":    true,
	"https":   true,
	"svn":     true,
	"svn+ssh": true,
}

func (c *execSvnClient) IsValidTarget(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return svnSchemes[u.Scheme]
}

func (c *execSvnClient) Info(target string) error {
	_, err := c.run("info", "--depth", "empty", target)
	return err
}

var svnRevisionRe = regexp.MustCompile(`revision (\d+)`)

func (c *execSvnClient) Update(wc string) (UpdateResult, error) {
	out, err := c.run("update", wc)
	if err != nil {
		if isNotWorkingCopy(err) {
			return UpdateResult{Outcome: UpdateNeedsCheckout}, nil
		}
		return UpdateResult{}, err
	}
	// "At revision N." or "Updated to revision N."
	if m := svnRevisionRe.FindStringSubmatch(out); m != nil {
		rev, _ := strconv.Atoi(m[1])
		return UpdateResult{Outcome: UpdateUpToDate, Revision: rev}, nil
	}
	return UpdateResult{Outcome: UpdateUpToDate}, nil
}

func (c *execSvnClient) Checkout(target, wc string) (int, error) {
	out, err := c.run("checkout", target, wc)
	if err != nil {
		return 0, err
	}
	if m := svnRevisionRe.FindStringSubmatch(out); m != nil {
		rev, _ := strconv.Atoi(m[1])
		return rev, nil
	}
	return 0, nil
}

func (c *execSvnClient) Status(path string) (PathStatus, error) {
	out, err := c.run("status", "--depth", "empty", path)
	if err != nil {
		return PathStatus{}, err
	}
	// svn status prints nothing for an unmodified versioned path and a
	// line starting with '?' for an unversioned one.
	line := strings.TrimSpace(out)
	return PathStatus{Versioned: !strings.HasPrefix(line, "?")}, nil
}

func (c *execSvnClient) Add(path string, force bool) error {
	args := []string{"add", "--parents"}
	if force {
		args = append(args, "--force", "--depth", "infinity")
	}
	args = append(args, path)
	_, err := c.run(args...)
	return err
}

func (c *execSvnClient) Checkin(wc, message string) error {
	// The svn "checkin" is add+commit: pick up anything not yet scheduled,
	// then commit the whole working copy recursively.
	if _, err := c.run("add", "--force", "--depth", "infinity", wc); err != nil && !isNothingToAdd(err) {
		return err
	}
	_, err := c.run("commit", "-m", message, wc)
	return err
}

func (c *execSvnClient) run(args ...string) (string, error) {
	full := append([]string{"--non-interactive"}, args...)
	out, err := exec.Command(c.bin, full...).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("svn %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// isNotWorkingCopy matches the client errors meaning "nothing is checked
// out here yet" (E155007: not a working copy).
func isNotWorkingCopy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "E155007") || strings.Contains(msg, "not a working copy")
}

func isNothingToAdd(err error) bool {
	return strings.Contains(err.Error(), "W150002") ||
		strings.Contains(err.Error(), "is already under version control")
}
