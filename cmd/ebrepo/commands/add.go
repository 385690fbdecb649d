package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/piojo/easybuild-framework/internal/easyconfig"
	"github.com/piojo/easybuild-framework/internal/logfields"
	"github.com/piojo/easybuild-framework/internal/repository"
)

// AddCmd records one build: it writes the configuration snapshot plus a
// statistics entry, stages it if the backend is versioned, and commits.
type AddCmd struct {
	Easyconfig string   `arg:"" type:"existingfile" help:"Source configuration file to snapshot"`
	Name       string   `short:"n" required:"" help:"Software package name"`
	Release    string   `short:"r" name:"pkg-version" required:"" help:"Software package version"`
	Stat       []string `short:"s" placeholder:"KEY=VALUE" help:"Statistics entry fields, in order (repeatable)"`
	Message    string   `short:"m" help:"Commit message free text" default:"add build record"`
	NoCommit   bool     `help:"Write and stage the record without committing"`
}

func (c *AddCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, root.Verbose)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(c.Easyconfig)
	if err != nil {
		return fmt.Errorf("read source configuration: %w", err)
	}
	entry, err := parseStatFields(c.Stat)
	if err != nil {
		return err
	}

	repo, err := repository.New(cfg.Repository)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Cleanup(); err != nil {
			slog.Warn("Cleanup failed", logfields.Error(err))
		}
	}()

	previous, err := repo.GetStats(c.Name, c.Release)
	if err != nil {
		return err
	}
	dest, err := repo.AddRecord(source, c.Name, c.Release, entry, len(previous) > 0)
	if err != nil {
		return err
	}
	slog.Info("Build record written",
		logfields.Name(c.Name), logfields.Version(c.Release), logfields.Path(dest))

	if c.NoCommit {
		return nil
	}
	return repo.Commit(fmt.Sprintf("%s (%s/%s)", c.Message, c.Name, c.Release))
}

// parseStatFields turns repeated KEY=VALUE flags into an ordered entry,
// coercing values to int, float or bool where they parse as such.
func parseStatFields(raw []string) (easyconfig.Entry, error) {
	var entry easyconfig.Entry
	for _, kv := range raw {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return easyconfig.Entry{}, fmt.Errorf("invalid statistic %q (expected KEY=VALUE)", kv)
		}
		entry.Set(key, coerceValue(val))
	}
	return entry, nil
}

func coerceValue(raw string) any {
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
