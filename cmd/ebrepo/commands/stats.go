package commands

import (
	"fmt"
	"log/slog"

	"github.com/piojo/easybuild-framework/internal/logfields"
	"github.com/piojo/easybuild-framework/internal/repository"
)

// StatsCmd implements the 'stats' command: print the accumulated build
// statistics for one package/version, oldest first.
type StatsCmd struct {
	Name    string `arg:"" help:"Software package name"`
	Release string `arg:"" name:"pkg-version" help:"Software package version"`
}

func (c *StatsCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, root.Verbose)
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

	entries, err := repo.GetStats(c.Name, c.Release)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("no build statistics recorded for %s/%s\n", c.Name, c.Release)
		return nil
	}
	for i, entry := range entries {
		fmt.Printf("%d: %s\n", i+1, entry)
	}
	return nil
}
