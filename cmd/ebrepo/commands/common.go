package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/piojo/easybuild-framework/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Add   AddCmd   `cmd:"" help:"Record one build's configuration snapshot and statistics"`
	Stats StatsCmd `cmd:"" help:"Show the recorded build statistics for a package/version"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads and validates the configuration, then re-applies the
// configured logging settings unless --verbose already forced debug.
func loadConfig(path string, verbose bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if !verbose {
		slog.SetDefault(cfg.Logging.NewLogger())
	}
	return cfg, nil
}
