// Package config loads and validates the tool configuration: which
// repository backend records are written to, where the backing store lives,
// and how logging behaves.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// BackendType selects one of the repository synchronization strategies.
type BackendType string

const (
	BackendFile BackendType = "fs"
	BackendGit  BackendType = "git"
	BackendSvn  BackendType = "svn"
)

// Config represents the application configuration
type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RepositoryConfig describes the build-record storage target.
type RepositoryConfig struct {
	// Type selects the backend: fs, git or svn.
	Type BackendType `yaml:"type"`
	// Path is a filesystem path (fs) or remote URL (git, svn).
	Path string `yaml:"path"`
	// Subdir is an optional qualifier below the root, e.g. "easyconfigs".
	Subdir string `yaml:"subdir,omitempty"`
}

// LoggingConfig controls slog handler selection.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env/.env.local if present; the process environment wins.
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	// Expand ${VAR} references so secrets can be kept out of the file.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Repository.Type == "" {
		c.Repository.Type = BackendFile
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	switch c.Repository.Type {
	case BackendFile, BackendGit, BackendSvn:
	default:
		return fmt.Errorf("unknown repository type %q (expected fs, git or svn)", c.Repository.Type)
	}
	if c.Repository.Path == "" {
		return fmt.Errorf("repository path is required")
	}
	return nil
}

// Init writes a starter configuration file for new projects.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Repository: RepositoryConfig{
			Type:   BackendGit,
			Path:   "git@example.com:easybuild/easyconfigs.git",
			Subdir: "easyconfigs",
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// loadEnvFiles loads the first .env file found. Absence is not an error.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			return
		}
	}
}
