package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piojo/easybuild-framework/internal/config"
	"github.com/piojo/easybuild-framework/internal/repository"
)

func TestParseStatFieldsOrderAndCoercion(t *testing.T) {
	entry, err := parseStatFields([]string{"time=120", "elapsed=1.5", "ok=true", "host=node001"})
	require.NoError(t, err)

	fields := entry.Fields()
	require.Len(t, fields, 4)
	assert.Equal(t, "time", fields[0].Name)
	assert.Equal(t, 120, fields[0].Value)
	assert.Equal(t, 1.5, fields[1].Value)
	assert.Equal(t, true, fields[2].Value)
	assert.Equal(t, "node001", fields[3].Value)
}

func TestParseStatFieldsRejectsMalformed(t *testing.T) {
	_, err := parseStatFields([]string{"noequals"})
	assert.Error(t, err)
	_, err = parseStatFields([]string{"=value"})
	assert.Error(t, err)
}

func setupProject(t *testing.T) (root *CLI, repoRoot string, srcPath string) {
	t.Helper()
	dir := t.TempDir()
	repoRoot = filepath.Join(dir, "eb-repo")
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("repository:\n  type: fs\n  path: %s\n", repoRoot)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	srcPath = filepath.Join(dir, "gcc-4.8.eb")
	require.NoError(t, os.WriteFile(srcPath, []byte("name = 'gcc'\nversion = '4.8'\n"), 0o600))
	return &CLI{Config: cfgPath}, repoRoot, srcPath
}

func TestAddCmdRecordsAndAppends(t *testing.T) {
	root, repoRoot, src := setupProject(t)

	add := &AddCmd{Easyconfig: src, Name: "gcc", Release: "4.8",
		Stat: []string{"time=120"}, NoCommit: true}
	require.NoError(t, add.Run(&Global{}, root))

	again := &AddCmd{Easyconfig: src, Name: "gcc", Release: "4.8",
		Stat: []string{"time=90"}, NoCommit: true}
	require.NoError(t, again.Run(&Global{}, root))

	repo, err := repository.New(config.RepositoryConfig{Type: config.BackendFile, Path: repoRoot})
	require.NoError(t, err)
	defer repo.Cleanup()

	entries, err := repo.GetStats("gcc", "4.8")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	v, _ := entries[0].Get("time")
	assert.Equal(t, 120, v)
	v, _ = entries[1].Get("time")
	assert.Equal(t, 90, v)
}

func TestStatsCmdOnEmptyRepository(t *testing.T) {
	root, _, _ := setupProject(t)
	stats := &StatsCmd{Name: "neverbuilt", Release: "1.0"}
	assert.NoError(t, stats.Run(&Global{}, root))
}

func TestInitCmdWritesConfig(t *testing.T) {
	dir := t.TempDir()
	root := &CLI{Config: filepath.Join(dir, "config.yaml")}

	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))
	_, err := os.Stat(root.Config)
	require.NoError(t, err)

	// Without --force a second init must refuse to clobber.
	assert.Error(t, (&InitCmd{}).Run(&Global{}, root))
	assert.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))
}
