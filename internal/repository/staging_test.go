package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piojo/easybuild-framework/internal/easyconfig"
)

const cfgText = "name = 'gcc'\nversion = '4.8'\ntoolchain = {'name': 'dummy'}\n"

func TestEnsureLayoutIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "repo")
	s := NewStaging(root, "easyconfigs")

	require.NoError(t, s.EnsureLayout())
	require.NoError(t, s.EnsureLayout())

	info, err := os.Stat(filepath.Join(root, "easyconfigs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteRecordFirstWrite(t *testing.T) {
	s := NewStaging(t.TempDir(), "")
	entry := easyconfig.NewEntry(easyconfig.Field{Name: "time", Value: 120})

	dest, err := s.WriteRecord([]byte(cfgText), "gcc", "4.8", entry, false)
	require.NoError(t, err)
	assert.Equal(t, s.RecordPath("gcc", "4.8"), dest)
	assert.True(t, strings.HasSuffix(dest, filepath.Join("gcc", "4.8.eb")))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "# Built with EasyBuild "), "header missing: %q", content)
	assert.Contains(t, content, cfgText)
	assert.Contains(t, content, "# Build statistics")
	assert.Contains(t, content, `buildstats = [{"time": 120}]`)
}

func TestWriteRecordAppendKeepsHistory(t *testing.T) {
	s := NewStaging(t.TempDir(), "easyconfigs")
	first := easyconfig.NewEntry(easyconfig.Field{Name: "time", Value: 120})
	second := easyconfig.NewEntry(easyconfig.Field{Name: "time", Value: 90})

	_, err := s.WriteRecord([]byte(cfgText), "gcc", "4.8", first, false)
	require.NoError(t, err)
	dest, err := s.WriteRecord([]byte(cfgText), "gcc", "4.8", second, true)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `buildstats = [{"time": 120}]`)
	assert.Contains(t, content, `buildstats.append({"time": 90})`)
	// The original config snapshot appears exactly once.
	assert.Equal(t, 1, strings.Count(content, "toolchain = "))

	entries, err := s.ReadStats("gcc", "4.8")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Equal(first))
	assert.True(t, entries[1].Equal(second))
}

func TestWriteRecordHasPreviousWithoutFile(t *testing.T) {
	// Caller believes history exists but the file is gone; degrade to a
	// fresh first write instead of an orphaned append expression.
	s := NewStaging(t.TempDir(), "")
	entry := easyconfig.NewEntry(easyconfig.Field{Name: "time", Value: 60})

	dest, err := s.WriteRecord([]byte(cfgText), "zlib", "1.2.8", entry, true)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `buildstats = [{"time": 60}]`)
	assert.NotContains(t, string(data), "buildstats.append")
}

func TestReadStatsNeverRecorded(t *testing.T) {
	s := NewStaging(t.TempDir(), "easyconfigs")
	entries, err := s.ReadStats("neverbuilt", "1.0")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadStatsRoundTripOrder(t *testing.T) {
	s := NewStaging(t.TempDir(), "")
	e1 := easyconfig.NewEntry(
		easyconfig.Field{Name: "time", Value: 120},
		easyconfig.Field{Name: "host", Value: "node001"},
	)
	e2 := easyconfig.NewEntry(easyconfig.Field{Name: "time", Value: 90})

	_, err := s.WriteRecord([]byte(cfgText), "gcc", "4.8", e1, false)
	require.NoError(t, err)
	_, err = s.WriteRecord([]byte(cfgText), "gcc", "4.8", e2, true)
	require.NoError(t, err)

	entries, err := s.ReadStats("gcc", "4.8")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	fields := entries[0].Fields()
	assert.Equal(t, "time", fields[0].Name)
	assert.Equal(t, "host", fields[1].Name)
}

func TestWriteRecordFailureReportsPath(t *testing.T) {
	root := t.TempDir()
	s := NewStaging(root, "")

	// A file where the package directory should be forces MkdirAll to fail.
	blocked := filepath.Join(root, "gcc")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o600))

	_, err := s.WriteRecord([]byte(cfgText), "gcc", "4.8",
		easyconfig.NewEntry(easyconfig.Field{Name: "time", Value: 1}), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filesystem")
}
