package easyconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStatsBlockFirstWrite(t *testing.T) {
	entry := NewEntry(Field{"time", 120})
	block := RenderStatsBlock(entry, false)
	assert.Equal(t, "\n# Build statistics\nbuildstats = [{\"time\": 120}]\n", block)
}

func TestRenderStatsBlockAppend(t *testing.T) {
	entry := NewEntry(Field{"time", 90})
	block := RenderStatsBlock(entry, true)
	assert.Equal(t, "\nbuildstats.append({\"time\": 90})\n", block)
}

func TestRenderEntryPreservesOrder(t *testing.T) {
	entry := NewEntry(
		Field{"time", 120},
		Field{"host", "node001"},
		Field{"user", "builder"},
	)
	assert.Equal(t, `{"time": 120, "host": "node001", "user": "builder"}`, entry.String())
}

func TestRenderValueKinds(t *testing.T) {
	entry := NewEntry(
		Field{"count", 3},
		Field{"elapsed", 1.5},
		Field{"ok", true},
		Field{"host", "n1"},
	)
	assert.Equal(t, `{"count": 3, "elapsed": 1.5, "ok": true, "host": "n1"}`, entry.String())
}

func TestParseStatsEmptyDocument(t *testing.T) {
	entries, err := ParseStats([]byte("name = 'gcc'\nversion = '4.8'\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseStatsSingleList(t *testing.T) {
	doc := []byte("# Built with EasyBuild unknown on 2026-01-01_00-00-00\n" +
		"name = 'gcc'\n\n# Build statistics\nbuildstats = [{\"time\": 120}]\n")
	entries, err := ParseStats(doc)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	v, ok := entries[0].Get("time")
	require.True(t, ok)
	assert.Equal(t, 120, v)
}

func TestParseStatsListPlusAppends(t *testing.T) {
	doc := []byte("config = true\n" +
		"\n# Build statistics\nbuildstats = [{\"time\": 120, \"host\": \"n1\"}]\n" +
		"\nbuildstats.append({\"time\": 90})\n" +
		"\nbuildstats.append({\"time\": 75, \"user\": \"builder\"})\n")
	entries, err := ParseStats(doc)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.True(t, entries[0].Equal(NewEntry(Field{"time", 120}, Field{"host", "n1"})))
	assert.True(t, entries[1].Equal(NewEntry(Field{"time", 90})))
	assert.True(t, entries[2].Equal(NewEntry(Field{"time", 75}, Field{"user", "builder"})))
}

func TestParseStatsFieldOrderPreserved(t *testing.T) {
	doc := []byte("buildstats = [{\"zeta\": 1, \"alpha\": 2, \"mid\": 3}]\n")
	entries, err := ParseStats(doc)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	fields := entries[0].Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "zeta", fields[0].Name)
	assert.Equal(t, "alpha", fields[1].Name)
	assert.Equal(t, "mid", fields[2].Name)
}

func TestParseStatsIgnoresEmbeddedIdentifier(t *testing.T) {
	// A longer identifier containing the variable name must not parse.
	doc := []byte("mybuildstatsthing = [1]\nbuildstats = [{\"n\": 1}]\n")
	entries, err := ParseStats(doc)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestParseStatsStringWithBrackets(t *testing.T) {
	doc := []byte("buildstats = [{\"note\": \"odd ] ( chars\"}]\nbuildstats.append({\"note\": \") [\"})\n")
	entries, err := ParseStats(doc)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	v, _ := entries[0].Get("note")
	assert.Equal(t, "odd ] ( chars", v)
}

func TestParseStatsUnterminatedList(t *testing.T) {
	_, err := ParseStats([]byte("buildstats = [{\"time\": 1}\n"))
	assert.Error(t, err)
}

func TestRenderParseRoundTrip(t *testing.T) {
	first := NewEntry(Field{"time", 120}, Field{"host", "n1"}, Field{"elapsed", 2.25})
	second := NewEntry(Field{"time", 90})

	doc := "cfg = 1\n" + RenderStatsBlock(first, false) + RenderStatsBlock(second, true)
	entries, err := ParseStats([]byte(doc))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Equal(first))
	assert.True(t, entries[1].Equal(second))
}

func TestEntrySetAndGet(t *testing.T) {
	var e Entry
	e.Set("time", 120)
	e.Set("host", "n1")
	e.Set("time", 130) // replace in place, order unchanged

	require.Equal(t, 2, e.Len())
	assert.Equal(t, "time", e.Fields()[0].Name)
	v, ok := e.Get("time")
	require.True(t, ok)
	assert.Equal(t, 130, v)
}
