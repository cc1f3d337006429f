package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestLoadParsesEntriesInFileOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[
		{"title": "First Video", "date_watched": "2024-01-01 10:00:00"},
		{"title": "Second Video", "date_watched": "2024-01-01 09:00:00"}
	]`)
	writeFile(t, dir, "b.json", `[
		{"title": "Third Video", "date_watched": "2023-12-31 23:00:00"}
	]`)

	records, result, err := New(dir, zerolog.Nop()).Load()
	require.NoError(t, err)

	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 3, result.Entries)
	assert.Equal(t, 0, result.FilesFailed)
	assert.Equal(t, 0, result.EntriesDropped)

	// Encounter order is file-then-entry, not chronological
	require.Len(t, records, 3)
	assert.Equal(t, "First Video", records[0].Title)
	assert.Equal(t, "Second Video", records[1].Title)
	assert.Equal(t, "Third Video", records[2].Title)

	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	assert.True(t, records[0].Timestamp.Equal(want))
}

func TestLoadDecodesHTMLEntities(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[
		{"title": "Don&#39;t Stop Me Now &amp; More", "date_watched": "2024-01-01 10:00:00"}
	]`)

	records, _, err := New(dir, zerolog.Nop()).Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Don't Stop Me Now & More", records[0].Title)
}

func TestLoadPreservesExtraFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[
		{"title": "A", "date_watched": "2024-01-01 10:00:00", "channel_url": "https://example.com", "duration": 213}
	]`)

	records, _, err := New(dir, zerolog.Nop()).Load()
	require.NoError(t, err)
	require.Len(t, records, 1)

	extra := records[0].Extra
	require.NotNil(t, extra)
	assert.JSONEq(t, `"https://example.com"`, string(extra["channel_url"]))
	assert.JSONEq(t, `213`, string(extra["duration"]))
	assert.NotContains(t, extra, "title")
	assert.NotContains(t, extra, "date_watched")
}

func TestLoadSkipsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{not json at all`)
	writeFile(t, dir, "good.json", `[
		{"title": "Valid", "date_watched": "2024-01-01 10:00:00"}
	]`)

	records, result, err := New(dir, zerolog.Nop()).Load()
	require.NoError(t, err, "a malformed file must not abort the run")

	assert.Equal(t, 1, result.Files)
	assert.Equal(t, 1, result.FilesFailed)
	require.Len(t, records, 1)
	assert.Equal(t, "Valid", records[0].Title)
}

func TestLoadSkipsMalformedEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[
		{"date_watched": "2024-01-01 10:00:00"},
		{"title": "Bad Timestamp", "date_watched": "not a date"},
		{"title": 42, "date_watched": "2024-01-01 10:00:00"},
		{"title": "Valid", "date_watched": "2024-01-01 12:00:00"}
	]`)

	records, result, err := New(dir, zerolog.Nop()).Load()
	require.NoError(t, err)

	assert.Equal(t, 3, result.EntriesDropped)
	require.Len(t, records, 1)
	assert.Equal(t, "Valid", records[0].Title)
}

func TestLoadIgnoresNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", "not data")
	writeFile(t, dir, "a.json", `[{"title": "A", "date_watched": "2024-01-01 10:00:00"}]`)

	records, result, err := New(dir, zerolog.Nop()).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Files)
	assert.Len(t, records, 1)
}

func TestLoadEmptyDirectory(t *testing.T) {
	records, result, err := New(t.TempDir(), zerolog.Nop()).Load()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, result.Files)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, _, err := New(filepath.Join(t.TempDir(), "nope"), zerolog.Nop()).Load()
	assert.Error(t, err)
}
