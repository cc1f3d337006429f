package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Analysis.SessionGapHours)
	assert.Equal(t, 2*time.Hour, cfg.SessionGap())
	assert.Equal(t, 0, cfg.Analysis.BingeMinVideos)
	assert.Equal(t, 15, cfg.Analysis.TopChannels)
	assert.Len(t, cfg.Categories, 10)
	assert.Contains(t, cfg.Categories, "Music")
	assert.Len(t, cfg.Interests, 3)
	assert.Equal(t, []string{"norwegian", "pop"}, cfg.Interests["Norwegian Pop"])
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
input:
  dir: /tmp/export
analysis:
  binge_min_videos: 3
`)
	cfg, err := parse(data)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/export", cfg.Input.Dir)
	assert.Equal(t, 3, cfg.Analysis.BingeMinVideos)
	// Defaults should still be set for unspecified fields
	assert.Equal(t, 2, cfg.Analysis.SessionGapHours)
	assert.Equal(t, 15, cfg.Analysis.TopChannels)
	assert.Len(t, cfg.Categories, 10, "built-in categories apply when none configured")
}

func TestParseCustomCategoriesReplaceDefaults(t *testing.T) {
	data := []byte(`
categories:
  Cats: [cat, kitten]
`)
	cfg, err := parse(data)
	require.NoError(t, err)

	require.Len(t, cfg.Categories, 1)
	assert.Equal(t, []string{"cat", "kitten"}, cfg.Categories["Cats"])
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, DefaultConfigYAML, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Categories, 10)
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	assert.NotEmpty(t, cfg.GetDataDir())

	cfg.Output.DataDir = "/custom/path"
	assert.Equal(t, "/custom/path", cfg.GetDataDir())
}

func TestBingeMinDuration(t *testing.T) {
	cfg := &Config{}
	cfg.Analysis.BingeMinDurationMinutes = 90
	assert.Equal(t, 90*time.Minute, cfg.BingeMinDuration())
}
