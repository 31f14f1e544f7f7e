package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholds_Valid(t *testing.T) {
	th := DefaultThresholds()
	assert.NoError(t, th.Validate())
	assert.Equal(t, 0.82, th.MaterialOverlap)
	assert.Equal(t, 0.72, th.MinorOverlap)
	assert.Equal(t, 0.88, th.DuplicatePair)
	assert.Equal(t, 8, th.TopN)
	assert.Equal(t, 1, th.MaxReauditPasses)
}

func TestThresholds_Validate_RejectsOutOfRange(t *testing.T) {
	th := DefaultThresholds()
	th.TopN = 12
	assert.Error(t, th.Validate())

	th = DefaultThresholds()
	th.MaterialOverlap = 1.5
	assert.Error(t, th.Validate())

	th = DefaultThresholds()
	th.MinorOverlap = 0.9 // above material
	assert.Error(t, th.Validate())
}

func TestLoadConfig_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"jobs": "jobs.csv", "top_n": 7, "lenient": true, "workers": 4}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "jobs.csv", cfg.Jobs)
	assert.Equal(t, 7, cfg.TopN)
	assert.True(t, cfg.Lenient)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.json")
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_Validate_TopNRange(t *testing.T) {
	cfg := &Config{TopN: 5}
	assert.Error(t, cfg.Validate())

	cfg = &Config{TopN: 6}
	assert.NoError(t, cfg.Validate())

	cfg = &Config{TopN: 0} // unset is fine
	assert.NoError(t, cfg.Validate())
}

func TestConfig_BuildThresholds_AppliesOverrides(t *testing.T) {
	cfg := &Config{TopN: 10, MaterialOverlap: 0.9, MinorOverlap: 0.8}
	th, err := cfg.BuildThresholds()
	require.NoError(t, err)
	assert.Equal(t, 10, th.TopN)
	assert.Equal(t, 0.9, th.MaterialOverlap)
	assert.Equal(t, 0.8, th.MinorOverlap)
	// Untouched values keep defaults
	assert.Equal(t, 0.6, th.RelevanceFloor)
}

func TestConfig_BuildThresholds_RejectsInvalidOverride(t *testing.T) {
	cfg := &Config{MinorOverlap: 0.95} // above default material threshold
	_, err := cfg.BuildThresholds()
	assert.Error(t, err)
}

func TestConfig_MergeWithDefaults(t *testing.T) {
	cfg := Config{Jobs: "explicit.csv"}
	defaults := Config{Jobs: "default.csv", Library: "lib.csv", Workers: 2}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "explicit.csv", merged.Jobs)
	assert.Equal(t, "lib.csv", merged.Library)
	assert.Equal(t, 2, merged.Workers)
}
