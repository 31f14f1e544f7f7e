// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Thresholds holds the tunable scoring and audit parameters. Thresholds are
// loaded once per run and treated as read-only for the run's lifetime.
type Thresholds struct {
	RelevanceFloor    float64 `json:"relevance_floor" validate:"gte=0,lte=1"`
	PrimaryRelevance  float64 `json:"primary_relevance" validate:"gte=0,lte=1"`
	MaterialOverlap   float64 `json:"material_overlap" validate:"gte=0,lte=1"`
	MinorOverlap      float64 `json:"minor_overlap" validate:"gte=0,lte=1,ltefield=MaterialOverlap"`
	DuplicatePair     float64 `json:"duplicate_pair" validate:"gte=0,lte=1"`
	ExactDuplicate    float64 `json:"exact_duplicate" validate:"gte=0,lte=1"`
	MaxCandidates     int     `json:"max_candidates" validate:"gte=1,lte=20"`
	TopN              int     `json:"top_n" validate:"gte=6,lte=10"`
	UnmappedRateLimit float64 `json:"unmapped_rate_limit" validate:"gte=0,lte=1"`
	CoverageFloor     float64 `json:"coverage_floor" validate:"gte=0,lte=1"`
	MissingSummaryMax float64 `json:"missing_summary_max" validate:"gte=0,lte=1"`
	MaxReauditPasses  int     `json:"max_reaudit_passes" validate:"gte=0,lte=3"`
}

// DefaultThresholds returns the standard threshold set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RelevanceFloor:    0.6,
		PrimaryRelevance:  0.8,
		MaterialOverlap:   0.82,
		MinorOverlap:      0.72,
		DuplicatePair:     0.88,
		ExactDuplicate:    0.95,
		MaxCandidates:     5,
		TopN:              8,
		UnmappedRateLimit: 0.05,
		CoverageFloor:     0.80,
		MissingSummaryMax: 0.10,
		MaxReauditPasses:  1,
	}
}

// Validate validates the thresholds using the validator.
func (t *Thresholds) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Jobs       string `json:"jobs,omitempty"`       // Path to job descriptions CSV
	Library    string `json:"library,omitempty"`    // Path to technical competency library CSV
	Leadership string `json:"leadership,omitempty"` // Path to leadership/core library CSV

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Workers     int    `json:"workers,omitempty"`      // Worker pool size for job fan-out
	Lenient     bool   `json:"lenient,omitempty"`      // Downgrade ERROR rules to WARNING
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information

	// Threshold overrides; zero values fall back to DefaultThresholds.
	TopN              int     `json:"top_n,omitempty"`
	RelevanceFloor    float64 `json:"relevance_floor,omitempty"`
	MaterialOverlap   float64 `json:"material_overlap,omitempty"`
	MinorOverlap      float64 `json:"minor_overlap,omitempty"`
	DuplicatePair     float64 `json:"duplicate_pair,omitempty"`
	UnmappedRateLimit float64 `json:"unmapped_rate_limit,omitempty"`
	CoverageFloor     float64 `json:"coverage_floor,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.TopN != 0 && (c.TopN < 6 || c.TopN > 10) {
		return fmt.Errorf("config error: 'top_n' must be between 6 and 10")
	}

	// Validate file paths exist (if specified)
	for name, p := range map[string]string{"jobs": c.Jobs, "library": c.Library, "leadership": c.Leadership} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", name, p)
		}
	}

	return nil
}

// BuildThresholds merges the config's threshold overrides onto the defaults
// and validates the result.
func (c *Config) BuildThresholds() (Thresholds, error) {
	t := DefaultThresholds()
	if c.TopN != 0 {
		t.TopN = c.TopN
	}
	if c.RelevanceFloor != 0 {
		t.RelevanceFloor = c.RelevanceFloor
	}
	if c.MaterialOverlap != 0 {
		t.MaterialOverlap = c.MaterialOverlap
	}
	if c.MinorOverlap != 0 {
		t.MinorOverlap = c.MinorOverlap
	}
	if c.DuplicatePair != 0 {
		t.DuplicatePair = c.DuplicatePair
	}
	if c.UnmappedRateLimit != 0 {
		t.UnmappedRateLimit = c.UnmappedRateLimit
	}
	if c.CoverageFloor != 0 {
		t.CoverageFloor = c.CoverageFloor
	}
	if err := t.Validate(); err != nil {
		return Thresholds{}, fmt.Errorf("invalid thresholds: %w", err)
	}
	return t, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Jobs == "" {
		result.Jobs = defaults.Jobs
	}
	if result.Library == "" {
		result.Library = defaults.Library
	}
	if result.Leadership == "" {
		result.Leadership = defaults.Leadership
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
