// Package types provides type definitions for structured data used throughout the competency-mapper system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Job represents a single job description extracted from tabular input.
// Jobs are immutable once ingested; later stages reference responsibilities by ID only.
type Job struct {
	JobID            string           `json:"job_id"`
	Title            string           `json:"title"`
	Family           string           `json:"family,omitempty"`
	Level            string           `json:"level,omitempty"`
	Summary          string           `json:"summary,omitempty"`
	Responsibilities []Responsibility `json:"responsibilities"`
}

// Responsibility is an atomic job duty statement, the unit of coverage accounting.
type Responsibility struct {
	ResponsibilityID string `json:"responsibility_id"`
	RawText          string `json:"raw_text"`
	NormalizedText   string `json:"normalized_text"`
	PriorityHint     int    `json:"priority_hint,omitempty"`
}

// ExtractionWarningType classifies problems found while ingesting jobs.
type ExtractionWarningType string

// Extraction warning types emitted by job ingestion.
const (
	WarnMissingSummary     ExtractionWarningType = "MISSING_SUMMARY"
	WarnNoResponsibilities ExtractionWarningType = "NO_RESPONSIBILITIES"
	WarnOther              ExtractionWarningType = "OTHER"
)

// ExtractionWarning records a per-job problem discovered during ingestion.
type ExtractionWarning struct {
	JobID    string                `json:"job_id,omitempty"`
	Type     ExtractionWarningType `json:"type"`
	Severity FlagSeverity          `json:"severity"`
	Message  string                `json:"message"`
}

// ExtractionResult bundles ingested jobs with any warnings for gate reporting.
type ExtractionResult struct {
	Jobs     []Job               `json:"jobs"`
	Warnings []ExtractionWarning `json:"warnings,omitempty"`
}

// ResponsibilityByID returns the responsibility with the given ID, or false if absent.
func (j *Job) ResponsibilityByID(id string) (Responsibility, bool) {
	for _, r := range j.Responsibilities {
		if r.ResponsibilityID == id {
			return r, true
		}
	}
	return Responsibility{}, false
}
