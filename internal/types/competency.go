package types

// ContributionLevel describes how strongly a responsibility drives a competency.
type ContributionLevel string

// Contribution levels assigned during normalization.
const (
	ContributionPrimary    ContributionLevel = "PRIMARY"
	ContributionSecondary  ContributionLevel = "SECONDARY"
	ContributionSupporting ContributionLevel = "SUPPORTING"
)

// ResponsibilityTrace links a normalized competency back to one source
// responsibility. Every trace must reference a responsibility that exists in
// the owning job.
type ResponsibilityTrace struct {
	ResponsibilityID string            `json:"responsibility_id"`
	Contribution     ContributionLevel `json:"contribution"`
	RelevanceScore   float64           `json:"relevance_score"`
}

// OverlapCheck records the outcome of the overlap audit for one competency.
// It is empty until the audit stage populates it.
type OverlapCheck struct {
	Checked          bool            `json:"checked"`
	Severity         OverlapSeverity `json:"severity,omitempty"`
	MaxSimilarity    float64         `json:"max_similarity,omitempty"`
	NearestID        string          `json:"nearest_id,omitempty"`
	RemediationNotes string          `json:"remediation_notes,omitempty"`
}

// BenchmarkingRecord records external alignment evidence for one competency.
// It is empty until the benchmarking stage populates it.
type BenchmarkingRecord struct {
	Benchmarked    bool     `json:"benchmarked"`
	AlignmentScore float64  `json:"alignment_score,omitempty"`
	Narrative      string   `json:"narrative,omitempty"`
	SourceDocIDs   []string `json:"source_doc_ids,omitempty"`
	LowConfidence  bool     `json:"low_confidence,omitempty"`
}

// QualityMetadata holds recomputed quality measures used by downstream gates.
type QualityMetadata struct {
	DefinitionWordCount int  `json:"definition_word_count"`
	IndicatorCount      int  `json:"indicator_count"`
	DefinitionPadded    bool `json:"definition_padded,omitempty"`
	IndicatorsPadded    bool `json:"indicators_padded,omitempty"`
}

// TechnicalCompetency is the canonical normalized competency record for one job.
type TechnicalCompetency struct {
	CompetencyID         string                `json:"competency_id"`
	Name                 string                `json:"name"`
	Definition           string                `json:"definition"`
	WhyItMatters         string                `json:"why_it_matters"`
	BehavioralIndicators []string              `json:"behavioral_indicators"`
	AppliedScope         []string              `json:"applied_scope,omitempty"`
	Traces               []ResponsibilityTrace `json:"responsibility_traces"`
	OverlapCheck         OverlapCheck          `json:"overlap_check"`
	Benchmarking         BenchmarkingRecord    `json:"benchmarking"`
	Quality              QualityMetadata       `json:"quality"`
}

// HasPrimaryTrace reports whether any trace carries a PRIMARY contribution.
func (c *TechnicalCompetency) HasPrimaryTrace() bool {
	for _, t := range c.Traces {
		if t.Contribution == ContributionPrimary {
			return true
		}
	}
	return false
}

// TraceResponsibilityIDs returns the responsibility IDs referenced by this competency.
func (c *TechnicalCompetency) TraceResponsibilityIDs() []string {
	ids := make([]string, 0, len(c.Traces))
	for _, t := range c.Traces {
		ids = append(ids, t.ResponsibilityID)
	}
	return ids
}

// NormalizedSet is the normalization stage output for one job.
type NormalizedSet struct {
	JobID        string                `json:"job_id"`
	Competencies []TechnicalCompetency `json:"competencies"`
}
