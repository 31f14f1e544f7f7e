package types

// CompetencyCandidate is a scored (responsibility, competency) pairing produced
// by the candidate mapper. Candidates are ephemeral: they exist only between the
// mapping and normalization stages.
type CompetencyCandidate struct {
	CompetencyID    string  `json:"competency_id"`
	CompetencyName  string  `json:"competency_name"`
	LexicalScore    float64 `json:"lexical_score"`
	SemanticScore   float64 `json:"semantic_score"`
	ContextualScore float64 `json:"contextual_score"`
	RelevanceScore  float64 `json:"relevance_score"`
	LowConfidence   bool    `json:"low_confidence,omitempty"`
}

// ResponsibilityMapping holds the ranked candidate list for one responsibility,
// descending by relevance and capped at the configured K. An empty candidate
// list means the responsibility is unmapped.
type ResponsibilityMapping struct {
	ResponsibilityID string                `json:"responsibility_id"`
	Candidates       []CompetencyCandidate `json:"candidates"`
}

// Unmapped reports whether no candidate cleared the relevance floor.
func (m *ResponsibilityMapping) Unmapped() bool {
	return len(m.Candidates) == 0
}

// Top returns the highest-relevance candidate, or false if unmapped.
func (m *ResponsibilityMapping) Top() (CompetencyCandidate, bool) {
	if len(m.Candidates) == 0 {
		return CompetencyCandidate{}, false
	}
	return m.Candidates[0], true
}

// MappingResult is the mapping stage output for one job.
type MappingResult struct {
	JobID    string                  `json:"job_id"`
	Mappings []ResponsibilityMapping `json:"mappings"`
	Unmapped []string                `json:"unmapped,omitempty"`
}

// UnmappedRate returns the fraction of responsibilities with no candidates.
func (r *MappingResult) UnmappedRate() float64 {
	if len(r.Mappings) == 0 {
		return 0
	}
	return float64(len(r.Unmapped)) / float64(len(r.Mappings))
}
