package types

// CriticalityFactors holds the six normalized sub-scores used to rank a
// competency, each in [0,1].
type CriticalityFactors struct {
	Coverage          float64 `json:"coverage"`
	ImpactRisk        float64 `json:"impact_risk"`
	Frequency         float64 `json:"frequency"`
	Complexity        float64 `json:"complexity"`
	Differentiation   float64 `json:"differentiation"`
	TimeToProficiency float64 `json:"time_to_proficiency"`
}

// RankedCompetency is one entry of the final top-N selection for a job.
type RankedCompetency struct {
	Rank                     int                 `json:"rank"`
	Competency               TechnicalCompetency `json:"competency"`
	CriticalityScore         float64             `json:"criticality_score"`
	Factors                  CriticalityFactors  `json:"factors"`
	Rationale                string              `json:"rationale"`
	CoveredResponsibilityIDs []string            `json:"covered_responsibility_ids"`
}

// CoverageSummary accounts for how much of a job's mapped responsibility set
// the top-N selection addresses, relative to the full clean set.
type CoverageSummary struct {
	TotalResponsibilities int      `json:"total_responsibilities"`
	CoveredCount          int      `json:"covered_count"`
	CoverageRate          float64  `json:"coverage_rate"`
	Uncovered             []string `json:"uncovered,omitempty"`
}

// RankingResult is the ranking stage output for one job.
type RankingResult struct {
	JobID    string             `json:"job_id"`
	Ranked   []RankedCompetency `json:"ranked"`
	Coverage CoverageSummary    `json:"coverage"`
}
