// Package ranking orders clean competencies by criticality and selects the
// top N for a job. Ranking is fully deterministic: no oracle calls, no
// randomness, and a fixed tie-break order.
package ranking

import (
	"fmt"
	"sort"

	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/normalize"
	"github.com/jonathan/competency-mapper/internal/types"
)

// Factor weights. They sum to 1 so the criticality score stays in [0,1].
const (
	coverageWeight          = 0.25
	impactRiskWeight        = 0.20
	frequencyWeight         = 0.15
	complexityWeight        = 0.15
	differentiationWeight   = 0.15
	timeToProficiencyWeight = 0.10
)

// Factor computation constants.
const (
	frequencySaturation    = 5
	complexDefinitionWords = 100
	complexIndicatorCount  = 5
	primaryImpact          = 0.8
	secondaryImpact        = 0.5
	neutralDifferentiation = 0.5
)

// Ranker computes criticality scores and the top-N selection.
type Ranker struct {
	thresholds config.Thresholds
}

// NewRanker creates a ranker with the given thresholds.
func NewRanker(thresholds config.Thresholds) *Ranker {
	return &Ranker{thresholds: thresholds}
}

// RankSet scores every clean competency, orders them by criticality score
// descending (coverage descending, then competency ID ascending on ties),
// and keeps the configured top N. The coverage summary compares the
// responsibilities reached by the top N against those reached by the whole
// clean set, so the covered set is always a subset of the total.
func (r *Ranker) RankSet(jobID string, clean []types.TechnicalCompetency) (*types.RankingResult, error) {
	if len(clean) == 0 {
		return nil, fmt.Errorf("job %s has no clean competencies to rank", jobID)
	}

	totalTraces := 0
	allCovered := make(map[string]bool)
	for i := range clean {
		totalTraces += len(clean[i].Traces)
		for _, id := range clean[i].TraceResponsibilityIDs() {
			allCovered[id] = true
		}
	}

	ranked := make([]types.RankedCompetency, 0, len(clean))
	for i := range clean {
		ranked = append(ranked, r.scoreOne(clean[i], totalTraces))
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CriticalityScore != ranked[j].CriticalityScore {
			return ranked[i].CriticalityScore > ranked[j].CriticalityScore
		}
		if ranked[i].Factors.Coverage != ranked[j].Factors.Coverage {
			return ranked[i].Factors.Coverage > ranked[j].Factors.Coverage
		}
		return ranked[i].Competency.CompetencyID < ranked[j].Competency.CompetencyID
	})

	if len(ranked) > r.thresholds.TopN {
		ranked = ranked[:r.thresholds.TopN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return &types.RankingResult{
		JobID:    jobID,
		Ranked:   ranked,
		Coverage: coverageSummary(ranked, allCovered),
	}, nil
}

// scoreOne computes the six factors and their weighted sum for one competency.
func (r *Ranker) scoreOne(c types.TechnicalCompetency, totalTraces int) types.RankedCompetency {
	factors := computeFactors(c, totalTraces)

	score := coverageWeight*factors.Coverage +
		impactRiskWeight*factors.ImpactRisk +
		frequencyWeight*factors.Frequency +
		complexityWeight*factors.Complexity +
		differentiationWeight*factors.Differentiation +
		timeToProficiencyWeight*factors.TimeToProficiency

	return types.RankedCompetency{
		Competency:               c,
		CriticalityScore:         score,
		Factors:                  factors,
		Rationale:                rationale(c, factors),
		CoveredResponsibilityIDs: c.TraceResponsibilityIDs(),
	}
}

// computeFactors derives the six normalized sub-scores.
func computeFactors(c types.TechnicalCompetency, totalTraces int) types.CriticalityFactors {
	factors := types.CriticalityFactors{
		ImpactRisk:      secondaryImpact,
		Differentiation: neutralDifferentiation,
	}

	if totalTraces > 0 {
		factors.Coverage = float64(len(c.Traces)) / float64(totalTraces)
	}
	if c.HasPrimaryTrace() {
		factors.ImpactRisk = primaryImpact
	}

	factors.Frequency = float64(len(c.Traces)) / frequencySaturation
	if factors.Frequency > 1 {
		factors.Frequency = 1
	}

	if normalize.WordCount(c.Definition) >= complexDefinitionWords {
		factors.Complexity += 0.5
	}
	if len(c.BehavioralIndicators) >= complexIndicatorCount {
		factors.Complexity += 0.5
	}

	if c.Benchmarking.Benchmarked && !c.Benchmarking.LowConfidence {
		factors.Differentiation = c.Benchmarking.AlignmentScore
	}

	// Harder competencies take longer to build; reuse complexity as the proxy.
	factors.TimeToProficiency = factors.Complexity

	return factors
}

// rationale renders a short human-readable justification for the score.
func rationale(c types.TechnicalCompetency, factors types.CriticalityFactors) string {
	contribution := "secondary"
	if c.HasPrimaryTrace() {
		contribution = "primary"
	}
	return fmt.Sprintf("%s backs %d responsibility(ies) as a %s driver, covering %.0f%% of the job's traced work",
		c.Name, len(c.Traces), contribution, factors.Coverage*100)
}

// coverageSummary measures how much of the full clean set's responsibility
// reach the top-N selection retains.
func coverageSummary(ranked []types.RankedCompetency, allCovered map[string]bool) types.CoverageSummary {
	topCovered := make(map[string]bool)
	for _, rc := range ranked {
		for _, id := range rc.CoveredResponsibilityIDs {
			topCovered[id] = true
		}
	}

	summary := types.CoverageSummary{
		TotalResponsibilities: len(allCovered),
		CoveredCount:          len(topCovered),
	}
	if summary.TotalResponsibilities > 0 {
		summary.CoverageRate = float64(summary.CoveredCount) / float64(summary.TotalResponsibilities)
	}

	for id := range allCovered {
		if !topCovered[id] {
			summary.Uncovered = append(summary.Uncovered, id)
		}
	}
	sort.Strings(summary.Uncovered)

	return summary
}
