package ranking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/types"
)

func competency(id string, traces []types.ResponsibilityTrace) types.TechnicalCompetency {
	return types.TechnicalCompetency{
		CompetencyID:         id,
		Name:                 "Competency " + id,
		Definition:           "short definition",
		BehavioralIndicators: []string{"a", "b", "c"},
		Traces:               traces,
	}
}

func primaryTrace(respID string) types.ResponsibilityTrace {
	return types.ResponsibilityTrace{ResponsibilityID: respID, Contribution: types.ContributionPrimary, RelevanceScore: 0.85}
}

func secondaryTrace(respID string) types.ResponsibilityTrace {
	return types.ResponsibilityTrace{ResponsibilityID: respID, Contribution: types.ContributionSecondary, RelevanceScore: 0.7}
}

func TestRankSet_OrdersByCriticality(t *testing.T) {
	clean := []types.TechnicalCompetency{
		competency("tech-001", []types.ResponsibilityTrace{secondaryTrace("r1")}),
		competency("tech-002", []types.ResponsibilityTrace{primaryTrace("r2"), primaryTrace("r3"), primaryTrace("r4")}),
	}

	r := NewRanker(config.DefaultThresholds())
	result, err := r.RankSet("job-001", clean)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "tech-002", result.Ranked[0].Competency.CompetencyID)
	assert.Equal(t, 1, result.Ranked[0].Rank)
	assert.Equal(t, 2, result.Ranked[1].Rank)
	assert.Greater(t, result.Ranked[0].CriticalityScore, result.Ranked[1].CriticalityScore)
}

func TestRankSet_FactorComputation(t *testing.T) {
	longDef := strings.Repeat("word ", 120)
	c := types.TechnicalCompetency{
		CompetencyID:         "tech-001",
		Name:                 "Deep Competency",
		Definition:           longDef,
		BehavioralIndicators: []string{"a", "b", "c", "d", "e"},
		Traces: []types.ResponsibilityTrace{
			primaryTrace("r1"), secondaryTrace("r2"),
		},
		Benchmarking: types.BenchmarkingRecord{Benchmarked: true, AlignmentScore: 0.9},
	}

	r := NewRanker(config.DefaultThresholds())
	result, err := r.RankSet("job-001", []types.TechnicalCompetency{c})
	require.NoError(t, err)

	f := result.Ranked[0].Factors
	assert.Equal(t, 1.0, f.Coverage) // only competency owns all traces
	assert.Equal(t, 0.8, f.ImpactRisk)
	assert.InDelta(t, 0.4, f.Frequency, 0.001) // 2 traces / saturation 5
	assert.Equal(t, 1.0, f.Complexity)         // long definition + 5 indicators
	assert.Equal(t, 0.9, f.Differentiation)
	assert.Equal(t, f.Complexity, f.TimeToProficiency)

	expected := 0.25*1.0 + 0.20*0.8 + 0.15*0.4 + 0.15*1.0 + 0.15*0.9 + 0.10*1.0
	assert.InDelta(t, expected, result.Ranked[0].CriticalityScore, 0.0001)
}

func TestRankSet_LowConfidenceBenchmarkIsNeutral(t *testing.T) {
	c := competency("tech-001", []types.ResponsibilityTrace{primaryTrace("r1")})
	c.Benchmarking = types.BenchmarkingRecord{Benchmarked: true, AlignmentScore: 0.95, LowConfidence: true}

	r := NewRanker(config.DefaultThresholds())
	result, err := r.RankSet("job-001", []types.TechnicalCompetency{c})
	require.NoError(t, err)
	assert.Equal(t, 0.5, result.Ranked[0].Factors.Differentiation)
}

func TestRankSet_TruncatesToTopN(t *testing.T) {
	var clean []types.TechnicalCompetency
	for i := 0; i < 12; i++ {
		id := string(rune('a'+i)) + "-comp"
		clean = append(clean, competency(id, []types.ResponsibilityTrace{secondaryTrace("r" + id)}))
	}

	r := NewRanker(config.DefaultThresholds())
	result, err := r.RankSet("job-001", clean)
	require.NoError(t, err)
	assert.Len(t, result.Ranked, config.DefaultThresholds().TopN)
}

func TestRankSet_TieBreaksByCoverageThenID(t *testing.T) {
	// tech-002 and tech-003 have identical factor profiles; the ID decides.
	clean := []types.TechnicalCompetency{
		competency("tech-003", []types.ResponsibilityTrace{secondaryTrace("r2")}),
		competency("tech-002", []types.ResponsibilityTrace{secondaryTrace("r3")}),
	}

	r := NewRanker(config.DefaultThresholds())
	result, err := r.RankSet("job-001", clean)
	require.NoError(t, err)
	assert.Equal(t, "tech-002", result.Ranked[0].Competency.CompetencyID)
	assert.Equal(t, "tech-003", result.Ranked[1].Competency.CompetencyID)
}

func TestRankSet_CoverageSummaryIdentity(t *testing.T) {
	// 12 competencies, one responsibility each; top-8 covers 8 of 12.
	var clean []types.TechnicalCompetency
	for i := 0; i < 12; i++ {
		id := string(rune('a'+i)) + "-comp"
		clean = append(clean, competency(id, []types.ResponsibilityTrace{secondaryTrace("resp-" + id)}))
	}

	r := NewRanker(config.DefaultThresholds())
	result, err := r.RankSet("job-001", clean)
	require.NoError(t, err)

	cov := result.Coverage
	assert.Equal(t, 12, cov.TotalResponsibilities)
	assert.Equal(t, 8, cov.CoveredCount)
	assert.InDelta(t, 8.0/12.0, cov.CoverageRate, 0.0001)
	assert.Len(t, cov.Uncovered, 4)
	assert.LessOrEqual(t, cov.CoveredCount, cov.TotalResponsibilities)
}

func TestRankSet_Deterministic(t *testing.T) {
	clean := []types.TechnicalCompetency{
		competency("tech-001", []types.ResponsibilityTrace{primaryTrace("r1"), secondaryTrace("r2")}),
		competency("tech-002", []types.ResponsibilityTrace{secondaryTrace("r3")}),
		competency("tech-003", []types.ResponsibilityTrace{primaryTrace("r4")}),
	}

	r := NewRanker(config.DefaultThresholds())
	first, err := r.RankSet("job-001", clean)
	require.NoError(t, err)
	second, err := r.RankSet("job-001", clean)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRankSet_EmptySetIsAnError(t *testing.T) {
	r := NewRanker(config.DefaultThresholds())
	_, err := r.RankSet("job-001", nil)
	assert.Error(t, err)
}
