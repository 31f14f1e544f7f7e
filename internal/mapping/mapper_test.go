package mapping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/scoring"
	"github.com/jonathan/competency-mapper/internal/types"
)

// scoreTable drives a StaticOracle from a pair → score map. Unlisted pairs
// score zero so tests control exactly which candidates clear the floor.
func scoreTable(scores map[string]float64) *scoring.StaticOracle {
	return &scoring.StaticOracle{
		SimilarityFn: func(a, b string) float64 {
			return scores[a+"|"+b]
		},
		RelevanceFn: func(responsibility, competencyName, definition string) float64 {
			return scores[responsibility+"|"+competencyName]
		},
	}
}

func testJob() *types.Job {
	return &types.Job{
		JobID: "job-001",
		Title: "Data Engineer",
		Responsibilities: []types.Responsibility{
			{ResponsibilityID: "job-001-r01", RawText: "Design data pipelines", NormalizedText: "design data pipelines"},
			{ResponsibilityID: "job-001-r02", RawText: "Write poetry", NormalizedText: "write poetry"},
		},
	}
}

func testLibrary() *types.CompetencyLibrary {
	return &types.CompetencyLibrary{
		Kind: types.LibraryTechnical,
		Entries: []types.CompetencyLibraryEntry{
			{CompetencyID: "tech-001", Name: "Data Engineering", Definition: "builds data pipelines"},
			{CompetencyID: "tech-002", Name: "Cloud Architecture", Definition: "designs cloud infrastructure"},
		},
	}
}

func TestMapResponsibilities_KeepsCandidatesAboveFloor(t *testing.T) {
	oracle := scoreTable(map[string]float64{
		"design data pipelines|builds data pipelines": 0.9,
		"Design data pipelines|Data Engineering":      0.8,
	})
	mapper := NewMapper(scoring.NewScorer(oracle), config.DefaultThresholds())

	result, err := mapper.MapResponsibilities(context.Background(), testJob(), testLibrary())
	require.NoError(t, err)
	require.Len(t, result.Mappings, 2)

	first := result.Mappings[0]
	require.Len(t, first.Candidates, 1)
	top, ok := first.Top()
	require.True(t, ok)
	assert.Equal(t, "tech-001", top.CompetencyID)
	// 0.4*0.9 semantic + 0.3*lexical + 0.3*0.8 contextual; lexical > 0 here
	assert.GreaterOrEqual(t, top.RelevanceScore, 0.6)

	// The poetry responsibility matches nothing
	assert.True(t, result.Mappings[1].Unmapped())
	assert.Equal(t, []string{"job-001-r02"}, result.Unmapped)
}

func TestMapResponsibilities_TruncatesToMaxCandidates(t *testing.T) {
	lib := &types.CompetencyLibrary{Kind: types.LibraryTechnical}
	for i := 0; i < 10; i++ {
		lib.Entries = append(lib.Entries, types.CompetencyLibraryEntry{
			CompetencyID: string(rune('a'+i)) + "-comp",
			Name:         "Comp",
			Definition:   "matches everything",
		})
	}

	oracle := &scoring.StaticOracle{
		SimilarityFn: func(a, b string) float64 { return 0.9 },
		RelevanceFn:  func(r, n, d string) float64 { return 0.9 },
	}
	mapper := NewMapper(scoring.NewScorer(oracle), config.DefaultThresholds())

	job := &types.Job{
		JobID: "job-001",
		Responsibilities: []types.Responsibility{
			{ResponsibilityID: "r1", RawText: "anything", NormalizedText: "anything"},
		},
	}

	result, err := mapper.MapResponsibilities(context.Background(), job, lib)
	require.NoError(t, err)
	assert.Len(t, result.Mappings[0].Candidates, config.DefaultThresholds().MaxCandidates)
}

func TestMapResponsibilities_TieBreaksByCompetencyID(t *testing.T) {
	lib := &types.CompetencyLibrary{
		Kind: types.LibraryTechnical,
		Entries: []types.CompetencyLibraryEntry{
			{CompetencyID: "tech-002", Name: "B", Definition: "same"},
			{CompetencyID: "tech-001", Name: "A", Definition: "same"},
		},
	}

	oracle := &scoring.StaticOracle{
		SimilarityFn: func(a, b string) float64 { return 0.9 },
		RelevanceFn:  func(r, n, d string) float64 { return 0.9 },
	}
	mapper := NewMapper(scoring.NewScorer(oracle), config.DefaultThresholds())

	job := &types.Job{
		JobID: "job-001",
		Responsibilities: []types.Responsibility{
			{ResponsibilityID: "r1", RawText: "text", NormalizedText: "text"},
		},
	}

	result, err := mapper.MapResponsibilities(context.Background(), job, lib)
	require.NoError(t, err)

	candidates := result.Mappings[0].Candidates
	require.Len(t, candidates, 2)
	assert.Equal(t, "tech-001", candidates[0].CompetencyID)
	assert.Equal(t, "tech-002", candidates[1].CompetencyID)
}

func TestMapResponsibilities_RejectsLeadershipLibrary(t *testing.T) {
	mapper := NewMapper(scoring.NewScorer(nil), config.DefaultThresholds())

	_, err := mapper.MapResponsibilities(context.Background(), testJob(), &types.CompetencyLibrary{Kind: types.LibraryLeadership})
	assert.Error(t, err)
}

func TestMapResponsibilities_LowConfidenceWithoutOracle(t *testing.T) {
	// Without an oracle, semantic and contextual both default to 0.5:
	// relevance = 0.4*0.5 + 0.3*lexical + 0.3*0.5 = 0.35 + 0.3*lexical.
	mapper := NewMapper(scoring.NewScorer(nil), config.DefaultThresholds())

	job := &types.Job{
		JobID: "job-001",
		Responsibilities: []types.Responsibility{
			{ResponsibilityID: "r1", RawText: "builds data pipelines", NormalizedText: "builds data pipelines"},
		},
	}
	lib := &types.CompetencyLibrary{
		Kind: types.LibraryTechnical,
		Entries: []types.CompetencyLibraryEntry{
			{CompetencyID: "tech-001", Name: "Data Engineering", Definition: "builds data pipelines"},
		},
	}

	result, err := mapper.MapResponsibilities(context.Background(), job, lib)
	require.NoError(t, err)

	top, ok := result.Mappings[0].Top()
	require.True(t, ok)
	// Identical text: lexical 1.0 → relevance 0.65, above the floor
	assert.InDelta(t, 0.65, top.RelevanceScore, 0.001)
	assert.True(t, top.LowConfidence)
}
