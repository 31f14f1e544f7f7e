package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/scoring"
	"github.com/jonathan/competency-mapper/internal/types"
)

// pairScores drives the semantic oracle from a definition-pair map. Both
// orderings are looked up so tests can list each pair once.
func pairScores(scores map[string]float64) *scoring.StaticOracle {
	return &scoring.StaticOracle{
		SimilarityFn: func(a, b string) float64 {
			if v, ok := scores[a+"|"+b]; ok {
				return v
			}
			return scores[b+"|"+a]
		},
	}
}

func auditorWith(scores map[string]float64) *Auditor {
	return NewAuditor(scoring.NewScorer(pairScores(scores)), config.DefaultThresholds())
}

func setOf(defs ...string) *types.NormalizedSet {
	set := &types.NormalizedSet{JobID: "job-001"}
	for i, def := range defs {
		set.Competencies = append(set.Competencies, types.TechnicalCompetency{
			CompetencyID: []string{"tech-001", "tech-002", "tech-003"}[i],
			Definition:   def,
		})
	}
	return set
}

func leadershipLib() *types.CompetencyLibrary {
	return &types.CompetencyLibrary{
		Kind: types.LibraryLeadership,
		Entries: []types.CompetencyLibraryEntry{
			{CompetencyID: "lead-001", Definition: "leads teams"},
			{CompetencyID: "lead-002", Definition: "sets strategy"},
		},
	}
}

func TestAuditSet_MaterialOverlapRecommendsRemoval(t *testing.T) {
	a := auditorWith(map[string]float64{
		"mentors engineers|leads teams": 0.9,
	})

	audit, err := a.AuditSet(context.Background(), setOf("mentors engineers"), leadershipLib())
	require.NoError(t, err)

	require.Len(t, audit.OverlapFlags, 1)
	flag := audit.OverlapFlags[0]
	assert.Equal(t, types.OverlapMaterial, flag.Severity)
	assert.Equal(t, types.ActionRemove, flag.SuggestedAction)
	assert.Equal(t, "lead-001", flag.TargetID)
	assert.False(t, audit.AuditPassed)
}

func TestAuditSet_MinorOverlapRecommendsRevision(t *testing.T) {
	a := auditorWith(map[string]float64{
		"plans technical roadmaps|sets strategy": 0.75,
	})

	audit, err := a.AuditSet(context.Background(), setOf("plans technical roadmaps"), leadershipLib())
	require.NoError(t, err)

	require.Len(t, audit.OverlapFlags, 1)
	assert.Equal(t, types.OverlapMinor, audit.OverlapFlags[0].Severity)
	assert.Equal(t, types.ActionRevise, audit.OverlapFlags[0].SuggestedAction)

	// Minor overlap alone does not fail the audit
	assert.True(t, audit.AuditPassed)
}

func TestAuditSet_BelowMinorThresholdIsUnflagged(t *testing.T) {
	a := auditorWith(map[string]float64{
		"writes compilers|leads teams": 0.4,
	})

	audit, err := a.AuditSet(context.Background(), setOf("writes compilers"), leadershipLib())
	require.NoError(t, err)
	assert.Empty(t, audit.OverlapFlags)
	assert.True(t, audit.AuditPassed)
}

func TestAuditSet_DistinctnessFlagsSecondMember(t *testing.T) {
	a := auditorWith(map[string]float64{
		"builds pipelines|operates pipelines": 0.9,
	})

	audit, err := a.AuditSet(context.Background(), setOf("builds pipelines", "operates pipelines"), nil)
	require.NoError(t, err)

	require.Len(t, audit.DistinctnessFlags, 1)
	flag := audit.DistinctnessFlags[0]
	assert.Equal(t, "tech-001", flag.FirstID)
	assert.Equal(t, "tech-002", flag.SecondID)
	assert.Equal(t, types.ConflictNearDuplicate, flag.Conflict)
	assert.False(t, audit.AuditPassed)
}

func TestAuditSet_ExactDuplicateConflictType(t *testing.T) {
	a := auditorWith(map[string]float64{
		"same text|same text exactly": 0.97,
	})

	audit, err := a.AuditSet(context.Background(), setOf("same text", "same text exactly"), nil)
	require.NoError(t, err)
	require.Len(t, audit.DistinctnessFlags, 1)
	assert.Equal(t, types.ConflictDuplicate, audit.DistinctnessFlags[0].Conflict)
}

func TestAuditSet_CleanSetIsIdempotent(t *testing.T) {
	a := auditorWith(map[string]float64{})
	set := setOf("builds pipelines", "writes compilers")

	first, err := a.AuditSet(context.Background(), set, leadershipLib())
	require.NoError(t, err)
	second, err := a.AuditSet(context.Background(), set, leadershipLib())
	require.NoError(t, err)

	assert.True(t, first.AuditPassed)
	assert.Equal(t, first, second)
}

func TestAuditSet_RejectsWrongLibraryKind(t *testing.T) {
	a := auditorWith(nil)
	_, err := a.AuditSet(context.Background(), setOf("x"), &types.CompetencyLibrary{Kind: types.LibraryTechnical})
	assert.Error(t, err)
}
