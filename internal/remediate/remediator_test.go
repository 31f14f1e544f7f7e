package remediate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/competency-mapper/internal/types"
)

func testSet() *types.NormalizedSet {
	return &types.NormalizedSet{
		JobID: "job-001",
		Competencies: []types.TechnicalCompetency{
			{CompetencyID: "tech-001", Name: "Data Engineering", Definition: "Builds data pipelines.", WhyItMatters: "Pipelines carry the business."},
			{CompetencyID: "tech-002", Name: "Team Coaching", Definition: "Coaches engineers on delivery.", WhyItMatters: "Teams need coaching."},
			{CompetencyID: "tech-003", Name: "Pipeline Operations", Definition: "Operates data pipelines.", WhyItMatters: "Pipelines need operating."},
		},
	}
}

func TestRemediate_RemovesMaterialOverlap(t *testing.T) {
	audit := &types.JobOverlapAudit{
		JobID: "job-001",
		OverlapFlags: []types.OverlapFlag{
			{CompetencyID: "tech-002", Severity: types.OverlapMaterial, Similarity: 0.9, TargetDomain: "leadership", TargetID: "lead-001", SuggestedAction: types.ActionRemove},
		},
	}

	result, err := NewRemediator().Remediate(testSet(), audit)
	require.NoError(t, err)

	assert.Len(t, result.Clean, 2)
	assert.Equal(t, 1, result.RemovedCount())
	assert.False(t, result.ReauditRequired, "removals alone must not trigger a reaudit")

	var removed *types.RemediationAction
	for i, a := range result.Actions {
		if a.CompetencyID == "tech-002" {
			removed = &result.Actions[i]
		}
	}
	require.NotNil(t, removed)
	assert.Equal(t, types.RemediationRemoved, removed.Action)
	require.NotNil(t, removed.Before)
	assert.Nil(t, removed.After)
}

func TestRemediate_RevisesMinorOverlap(t *testing.T) {
	audit := &types.JobOverlapAudit{
		JobID: "job-001",
		OverlapFlags: []types.OverlapFlag{
			{CompetencyID: "tech-002", Severity: types.OverlapMinor, Similarity: 0.75, TargetDomain: "leadership", TargetID: "lead-001", SuggestedAction: types.ActionRevise},
		},
	}

	result, err := NewRemediator().Remediate(testSet(), audit)
	require.NoError(t, err)

	assert.Len(t, result.Clean, 3)
	assert.True(t, result.ReauditRequired)

	var revised *types.TechnicalCompetency
	for i := range result.Clean {
		if result.Clean[i].CompetencyID == "tech-002" {
			revised = &result.Clean[i]
		}
	}
	require.NotNil(t, revised)
	assert.Contains(t, revised.Definition, "technical execution of Team Coaching")
	assert.Contains(t, revised.Definition, "Coaches engineers on delivery")
	assert.Equal(t, types.OverlapMinor, revised.OverlapCheck.Severity, "revised record keeps its MINOR flag alongside the notes")
	assert.Equal(t, 0.75, revised.OverlapCheck.MaxSimilarity)
	assert.Equal(t, "lead-001", revised.OverlapCheck.NearestID)
	assert.NotEmpty(t, revised.OverlapCheck.RemediationNotes)
	assert.Greater(t, revised.Quality.DefinitionWordCount, 0)
}

func TestRemediate_RemovesDistinctnessSecondMember(t *testing.T) {
	audit := &types.JobOverlapAudit{
		JobID: "job-001",
		DistinctnessFlags: []types.DistinctnessFlag{
			{FirstID: "tech-001", SecondID: "tech-003", Similarity: 0.91, Conflict: types.ConflictNearDuplicate},
		},
	}

	result, err := NewRemediator().Remediate(testSet(), audit)
	require.NoError(t, err)

	require.Len(t, result.Clean, 2)
	assert.Equal(t, "tech-001", result.Clean[0].CompetencyID)
	assert.Equal(t, "tech-002", result.Clean[1].CompetencyID)
	assert.False(t, result.ReauditRequired)
}

func TestRemediate_CleanAuditIsNoActionPassthrough(t *testing.T) {
	audit := &types.JobOverlapAudit{JobID: "job-001", AuditPassed: true}

	result, err := NewRemediator().Remediate(testSet(), audit)
	require.NoError(t, err)

	assert.Len(t, result.Clean, 3)
	assert.False(t, result.ReauditRequired)
	require.Len(t, result.Actions, 3)
	for _, a := range result.Actions {
		assert.Equal(t, types.RemediationNoAction, a.Action)
	}
}

func TestRemediate_RejectsMismatchedAudit(t *testing.T) {
	_, err := NewRemediator().Remediate(testSet(), &types.JobOverlapAudit{JobID: "job-999"})
	assert.Error(t, err)
}
