package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/competency-mapper/internal/types"
)

func TestPrintMapping(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMapping(&types.MappingResult{
		JobID: "job-001",
		Mappings: []types.ResponsibilityMapping{
			{ResponsibilityID: "job-001-r01", Candidates: []types.CompetencyCandidate{{CompetencyID: "tech-001", RelevanceScore: 0.72}}},
			{ResponsibilityID: "job-001-r02"},
		},
		Unmapped: []string{"job-001-r02"},
	})

	out := buf.String()
	assert.Contains(t, out, "MAPPING job-001")
	assert.Contains(t, out, "job-001-r01 → tech-001 (0.72)")
	assert.Contains(t, out, "job-001-r02 → unmapped")
}

func TestPrintRanking(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRanking(&types.RankingResult{
		JobID: "job-001",
		Ranked: []types.RankedCompetency{
			{Rank: 1, Competency: types.TechnicalCompetency{Name: "Data Engineering"}, CriticalityScore: 0.81},
		},
		Coverage: types.CoverageSummary{TotalResponsibilities: 5, CoveredCount: 5, CoverageRate: 1.0},
	})

	out := buf.String()
	assert.Contains(t, out, "#1  Data Engineering")
	assert.Contains(t, out, "Coverage: 5/5")
}

func TestPrintNilInputsAreSilent(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobs(nil)
	p.PrintMapping(nil)
	p.PrintAudit(nil)
	p.PrintRanking(nil)
	p.PrintRunState(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRunStateCountsOutcomes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunState(&types.RunState{
		RunID: "run-1",
		Jobs: []types.JobState{
			{JobID: "job-001", LastStage: types.StageDone},
			{JobID: "job-002", LastStage: types.StageFailed, Flags: []types.RunFlag{
				{Severity: types.SeverityError, Code: "mapping.unmapped_rate", Message: "unmapped rate 50%"},
			}},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "1 done, 1 failed, 2 total")
	assert.Contains(t, out, "mapping.unmapped_rate")
}
