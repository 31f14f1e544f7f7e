// Package audit checks normalized competencies for cross-library overlap with
// the leadership library and for within-job near-duplicates. The audit is
// read-only: it flags, and remediation acts on the flags in a separate stage.
package audit

import (
	"context"
	"fmt"

	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/scoring"
	"github.com/jonathan/competency-mapper/internal/types"
)

// leadershipDomain labels cross-library overlap flags.
const leadershipDomain = "leadership"

// Auditor flags overlap and distinctness conflicts for one job's competencies.
type Auditor struct {
	scorer     *scoring.Scorer
	thresholds config.Thresholds
}

// NewAuditor creates an auditor with the given scorer and thresholds.
func NewAuditor(scorer *scoring.Scorer, thresholds config.Thresholds) *Auditor {
	return &Auditor{scorer: scorer, thresholds: thresholds}
}

// AuditSet runs both checks over a normalized set. A clean set yields an
// audit with no flags and audit_passed true; auditing it again yields the
// same result, since the audit never mutates the competencies.
func (a *Auditor) AuditSet(ctx context.Context, set *types.NormalizedSet, leadership *types.CompetencyLibrary) (*types.JobOverlapAudit, error) {
	if leadership != nil && leadership.Kind != types.LibraryLeadership {
		return nil, fmt.Errorf("cross-library audit requires the leadership library, got %q", leadership.Kind)
	}

	result := &types.JobOverlapAudit{JobID: set.JobID}

	if leadership != nil {
		for _, c := range set.Competencies {
			if flag, flagged := a.checkCrossLibrary(ctx, c, leadership); flagged {
				result.OverlapFlags = append(result.OverlapFlags, flag)
			}
		}
	}

	result.DistinctnessFlags = a.checkDistinctness(ctx, set.Competencies)
	result.AuditPassed = result.MaterialOverlapCount() == 0 && len(result.DistinctnessFlags) == 0
	return result, nil
}

// checkCrossLibrary scores a competency against every leadership entry and
// flags it by the maximum similarity found. MATERIAL overlap recommends
// removal; MINOR recommends a definition revision.
func (a *Auditor) checkCrossLibrary(ctx context.Context, c types.TechnicalCompetency, leadership *types.CompetencyLibrary) (types.OverlapFlag, bool) {
	var maxSim float64
	var nearest string

	for _, entry := range leadership.Entries {
		sim, _ := a.scorer.Semantic(ctx, c.Definition, entry.Definition)
		if sim > maxSim {
			maxSim = sim
			nearest = entry.CompetencyID
		}
	}

	switch {
	case maxSim >= a.thresholds.MaterialOverlap:
		return types.OverlapFlag{
			CompetencyID:    c.CompetencyID,
			Severity:        types.OverlapMaterial,
			Similarity:      maxSim,
			TargetDomain:    leadershipDomain,
			TargetID:        nearest,
			SuggestedAction: types.ActionRemove,
		}, true
	case maxSim >= a.thresholds.MinorOverlap:
		return types.OverlapFlag{
			CompetencyID:    c.CompetencyID,
			Severity:        types.OverlapMinor,
			Similarity:      maxSim,
			TargetDomain:    leadershipDomain,
			TargetID:        nearest,
			SuggestedAction: types.ActionRevise,
		}, true
	}
	return types.OverlapFlag{}, false
}

// checkDistinctness scores every unordered sibling pair. The second member by
// insertion order is the one recommended for removal, so remediation keeps the
// competency that earlier responsibilities picked first.
func (a *Auditor) checkDistinctness(ctx context.Context, competencies []types.TechnicalCompetency) []types.DistinctnessFlag {
	var flags []types.DistinctnessFlag

	for i := 0; i < len(competencies); i++ {
		for j := i + 1; j < len(competencies); j++ {
			first, second := competencies[i], competencies[j]
			sim, _ := a.scorer.Semantic(ctx, first.Definition, second.Definition)
			if sim < a.thresholds.DuplicatePair {
				continue
			}

			conflict := types.ConflictNearDuplicate
			if sim >= a.thresholds.ExactDuplicate {
				conflict = types.ConflictDuplicate
			}
			flags = append(flags, types.DistinctnessFlag{
				FirstID:    first.CompetencyID,
				SecondID:   second.CompetencyID,
				Similarity: sim,
				Conflict:   conflict,
			})
		}
	}

	return flags
}
