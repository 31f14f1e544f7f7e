// Package remediate applies the overlap auditor's recommendations: material
// overlaps and near-duplicates are removed, minor overlaps are re-scoped to
// the technical execution of the competency. One attempt per pipeline pass.
package remediate

import (
	"fmt"
	"strings"

	"github.com/jonathan/competency-mapper/internal/normalize"
	"github.com/jonathan/competency-mapper/internal/types"
)

// Remediator turns audit flags into a clean competency set plus an action log.
type Remediator struct{}

// NewRemediator creates a remediator.
func NewRemediator() *Remediator {
	return &Remediator{}
}

// Remediate applies exactly one action per competency. Competencies flagged
// MATERIAL, or flagged as the second member of a duplicate pair, are removed.
// MINOR flags get a definition re-scope. Everything else passes through with
// NO_ACTION. A reaudit is required only when content was revised; removals
// alone leave the survivors untouched and need no second look.
func (r *Remediator) Remediate(set *types.NormalizedSet, audit *types.JobOverlapAudit) (*types.RemediationResult, error) {
	if audit.JobID != set.JobID {
		return nil, fmt.Errorf("audit belongs to job %q, not %q", audit.JobID, set.JobID)
	}

	duplicateSeconds := make(map[string]types.DistinctnessFlag)
	for _, f := range audit.DistinctnessFlags {
		duplicateSeconds[f.SecondID] = f
	}

	result := &types.RemediationResult{JobID: set.JobID}
	for i := range set.Competencies {
		c := set.Competencies[i]
		action := r.decideAction(c, audit, duplicateSeconds)
		result.Actions = append(result.Actions, action)

		switch action.Action {
		case types.RemediationRemoved:
			// dropped from the clean set
		case types.RemediationRevisedDefinition:
			result.Clean = append(result.Clean, *action.After)
			result.ReauditRequired = true
		default:
			result.Clean = append(result.Clean, c)
		}
	}

	return result, nil
}

// decideAction picks the single action for one competency.
func (r *Remediator) decideAction(c types.TechnicalCompetency, audit *types.JobOverlapAudit, duplicateSeconds map[string]types.DistinctnessFlag) types.RemediationAction {
	if flag, ok := duplicateSeconds[c.CompetencyID]; ok {
		before := c
		return types.RemediationAction{
			CompetencyID: c.CompetencyID,
			Action:       types.RemediationRemoved,
			Rationale:    fmt.Sprintf("%s duplicates %s (similarity %.2f); keeping the earlier competency", c.CompetencyID, flag.FirstID, flag.Similarity),
			Before:       &before,
		}
	}

	overlap, flagged := audit.FlagsFor(c.CompetencyID)
	if !flagged {
		return types.RemediationAction{
			CompetencyID: c.CompetencyID,
			Action:       types.RemediationNoAction,
			Rationale:    "no overlap or distinctness flags",
		}
	}

	switch overlap.Severity {
	case types.OverlapMaterial:
		before := c
		return types.RemediationAction{
			CompetencyID: c.CompetencyID,
			Action:       types.RemediationRemoved,
			Rationale:    fmt.Sprintf("material overlap with %s entry %s (similarity %.2f)", overlap.TargetDomain, overlap.TargetID, overlap.Similarity),
			Before:       &before,
		}
	case types.OverlapMinor:
		before := c
		after := reScope(c, overlap)
		return types.RemediationAction{
			CompetencyID: c.CompetencyID,
			Action:       types.RemediationRevisedDefinition,
			Rationale:    fmt.Sprintf("minor overlap with %s entry %s (similarity %.2f); definition re-scoped to technical execution", overlap.TargetDomain, overlap.TargetID, overlap.Similarity),
			Before:       &before,
			After:        &after,
		}
	}

	return types.RemediationAction{
		CompetencyID: c.CompetencyID,
		Action:       types.RemediationNoAction,
		Rationale:    "overlap below the minor threshold",
	}
}

// reScope rewrites a minor-overlap competency so its definition claims only
// the technical execution of the work. The overlap check stays MINOR with
// remediation notes so the record shows what was flagged and what was done.
func reScope(c types.TechnicalCompetency, overlap types.OverlapFlag) types.TechnicalCompetency {
	revised := c

	definition := strings.TrimSuffix(strings.TrimSpace(c.Definition), ".")
	revised.Definition = fmt.Sprintf("Scoped to the technical execution of %s: %s. Excludes the people-leadership aspects covered by the %s library.",
		c.Name, definition, overlap.TargetDomain)

	revised.WhyItMatters = fmt.Sprintf("Within this role, %s is valued for hands-on technical delivery rather than %s responsibilities. %s",
		c.Name, overlap.TargetDomain, c.WhyItMatters)

	revised.OverlapCheck = types.OverlapCheck{
		Checked:          true,
		Severity:         types.OverlapMinor,
		MaxSimilarity:    overlap.Similarity,
		NearestID:        overlap.TargetID,
		RemediationNotes: "definition re-scoped to technical execution after minor overlap flag",
	}

	revised.Quality.DefinitionWordCount = normalize.WordCount(revised.Definition)
	return revised
}
