package types

// OverlapSeverity grades cross-library overlap for a single competency.
type OverlapSeverity string

// Overlap severities.
const (
	OverlapNone     OverlapSeverity = "NONE"
	OverlapMinor    OverlapSeverity = "MINOR"
	OverlapMaterial OverlapSeverity = "MATERIAL"
)

// SuggestedAction is the auditor's recommendation for a flagged competency.
type SuggestedAction string

// Suggested actions attached to overlap flags.
const (
	ActionKeep    SuggestedAction = "KEEP"
	ActionRevise  SuggestedAction = "REVISE"
	ActionRemove  SuggestedAction = "REMOVE"
	ActionReplace SuggestedAction = "REPLACE"
	ActionReview  SuggestedAction = "REVIEW"
)

// OverlapFlag marks one competency as overlapping the leadership/core library.
type OverlapFlag struct {
	CompetencyID    string          `json:"competency_id"`
	Severity        OverlapSeverity `json:"severity"`
	Similarity      float64         `json:"similarity"`
	TargetDomain    string          `json:"target_domain"`
	TargetID        string          `json:"target_id,omitempty"`
	SuggestedAction SuggestedAction `json:"suggested_action"`
}

// ConflictType classifies a within-job distinctness conflict.
type ConflictType string

// Conflict types for distinctness flags.
const (
	ConflictDuplicate       ConflictType = "DUPLICATE"
	ConflictNearDuplicate   ConflictType = "NEAR_DUPLICATE"
	ConflictSemanticOverlap ConflictType = "SEMANTIC_OVERLAP"
)

// DistinctnessFlag marks an unordered pair of same-job competencies as
// near-duplicates. SecondID is the pair member recommended for removal
// (the later one by insertion order).
type DistinctnessFlag struct {
	FirstID    string       `json:"first_id"`
	SecondID   string       `json:"second_id"`
	Similarity float64      `json:"similarity"`
	Conflict   ConflictType `json:"conflict_type"`
}

// JobOverlapAudit aggregates the overlap and distinctness flags for one job.
type JobOverlapAudit struct {
	JobID             string             `json:"job_id"`
	OverlapFlags      []OverlapFlag      `json:"overlap_flags,omitempty"`
	DistinctnessFlags []DistinctnessFlag `json:"distinctness_flags,omitempty"`
	AuditPassed       bool               `json:"audit_passed"`
}

// MaterialOverlapCount returns the number of MATERIAL overlap flags.
func (a *JobOverlapAudit) MaterialOverlapCount() int {
	n := 0
	for _, f := range a.OverlapFlags {
		if f.Severity == OverlapMaterial {
			n++
		}
	}
	return n
}

// FlagsFor returns the overlap flag for a competency, or false if unflagged.
func (a *JobOverlapAudit) FlagsFor(competencyID string) (OverlapFlag, bool) {
	for _, f := range a.OverlapFlags {
		if f.CompetencyID == competencyID {
			return f, true
		}
	}
	return OverlapFlag{}, false
}
