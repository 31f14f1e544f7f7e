package types

// RemediationActionType identifies what the remediator did to one competency.
type RemediationActionType string

// Remediation action types.
const (
	RemediationRemoved           RemediationActionType = "REMOVED"
	RemediationRevisedDefinition RemediationActionType = "REVISED_DEFINITION"
	RemediationRevisedIndicators RemediationActionType = "REVISED_INDICATORS"
	RemediationReplaced          RemediationActionType = "REPLACED"
	RemediationNoAction          RemediationActionType = "NO_ACTION"
)

// Revised reports whether the action rewrote competency content (as opposed to
// removing it or leaving it untouched). Revisions require a reaudit pass.
func (t RemediationActionType) Revised() bool {
	return t == RemediationRevisedDefinition || t == RemediationRevisedIndicators
}

// RemediationAction records one remediation decision with before/after snapshots.
type RemediationAction struct {
	CompetencyID string                `json:"competency_id"`
	Action       RemediationActionType `json:"action"`
	Rationale    string                `json:"rationale"`
	Before       *TechnicalCompetency  `json:"before,omitempty"`
	After        *TechnicalCompetency  `json:"after,omitempty"`
}

// RemediationResult is the remediation stage output for one job: the clean
// competency set plus the action log.
type RemediationResult struct {
	JobID           string                `json:"job_id"`
	Clean           []TechnicalCompetency `json:"clean"`
	Actions         []RemediationAction   `json:"actions"`
	ReauditRequired bool                  `json:"reaudit_required"`
}

// RemovedCount returns the number of REMOVED actions in the log.
func (r *RemediationResult) RemovedCount() int {
	n := 0
	for _, a := range r.Actions {
		if a.Action == RemediationRemoved {
			n++
		}
	}
	return n
}
