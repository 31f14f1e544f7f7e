// Package gate evaluates fixed rule lists between pipeline stages and routes
// control flow. Rules record outcomes; only blocking failures terminate, and
// lenient mode downgrades ERROR rules to WARNING so they report instead.
package gate

import (
	"fmt"

	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/types"
)

// Gate names used in decisions and flags.
const (
	GateExtraction  = "extraction"
	GateMapping     = "mapping"
	GateRemediation = "remediation"
	GateRanking     = "ranking"
)

// Gate evaluates quality rules against stage outputs.
type Gate struct {
	thresholds config.Thresholds
	lenient    bool
}

// NewGate creates a gate. Lenient mode downgrades ERROR severities to WARNING;
// CRITICAL rules always block regardless of mode.
func NewGate(thresholds config.Thresholds, lenient bool) *Gate {
	return &Gate{thresholds: thresholds, lenient: lenient}
}

// CheckExtraction validates the run-level ingestion output: at least one job
// must survive, and the missing-summary rate must stay within tolerance.
func (g *Gate) CheckExtraction(result *types.ExtractionResult) types.GateDecision {
	var results []types.ValidationResult

	results = append(results, g.rule("jobs_present", len(result.Jobs) > 0, types.SeverityCritical,
		fmt.Sprintf("%d job(s) ingested", len(result.Jobs))))

	missingRate := warningRate(result, types.WarnMissingSummary)
	results = append(results, g.rule("missing_summary_rate", missingRate <= g.thresholds.MissingSummaryMax, types.SeverityWarning,
		fmt.Sprintf("missing-summary rate %.0f%% (limit %.0f%%)", missingRate*100, g.thresholds.MissingSummaryMax*100)))

	noResp := warningCount(result, types.WarnNoResponsibilities)
	results = append(results, g.rule("responsibilities_present", noResp == 0, types.SeverityWarning,
		fmt.Sprintf("%d job(s) have no extractable responsibilities", noResp)))

	return decide(GateExtraction, results, false)
}

// CheckMapping validates one job's mapping and normalization output: the
// unmapped rate must stay within tolerance, and normalization must yield at
// least one competency to carry forward.
func (g *Gate) CheckMapping(mapping *types.MappingResult, set *types.NormalizedSet) types.GateDecision {
	var results []types.ValidationResult

	rate := mapping.UnmappedRate()
	results = append(results, g.rule("unmapped_rate", rate <= g.thresholds.UnmappedRateLimit, types.SeverityError,
		fmt.Sprintf("unmapped rate %.0f%% (limit %.0f%%)", rate*100, g.thresholds.UnmappedRateLimit*100)))

	results = append(results, g.rule("competencies_present", len(set.Competencies) > 0, types.SeverityCritical,
		fmt.Sprintf("%d competency(ies) after normalization", len(set.Competencies))))

	return decide(GateMapping, results, false)
}

// CheckRemediation validates the post-remediation state. The reaudit result
// must show zero remaining material overlaps; when revisions were made and a
// reaudit pass is still available the gate routes to REAUDIT instead of
// continuing.
func (g *Gate) CheckRemediation(remediation *types.RemediationResult, audit *types.JobOverlapAudit, reauditAvailable bool) types.GateDecision {
	var results []types.ValidationResult

	remaining := audit.MaterialOverlapCount()
	results = append(results, g.rule("material_overlaps_resolved", remaining == 0, types.SeverityError,
		fmt.Sprintf("%d material overlap(s) remain after remediation", remaining)))

	results = append(results, g.rule("clean_set_nonempty", len(remediation.Clean) > 0, types.SeverityCritical,
		fmt.Sprintf("%d competency(ies) survived remediation", len(remediation.Clean))))

	wantReaudit := remediation.ReauditRequired && reauditAvailable
	return decide(GateRemediation, results, wantReaudit)
}

// CheckRanking validates the final selection: coverage at or above the floor
// and a top-N size inside the valid range. Both rules only warn.
func (g *Gate) CheckRanking(ranking *types.RankingResult) types.GateDecision {
	var results []types.ValidationResult

	rate := ranking.Coverage.CoverageRate
	results = append(results, g.rule("coverage_floor", rate >= g.thresholds.CoverageFloor, types.SeverityWarning,
		fmt.Sprintf("top-%d selection covers %.0f%% of mapped responsibilities (floor %.0f%%)",
			len(ranking.Ranked), rate*100, g.thresholds.CoverageFloor*100)))

	n := len(ranking.Ranked)
	results = append(results, g.rule("selection_size", n >= 6 && n <= 10, types.SeverityWarning,
		fmt.Sprintf("selection holds %d competencies", n)))

	return decide(GateRanking, results, false)
}

// Flags converts a decision's failed rules into run flags for one job.
func Flags(jobID string, stage types.Stage, decision types.GateDecision) []types.RunFlag {
	var flags []types.RunFlag
	for _, r := range decision.Results {
		if r.Passed {
			continue
		}
		flags = append(flags, types.RunFlag{
			JobID:    jobID,
			Stage:    stage,
			Severity: r.Severity,
			Code:     decision.Gate + "." + r.Rule,
			Message:  r.Detail,
		})
	}
	return flags
}

// rule builds one validation result, applying the lenient downgrade.
func (g *Gate) rule(name string, passed bool, severity types.FlagSeverity, detail string) types.ValidationResult {
	if g.lenient && severity == types.SeverityError {
		severity = types.SeverityWarning
	}
	return types.ValidationResult{
		Rule:     name,
		Passed:   passed,
		Severity: severity,
		Blocking: severity == types.SeverityError || severity == types.SeverityCritical,
		Detail:   detail,
	}
}

// decide aggregates rule results into a route. Blocking failures win over a
// reaudit request; otherwise a requested reaudit wins over continue.
func decide(gate string, results []types.ValidationResult, wantReaudit bool) types.GateDecision {
	decision := types.GateDecision{Gate: gate, Route: types.RouteContinue, Results: results}
	if len(decision.BlockingFailures()) > 0 {
		decision.Route = types.RouteFail
	} else if wantReaudit {
		decision.Route = types.RouteReaudit
	}
	return decision
}

func warningCount(result *types.ExtractionResult, kind types.ExtractionWarningType) int {
	n := 0
	for _, w := range result.Warnings {
		if w.Type == kind {
			n++
		}
	}
	return n
}

func warningRate(result *types.ExtractionResult, kind types.ExtractionWarningType) float64 {
	if len(result.Jobs) == 0 {
		return 0
	}
	return float64(warningCount(result, kind)) / float64(len(result.Jobs))
}
