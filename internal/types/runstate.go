package types

// FlagSeverity classifies run flags and validation failures.
type FlagSeverity string

// Flag severities, ordered from observational to fatal.
const (
	SeverityInfo     FlagSeverity = "INFO"
	SeverityWarning  FlagSeverity = "WARNING"
	SeverityError    FlagSeverity = "ERROR"
	SeverityCritical FlagSeverity = "CRITICAL"
)

// Stage names the pipeline stages a job moves through.
type Stage string

// Pipeline stages. FAIL is reachable from every gate.
const (
	StageIngest    Stage = "INGEST"
	StageMap       Stage = "MAP"
	StageNormalize Stage = "NORMALIZE"
	StageAudit     Stage = "AUDIT"
	StageRemediate Stage = "REMEDIATE"
	StageBenchmark Stage = "BENCHMARK"
	StageRank      Stage = "RANK"
	StageDone      Stage = "DONE"
	StageFailed    Stage = "FAILED"
)

// ValidationResult is the outcome of a single gate rule.
type ValidationResult struct {
	Rule     string       `json:"rule"`
	Passed   bool         `json:"passed"`
	Severity FlagSeverity `json:"severity"`
	Blocking bool         `json:"blocking"`
	Detail   string       `json:"detail,omitempty"`
}

// GateRoute is the control-flow decision a gate produces.
type GateRoute string

// Gate routes. RouteReaudit is only reachable from the post-remediation gate.
const (
	RouteContinue GateRoute = "CONTINUE"
	RouteFail     GateRoute = "FAIL"
	RouteReaudit  GateRoute = "REAUDIT"
)

// GateDecision aggregates a gate's rule results into a routing decision.
type GateDecision struct {
	Gate    string             `json:"gate"`
	Route   GateRoute          `json:"route"`
	Results []ValidationResult `json:"results"`
}

// BlockingFailures returns the failed results marked blocking.
func (d *GateDecision) BlockingFailures() []ValidationResult {
	var out []ValidationResult
	for _, r := range d.Results {
		if !r.Passed && r.Blocking {
			out = append(out, r)
		}
	}
	return out
}

// RunFlag is a severity-tagged note recorded against the run rather than
// raised up the stack. The gate alone decides whether accumulated flags
// terminate the run.
type RunFlag struct {
	JobID    string       `json:"job_id,omitempty"`
	Stage    Stage        `json:"stage,omitempty"`
	Severity FlagSeverity `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
}

// JobState is the terminal record for one job's trip through the pipeline.
type JobState struct {
	JobID         string         `json:"job_id"`
	LastStage     Stage          `json:"last_stage"`
	Gates         []GateDecision `json:"gates,omitempty"`
	Flags         []RunFlag      `json:"flags,omitempty"`
	ReauditPasses int            `json:"reaudit_passes"`
	Ranking       *RankingResult `json:"ranking,omitempty"`
}

// Failed reports whether the job terminated at a gate.
func (s *JobState) Failed() bool {
	return s.LastStage == StageFailed
}

// RunState is the user-visible final state of a pipeline run.
type RunState struct {
	RunID     string     `json:"run_id"`
	Jobs      []JobState `json:"jobs"`
	Flags     []RunFlag  `json:"flags,omitempty"`
	Completed bool       `json:"completed"`
}

// BlockingFlags returns the flags that caused a termination, if any.
func (s *RunState) BlockingFlags() []RunFlag {
	var out []RunFlag
	for _, f := range s.Flags {
		if f.Severity == SeverityError || f.Severity == SeverityCritical {
			out = append(out, f)
		}
	}
	for _, j := range s.Jobs {
		for _, f := range j.Flags {
			if f.Severity == SeverityError || f.Severity == SeverityCritical {
				out = append(out, f)
			}
		}
	}
	return out
}
