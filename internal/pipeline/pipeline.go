// Package pipeline orchestrates the competency mapping run: jobs fan out on
// a bounded worker pool, and each job moves through a state machine of
// mapping, normalization, audit, remediation, benchmarking, and ranking with
// quality gates between the stages.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/competency-mapper/internal/audit"
	"github.com/jonathan/competency-mapper/internal/benchmark"
	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/gate"
	"github.com/jonathan/competency-mapper/internal/mapping"
	"github.com/jonathan/competency-mapper/internal/normalize"
	"github.com/jonathan/competency-mapper/internal/ranking"
	"github.com/jonathan/competency-mapper/internal/remediate"
	"github.com/jonathan/competency-mapper/internal/scoring"
	"github.com/jonathan/competency-mapper/internal/store"
	"github.com/jonathan/competency-mapper/internal/types"
)

// defaultWorkers bounds the job fan-out when no worker count is configured.
const defaultWorkers = 4

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	JobID   string      `json:"job_id,omitempty"`
	Stage   types.Stage `json:"stage"`
	Message string      `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// Pipeline wires the stage processors together. The scorer (and its oracle
// cache) is shared across workers; everything downstream of it is stateless.
type Pipeline struct {
	mapper      *mapping.Mapper
	normalizer  *normalize.Normalizer
	auditor     *audit.Auditor
	remediator  *remediate.Remediator
	benchmarker *benchmark.Benchmarker
	ranker      *ranking.Ranker
	gate        *gate.Gate
	store       store.Store
	thresholds  config.Thresholds
	workers     int
	onProgress  ProgressCallback
}

// Options configures a pipeline.
type Options struct {
	Oracle     scoring.Oracle
	Store      store.Store // optional; nil disables persistence
	Thresholds config.Thresholds
	Workers    int
	Lenient    bool
	OnProgress ProgressCallback
}

// New builds a pipeline from options.
func New(opts Options) *Pipeline {
	scorer := scoring.NewScorer(opts.Oracle)
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Pipeline{
		mapper:      mapping.NewMapper(scorer, opts.Thresholds),
		normalizer:  normalize.NewNormalizer(opts.Oracle, opts.Thresholds),
		auditor:     audit.NewAuditor(scorer, opts.Thresholds),
		remediator:  remediate.NewRemediator(),
		benchmarker: benchmark.NewBenchmarker(opts.Oracle, opts.Store),
		ranker:      ranking.NewRanker(opts.Thresholds),
		gate:        gate.NewGate(opts.Thresholds, opts.Lenient),
		store:       opts.Store,
		thresholds:  opts.Thresholds,
		workers:     workers,
		onProgress:  opts.OnProgress,
	}
}

// Run processes every ingested job and returns the final run state. The
// extraction gate runs once up front; a blocking failure there fails the run
// before any job is dispatched. Cancellation stops dispatching new jobs;
// in-flight jobs run to their next gate.
func (p *Pipeline) Run(ctx context.Context, extraction *types.ExtractionResult, technical, leadership *types.CompetencyLibrary) (*types.RunState, error) {
	runID, err := p.openRun(ctx)
	if err != nil {
		return nil, err
	}

	state := &types.RunState{RunID: runID.String()}

	decision := p.gate.CheckExtraction(extraction)
	state.Flags = append(state.Flags, gate.Flags("", types.StageIngest, decision)...)
	if decision.Route == types.RouteFail {
		p.closeRun(ctx, runID, state)
		return state, fmt.Errorf("extraction gate failed: %d blocking rule(s)", len(decision.BlockingFailures()))
	}

	states := make([]types.JobState, len(extraction.Jobs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range extraction.Jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			states[i] = p.processJob(gCtx, runID, &extraction.Jobs[i], technical, leadership)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range states {
		if states[i].JobID == "" {
			// never dispatched due to cancellation
			states[i] = types.JobState{JobID: extraction.Jobs[i].JobID, LastStage: types.StageIngest}
		}
		state.Jobs = append(state.Jobs, states[i])
	}

	state.Completed = ctx.Err() == nil
	p.closeRun(ctx, runID, state)
	return state, ctx.Err()
}

// processJob drives one job through the state machine and returns its
// terminal state. Gate failures terminate the job, never the whole run.
func (p *Pipeline) processJob(ctx context.Context, runID uuid.UUID, job *types.Job, technical, leadership *types.CompetencyLibrary) types.JobState {
	state := types.JobState{JobID: job.JobID, LastStage: types.StageIngest}

	// MAP
	p.progress(job.JobID, types.StageMap, "mapping responsibilities to competencies")
	mapped, err := p.mapper.MapResponsibilities(ctx, job, technical)
	if err != nil {
		return p.failJob(state, types.StageMap, "mapping_failed", err)
	}
	state.LastStage = types.StageMap
	p.saveArtifact(ctx, runID, job.JobID, store.ArtifactMapping, mapped)

	// NORMALIZE
	p.progress(job.JobID, types.StageNormalize, "building canonical competencies")
	set, err := p.normalizer.BuildCompetencies(ctx, job, mapped, technical)
	if err != nil {
		return p.failJob(state, types.StageNormalize, "normalization_failed", err)
	}
	state.LastStage = types.StageNormalize
	p.saveArtifact(ctx, runID, job.JobID, store.ArtifactNormalized, set)

	decision := p.gate.CheckMapping(mapped, set)
	state.Gates = append(state.Gates, decision)
	state.Flags = append(state.Flags, gate.Flags(job.JobID, types.StageMap, decision)...)
	if decision.Route == types.RouteFail {
		state.LastStage = types.StageFailed
		return state
	}

	// AUDIT ⇄ REMEDIATE
	clean, state, ok := p.auditAndRemediate(ctx, runID, job.JobID, set, leadership, state)
	if !ok {
		return state
	}

	// BENCHMARK
	p.progress(job.JobID, types.StageBenchmark, "benchmarking against reference documents")
	clean, err = p.benchmarker.BenchmarkSet(ctx, clean)
	if err != nil {
		return p.failJob(state, types.StageBenchmark, "benchmarking_failed", err)
	}
	state.LastStage = types.StageBenchmark
	p.saveArtifact(ctx, runID, job.JobID, store.ArtifactBenchmarked, clean)

	// RANK
	p.progress(job.JobID, types.StageRank, "ranking by criticality")
	ranked, err := p.ranker.RankSet(job.JobID, clean)
	if err != nil {
		return p.failJob(state, types.StageRank, "ranking_failed", err)
	}
	state.LastStage = types.StageRank
	state.Ranking = ranked
	p.saveArtifact(ctx, runID, job.JobID, store.ArtifactRanked, ranked)

	decision = p.gate.CheckRanking(ranked)
	state.Gates = append(state.Gates, decision)
	state.Flags = append(state.Flags, gate.Flags(job.JobID, types.StageRank, decision)...)
	if decision.Route == types.RouteFail {
		state.LastStage = types.StageFailed
		return state
	}

	state.LastStage = types.StageDone
	return state
}

// auditAndRemediate runs the audit, applies remediation, and performs the
// bounded reaudit pass when the gate asks for one. A reaudit that still finds
// material overlaps escalates to an ERROR flag and fails the job.
func (p *Pipeline) auditAndRemediate(ctx context.Context, runID uuid.UUID, jobID string, set *types.NormalizedSet, leadership *types.CompetencyLibrary, state types.JobState) ([]types.TechnicalCompetency, types.JobState, bool) {
	p.progress(jobID, types.StageAudit, "auditing for overlap and distinctness")
	auditResult, err := p.auditor.AuditSet(ctx, set, leadership)
	if err != nil {
		return nil, p.failJob(state, types.StageAudit, "audit_failed", err), false
	}
	state.LastStage = types.StageAudit
	p.saveArtifact(ctx, runID, jobID, store.ArtifactAudit, auditResult)

	p.progress(jobID, types.StageRemediate, "applying audit recommendations")
	remediation, err := p.remediator.Remediate(set, auditResult)
	if err != nil {
		return nil, p.failJob(state, types.StageRemediate, "remediation_failed", err), false
	}
	state.LastStage = types.StageRemediate
	p.saveArtifact(ctx, runID, jobID, store.ArtifactClean, remediation.Clean)
	p.saveArtifact(ctx, runID, jobID, store.ArtifactRemediation, remediation.Actions)

	reauditAvailable := state.ReauditPasses < p.thresholds.MaxReauditPasses
	cleanSet := &types.NormalizedSet{JobID: set.JobID, Competencies: remediation.Clean}

	reaudit := auditResult
	if remediation.ReauditRequired || remediation.RemovedCount() > 0 {
		// The first audit saw the pre-remediation set; re-check the survivors
		// so the gate judges current state.
		reaudit, err = p.auditor.AuditSet(ctx, cleanSet, leadership)
		if err != nil {
			return nil, p.failJob(state, types.StageAudit, "audit_failed", err), false
		}
	}

	decision := p.gate.CheckRemediation(remediation, reaudit, reauditAvailable)
	state.Gates = append(state.Gates, decision)
	state.Flags = append(state.Flags, gate.Flags(jobID, types.StageRemediate, decision)...)

	switch decision.Route {
	case types.RouteFail:
		state.LastStage = types.StageFailed
		return nil, state, false
	case types.RouteReaudit:
		state.ReauditPasses++
		p.progress(jobID, types.StageAudit, "reauditing revised competencies")
		p.saveArtifact(ctx, runID, jobID, store.ArtifactAudit, reaudit)

		if !reaudit.AuditPassed {
			state.Flags = append(state.Flags, types.RunFlag{
				JobID:    jobID,
				Stage:    types.StageAudit,
				Severity: types.SeverityError,
				Code:     "audit.reaudit_failed",
				Message:  fmt.Sprintf("%d material overlap(s) and %d distinctness conflict(s) remain after reaudit", reaudit.MaterialOverlapCount(), len(reaudit.DistinctnessFlags)),
			})
			state.LastStage = types.StageFailed
			return nil, state, false
		}
	}

	return remediation.Clean, state, true
}

func (p *Pipeline) failJob(state types.JobState, stage types.Stage, code string, err error) types.JobState {
	state.Flags = append(state.Flags, types.RunFlag{
		JobID:    state.JobID,
		Stage:    stage,
		Severity: types.SeverityCritical,
		Code:     code,
		Message:  err.Error(),
	})
	state.LastStage = types.StageFailed
	return state
}

func (p *Pipeline) openRun(ctx context.Context) (uuid.UUID, error) {
	if p.store == nil {
		return uuid.New(), nil
	}
	runID, err := p.store.CreateRun(ctx, "competency-mapping")
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to open run: %w", err)
	}
	return runID, nil
}

func (p *Pipeline) closeRun(ctx context.Context, runID uuid.UUID, state *types.RunState) {
	if p.store == nil {
		return
	}

	status := store.StatusCompleted
	if !state.Completed || len(state.BlockingFlags()) > 0 {
		status = store.StatusFailed
	}
	_ = p.store.SaveRunState(ctx, runID, state)
	_ = p.store.CompleteRun(ctx, runID, status)
}

func (p *Pipeline) saveArtifact(ctx context.Context, runID uuid.UUID, jobID, stage string, content any) {
	if p.store == nil {
		return
	}
	_ = p.store.SaveArtifact(ctx, runID, jobID, stage, content)
}

func (p *Pipeline) progress(jobID string, stage types.Stage, message string) {
	if p.onProgress != nil {
		p.onProgress(ProgressEvent{JobID: jobID, Stage: stage, Message: message})
	}
}
