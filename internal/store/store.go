// Package store persists pipeline runs, stage artifacts, and reference
// documents. Artifacts are immutable: every save inserts a new version, and
// readers take the highest version for a (run, job, stage) key.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/competency-mapper/internal/types"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Artifact stage names with their snapshot versions. Versions encode stage
// order so the latest artifact of a job is also its furthest stage.
const (
	ArtifactMapping     = "mapping"
	ArtifactNormalized  = "normalized"
	ArtifactAudit       = "audit"
	ArtifactClean       = "clean"
	ArtifactRemediation = "remediation"
	ArtifactBenchmarked = "benchmarked"
	ArtifactRanked      = "ranked"
)

// Run is a persisted pipeline run record.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Label       string     `json:"label"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ArtifactSummary is a lightweight view of one stored artifact for listing.
type ArtifactSummary struct {
	JobID     string    `json:"job_id"`
	Stage     string    `json:"stage"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence boundary for the pipeline and the CLI.
type Store interface {
	// CreateRun opens a new run record in the running state.
	CreateRun(ctx context.Context, label string) (uuid.UUID, error)
	// CompleteRun closes a run with a terminal status.
	CompleteRun(ctx context.Context, runID uuid.UUID, status string) error
	// GetRun returns a run, or nil when it does not exist.
	GetRun(ctx context.Context, runID uuid.UUID) (*Run, error)
	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// SaveArtifact inserts a new version of a stage snapshot for one job.
	SaveArtifact(ctx context.Context, runID uuid.UUID, jobID, stage string, content any) error
	// GetLatestArtifact returns the highest version of a snapshot, or nil bytes
	// when no version exists.
	GetLatestArtifact(ctx context.Context, runID uuid.UUID, jobID, stage string) ([]byte, error)
	// ListArtifacts returns summaries of every artifact of a run in save order.
	ListArtifacts(ctx context.Context, runID uuid.UUID) ([]ArtifactSummary, error)

	// SaveRunState stores the final run state snapshot.
	SaveRunState(ctx context.Context, runID uuid.UUID, state *types.RunState) error
	// GetRunState returns the stored run state, or nil when absent.
	GetRunState(ctx context.Context, runID uuid.UUID) (*types.RunState, error)

	// ListReferenceDocuments returns all benchmarking reference documents.
	ListReferenceDocuments(ctx context.Context) ([]types.ReferenceDocument, error)
	// SearchReferenceDocuments returns documents whose title, source, or excerpt
	// matches the query.
	SearchReferenceDocuments(ctx context.Context, query string) ([]types.ReferenceDocument, error)
	// AddReferenceDocument stores a new document and returns its ID.
	AddReferenceDocument(ctx context.Context, doc types.ReferenceDocument) (string, error)

	// Close releases the store's resources.
	Close()
}
