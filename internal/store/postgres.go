package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/competency-mapper/internal/types"
)

// PostgresStore implements Store over a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// CreateRun creates a new run record and returns its ID.
func (s *PostgresStore) CreateRun(ctx context.Context, label string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO runs (label, status) VALUES ($1, $2) RETURNING id`,
		label, StatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run with a terminal status.
func (s *PostgresStore) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *PostgresStore) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := s.pool.QueryRow(ctx,
		`SELECT id, label, status, created_at, completed_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Label, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent runs, newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, label, status, created_at, completed_at
		 FROM runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Label, &run.Status, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// SaveArtifact inserts a new version of a stage snapshot. Versions never
// overwrite: the version number is one past the current maximum for the key.
func (s *PostgresStore) SaveArtifact(ctx context.Context, runID uuid.UUID, jobID, stage string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, job_id, stage, version, content)
		 VALUES ($1, $2, $3,
		         COALESCE((SELECT MAX(version) FROM artifacts
		                   WHERE run_id = $1 AND job_id = $2 AND stage = $3), 0) + 1,
		         $4)`,
		runID, jobID, stage, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s/%s: %w", jobID, stage, err)
	}
	return nil
}

// GetLatestArtifact retrieves the highest version of a snapshot.
func (s *PostgresStore) GetLatestArtifact(ctx context.Context, runID uuid.UUID, jobID, stage string) ([]byte, error) {
	var content []byte
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM artifacts
		 WHERE run_id = $1 AND job_id = $2 AND stage = $3
		 ORDER BY version DESC LIMIT 1`,
		runID, jobID, stage,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s/%s: %w", jobID, stage, err)
	}
	return content, nil
}

// ListArtifacts retrieves artifact summaries for a run in save order.
func (s *PostgresStore) ListArtifacts(ctx context.Context, runID uuid.UUID) ([]ArtifactSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT job_id, stage, version, created_at
		 FROM artifacts WHERE run_id = $1 ORDER BY created_at ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []ArtifactSummary
	for rows.Next() {
		var a ArtifactSummary
		if err := rows.Scan(&a.JobID, &a.Stage, &a.Version, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// SaveRunState stores the final run state as a run-scoped artifact.
func (s *PostgresStore) SaveRunState(ctx context.Context, runID uuid.UUID, state *types.RunState) error {
	return s.SaveArtifact(ctx, runID, "", "run_state", state)
}

// GetRunState retrieves the stored run state.
func (s *PostgresStore) GetRunState(ctx context.Context, runID uuid.UUID) (*types.RunState, error) {
	content, err := s.GetLatestArtifact(ctx, runID, "", "run_state")
	if err != nil || content == nil {
		return nil, err
	}

	var state types.RunState
	if err := json.Unmarshal(content, &state); err != nil {
		return nil, fmt.Errorf("failed to parse run state: %w", err)
	}
	return &state, nil
}

// ListReferenceDocuments retrieves all benchmarking reference documents.
func (s *PostgresStore) ListReferenceDocuments(ctx context.Context) ([]types.ReferenceDocument, error) {
	return s.queryReferenceDocuments(ctx,
		`SELECT doc_id, title, source, excerpt, tags, created_at
		 FROM reference_documents ORDER BY created_at ASC`)
}

// SearchReferenceDocuments retrieves documents matching the query.
func (s *PostgresStore) SearchReferenceDocuments(ctx context.Context, query string) ([]types.ReferenceDocument, error) {
	return s.queryReferenceDocuments(ctx,
		`SELECT doc_id, title, source, excerpt, tags, created_at
		 FROM reference_documents
		 WHERE title ILIKE $1 OR source ILIKE $1 OR excerpt ILIKE $1
		 ORDER BY created_at ASC`,
		"%"+query+"%")
}

// AddReferenceDocument stores a new document. A missing DocID gets a UUID.
func (s *PostgresStore) AddReferenceDocument(ctx context.Context, doc types.ReferenceDocument) (string, error) {
	if doc.DocID == "" {
		doc.DocID = uuid.NewString()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO reference_documents (doc_id, title, source, excerpt, tags)
		 VALUES ($1, $2, $3, $4, $5)`,
		doc.DocID, doc.Title, doc.Source, doc.Excerpt, doc.Tags,
	)
	if err != nil {
		return "", fmt.Errorf("failed to add reference document: %w", err)
	}
	return doc.DocID, nil
}

func (s *PostgresStore) queryReferenceDocuments(ctx context.Context, query string, args ...any) ([]types.ReferenceDocument, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference documents: %w", err)
	}
	defer rows.Close()

	var docs []types.ReferenceDocument
	for rows.Next() {
		var d types.ReferenceDocument
		if err := rows.Scan(&d.DocID, &d.Title, &d.Source, &d.Excerpt, &d.Tags, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reference document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
