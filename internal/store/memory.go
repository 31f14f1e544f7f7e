package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/competency-mapper/internal/types"
)

// artifactKey identifies one versioned snapshot chain.
type artifactKey struct {
	runID uuid.UUID
	jobID string
	stage string
}

type memoryArtifact struct {
	key       artifactKey
	version   int
	content   []byte
	createdAt time.Time
}

// MemoryStore is an in-memory Store for tests and runs without a database.
type MemoryStore struct {
	mu        sync.RWMutex
	runs      map[uuid.UUID]*Run
	artifacts []memoryArtifact
	states    map[uuid.UUID]*types.RunState
	docs      []types.ReferenceDocument
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:   make(map[uuid.UUID]*Run),
		states: make(map[uuid.UUID]*types.RunState),
	}
}

// CreateRun creates a new run record and returns its ID.
func (s *MemoryStore) CreateRun(_ context.Context, label string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.runs[id] = &Run{ID: id, Label: label, Status: StatusRunning, CreatedAt: time.Now()}
	return id, nil
}

// CompleteRun marks a run with a terminal status.
func (s *MemoryStore) CompleteRun(_ context.Context, runID uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("run not found: %s", runID)
	}
	now := time.Now()
	run.Status = status
	run.CompletedAt = &now
	return nil
}

// GetRun retrieves a run by ID.
func (s *MemoryStore) GetRun(_ context.Context, runID uuid.UUID) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}

// ListRuns retrieves recent runs, newest first.
func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, *r)
	}
	for i := 0; i < len(runs); i++ {
		for j := i + 1; j < len(runs); j++ {
			if runs[j].CreatedAt.After(runs[i].CreatedAt) {
				runs[i], runs[j] = runs[j], runs[i]
			}
		}
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// SaveArtifact inserts a new version of a stage snapshot.
func (s *MemoryStore) SaveArtifact(_ context.Context, runID uuid.UUID, jobID, stage string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := artifactKey{runID: runID, jobID: jobID, stage: stage}
	version := 1
	for _, a := range s.artifacts {
		if a.key == key && a.version >= version {
			version = a.version + 1
		}
	}

	s.artifacts = append(s.artifacts, memoryArtifact{
		key:       key,
		version:   version,
		content:   jsonBytes,
		createdAt: time.Now(),
	})
	return nil
}

// GetLatestArtifact retrieves the highest version of a snapshot.
func (s *MemoryStore) GetLatestArtifact(_ context.Context, runID uuid.UUID, jobID, stage string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := artifactKey{runID: runID, jobID: jobID, stage: stage}
	var latest *memoryArtifact
	for i := range s.artifacts {
		a := &s.artifacts[i]
		if a.key == key && (latest == nil || a.version > latest.version) {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest.content, nil
}

// ListArtifacts retrieves artifact summaries for a run in save order.
func (s *MemoryStore) ListArtifacts(_ context.Context, runID uuid.UUID) ([]ArtifactSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ArtifactSummary
	for _, a := range s.artifacts {
		if a.key.runID != runID {
			continue
		}
		out = append(out, ArtifactSummary{
			JobID:     a.key.jobID,
			Stage:     a.key.stage,
			Version:   a.version,
			CreatedAt: a.createdAt,
		})
	}
	return out, nil
}

// SaveRunState stores the final run state snapshot.
func (s *MemoryStore) SaveRunState(_ context.Context, runID uuid.UUID, state *types.RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[runID] = state
	return nil
}

// GetRunState retrieves the stored run state.
func (s *MemoryStore) GetRunState(_ context.Context, runID uuid.UUID) (*types.RunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[runID], nil
}

// ListReferenceDocuments retrieves all benchmarking reference documents.
func (s *MemoryStore) ListReferenceDocuments(_ context.Context) ([]types.ReferenceDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.ReferenceDocument, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

// SearchReferenceDocuments retrieves documents matching the query.
func (s *MemoryStore) SearchReferenceDocuments(_ context.Context, query string) ([]types.ReferenceDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(query)
	var out []types.ReferenceDocument
	for _, d := range s.docs {
		haystack := strings.ToLower(d.Title + " " + d.Source + " " + d.Excerpt)
		if strings.Contains(haystack, query) {
			out = append(out, d)
		}
	}
	return out, nil
}

// AddReferenceDocument stores a new document. A missing DocID gets a UUID.
func (s *MemoryStore) AddReferenceDocument(_ context.Context, doc types.ReferenceDocument) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.DocID == "" {
		doc.DocID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	s.docs = append(s.docs, doc)
	return doc.DocID, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}
