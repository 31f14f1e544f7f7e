// Package mapping ranks technical library competencies against each job
// responsibility and keeps the strongest candidates.
package mapping

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/scoring"
	"github.com/jonathan/competency-mapper/internal/types"
)

// Blend weights for the relevance score. Contextual falls back to the
// neutral default when the oracle was not consulted.
const (
	semanticWeight   = 0.4
	lexicalWeight    = 0.3
	contextualWeight = 0.3
)

// Mapper produces responsibility → competency candidate mappings.
type Mapper struct {
	scorer     *scoring.Scorer
	thresholds config.Thresholds
}

// NewMapper creates a mapper with the given scorer and thresholds.
func NewMapper(scorer *scoring.Scorer, thresholds config.Thresholds) *Mapper {
	return &Mapper{scorer: scorer, thresholds: thresholds}
}

// MapResponsibilities scores every technical library competency against every
// responsibility of the job. Candidates below the relevance floor are
// discarded; the rest are ordered by relevance descending (competency ID
// ascending on ties, so ranking is deterministic) and truncated to the
// configured maximum.
func (m *Mapper) MapResponsibilities(ctx context.Context, job *types.Job, library *types.CompetencyLibrary) (*types.MappingResult, error) {
	if library.Kind != types.LibraryTechnical {
		return nil, fmt.Errorf("mapping requires the technical library, got %q", library.Kind)
	}

	result := &types.MappingResult{JobID: job.JobID}
	for _, resp := range job.Responsibilities {
		mapping := types.ResponsibilityMapping{ResponsibilityID: resp.ResponsibilityID}

		for _, entry := range library.Entries {
			candidate := m.scoreCandidate(ctx, resp, entry)
			if candidate.RelevanceScore >= m.thresholds.RelevanceFloor {
				mapping.Candidates = append(mapping.Candidates, candidate)
			}
		}

		sortCandidates(mapping.Candidates)
		if len(mapping.Candidates) > m.thresholds.MaxCandidates {
			mapping.Candidates = mapping.Candidates[:m.thresholds.MaxCandidates]
		}
		if mapping.Unmapped() {
			result.Unmapped = append(result.Unmapped, resp.ResponsibilityID)
		}

		result.Mappings = append(result.Mappings, mapping)
	}

	return result, nil
}

// scoreCandidate blends lexical, semantic, and contextual scores for one
// responsibility/competency pairing.
func (m *Mapper) scoreCandidate(ctx context.Context, resp types.Responsibility, entry types.CompetencyLibraryEntry) types.CompetencyCandidate {
	pair := m.scorer.Score(ctx, resp.NormalizedText, entry.Definition)
	contextual, contextualLow := m.scorer.Contextual(ctx, resp.RawText, entry.Name, entry.Definition)

	relevance := semanticWeight*pair.Semantic + lexicalWeight*pair.Lexical + contextualWeight*contextual
	if relevance > 1 {
		relevance = 1
	}

	return types.CompetencyCandidate{
		CompetencyID:    entry.CompetencyID,
		CompetencyName:  entry.Name,
		LexicalScore:    pair.Lexical,
		SemanticScore:   pair.Semantic,
		ContextualScore: contextual,
		RelevanceScore:  relevance,
		LowConfidence:   pair.LowConfidence || contextualLow,
	}
}

// sortCandidates orders by relevance descending, then competency ID ascending.
func sortCandidates(candidates []types.CompetencyCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].RelevanceScore != candidates[j].RelevanceScore {
			return candidates[i].RelevanceScore > candidates[j].RelevanceScore
		}
		return candidates[i].CompetencyID < candidates[j].CompetencyID
	})
}
