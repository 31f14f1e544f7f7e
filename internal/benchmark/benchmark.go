// Package benchmark scores clean competencies against external reference
// documents. Alignment feeds the differentiation factor of the criticality
// ranking; failures degrade to a neutral score rather than failing the job.
package benchmark

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/competency-mapper/internal/scoring"
	"github.com/jonathan/competency-mapper/internal/types"
)

// neutralAlignment is substituted when the oracle cannot be consulted.
const neutralAlignment = 0.5

// maxExcerpts bounds how many reference excerpts one oracle call carries.
const maxExcerpts = 5

// ReferenceSource lists the reference documents available for benchmarking.
// The store package provides Postgres and in-memory implementations.
type ReferenceSource interface {
	ListReferenceDocuments(ctx context.Context) ([]types.ReferenceDocument, error)
}

// Benchmarker populates benchmarking records on clean competencies.
type Benchmarker struct {
	oracle scoring.Oracle
	source ReferenceSource
}

// NewBenchmarker creates a benchmarker. Both collaborators are optional: with
// no source or no documents every record is neutral and low-confidence, and
// with no oracle the narrative falls back to template prose.
func NewBenchmarker(oracle scoring.Oracle, source ReferenceSource) *Benchmarker {
	return &Benchmarker{oracle: oracle, source: source}
}

// BenchmarkSet fills in the BenchmarkingRecord of every competency in place
// and returns the annotated slice. Oracle failures are soft: the affected
// record carries the neutral score and the low-confidence flag.
func (b *Benchmarker) BenchmarkSet(ctx context.Context, competencies []types.TechnicalCompetency) ([]types.TechnicalCompetency, error) {
	docs, err := b.loadDocuments(ctx)
	if err != nil {
		return nil, err
	}

	for i := range competencies {
		competencies[i].Benchmarking = b.benchmarkOne(ctx, &competencies[i], docs)
	}
	return competencies, nil
}

func (b *Benchmarker) loadDocuments(ctx context.Context) ([]types.ReferenceDocument, error) {
	if b.source == nil {
		return nil, nil
	}
	docs, err := b.source.ListReferenceDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference documents: %w", err)
	}
	return docs, nil
}

// benchmarkOne scores one competency against the reference excerpts.
func (b *Benchmarker) benchmarkOne(ctx context.Context, c *types.TechnicalCompetency, docs []types.ReferenceDocument) types.BenchmarkingRecord {
	if len(docs) == 0 || b.oracle == nil {
		return types.BenchmarkingRecord{
			Benchmarked:    true,
			AlignmentScore: neutralAlignment,
			Narrative:      fmt.Sprintf("No reference documents were available to benchmark %s; a neutral alignment was assumed.", c.Name),
			LowConfidence:  true,
		}
	}

	references, docIDs := formatReferences(docs)

	score, err := b.oracle.BenchmarkAlignment(ctx, c.Name, c.Definition, references)
	if err != nil {
		return types.BenchmarkingRecord{
			Benchmarked:    true,
			AlignmentScore: neutralAlignment,
			Narrative:      fmt.Sprintf("Benchmarking of %s could not be completed; a neutral alignment was assumed.", c.Name),
			SourceDocIDs:   docIDs,
			LowConfidence:  true,
		}
	}

	return types.BenchmarkingRecord{
		Benchmarked:    true,
		AlignmentScore: score,
		Narrative:      b.narrative(ctx, c, score, references, docIDs),
		SourceDocIDs:   docIDs,
	}
}

// narrative asks the oracle for prose, falling back to a deterministic
// template keyed off the alignment score.
func (b *Benchmarker) narrative(ctx context.Context, c *types.TechnicalCompetency, score float64, references string, docIDs []string) string {
	text, err := b.oracle.BenchmarkNarrative(ctx, c.Name, c.Definition, score, references)
	if err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}

	level := "partially aligns with"
	switch {
	case score >= 0.8:
		level = "closely matches"
	case score < 0.4:
		level = "diverges from"
	}
	return fmt.Sprintf("%s %s the practices described in %d reference document(s) (alignment %.2f).",
		c.Name, level, len(docIDs), score)
}

// formatReferences renders the excerpts for the oracle prompt and collects
// their document IDs.
func formatReferences(docs []types.ReferenceDocument) (string, []string) {
	if len(docs) > maxExcerpts {
		docs = docs[:maxExcerpts]
	}

	var sb strings.Builder
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		fmt.Fprintf(&sb, "[%s] %s (%s): %s\n", d.DocID, d.Title, d.Source, d.Excerpt)
		ids = append(ids, d.DocID)
	}
	return sb.String(), ids
}
