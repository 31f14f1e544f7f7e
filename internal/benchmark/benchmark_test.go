package benchmark

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/competency-mapper/internal/scoring"
	"github.com/jonathan/competency-mapper/internal/types"
)

type memorySource struct {
	docs []types.ReferenceDocument
	err  error
}

func (s *memorySource) ListReferenceDocuments(context.Context) ([]types.ReferenceDocument, error) {
	return s.docs, s.err
}

func testDocs() []types.ReferenceDocument {
	return []types.ReferenceDocument{
		{DocID: "doc-001", Title: "SFIA Data Engineering", Source: "SFIA", Excerpt: "Designs and operates data pipelines."},
		{DocID: "doc-002", Title: "O*NET Database Work", Source: "O*NET", Excerpt: "Maintains data warehouses."},
	}
}

func testCompetencies() []types.TechnicalCompetency {
	return []types.TechnicalCompetency{
		{CompetencyID: "tech-001", Name: "Data Engineering", Definition: "Builds data pipelines."},
	}
}

func TestBenchmarkSet_ScoresAgainstReferences(t *testing.T) {
	oracle := &scoring.StaticOracle{
		AlignmentFn: func(name, def, refs string) float64 { return 0.85 },
	}
	b := NewBenchmarker(oracle, &memorySource{docs: testDocs()})

	out, err := b.BenchmarkSet(context.Background(), testCompetencies())
	require.NoError(t, err)

	record := out[0].Benchmarking
	assert.True(t, record.Benchmarked)
	assert.Equal(t, 0.85, record.AlignmentScore)
	assert.Equal(t, []string{"doc-001", "doc-002"}, record.SourceDocIDs)
	assert.False(t, record.LowConfidence)
	assert.Contains(t, record.Narrative, "closely matches")
}

func TestBenchmarkSet_NeutralWithoutDocuments(t *testing.T) {
	b := NewBenchmarker(&scoring.StaticOracle{}, &memorySource{})

	out, err := b.BenchmarkSet(context.Background(), testCompetencies())
	require.NoError(t, err)

	record := out[0].Benchmarking
	assert.True(t, record.Benchmarked)
	assert.Equal(t, 0.5, record.AlignmentScore)
	assert.True(t, record.LowConfidence)
}

func TestBenchmarkSet_NeutralWithoutOracle(t *testing.T) {
	b := NewBenchmarker(nil, &memorySource{docs: testDocs()})

	out, err := b.BenchmarkSet(context.Background(), testCompetencies())
	require.NoError(t, err)
	assert.Equal(t, 0.5, out[0].Benchmarking.AlignmentScore)
	assert.True(t, out[0].Benchmarking.LowConfidence)
}

func TestBenchmarkSet_SourceErrorIsFatal(t *testing.T) {
	b := NewBenchmarker(&scoring.StaticOracle{}, &memorySource{err: errors.New("connection refused")})

	_, err := b.BenchmarkSet(context.Background(), testCompetencies())
	assert.Error(t, err)
}

func TestBenchmarkSet_FallbackNarrativeBands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.9, "closely matches"},
		{0.6, "partially aligns with"},
		{0.2, "diverges from"},
	}

	for _, tt := range tests {
		oracle := &scoring.StaticOracle{
			AlignmentFn: func(name, def, refs string) float64 { return tt.score },
		}
		b := NewBenchmarker(oracle, &memorySource{docs: testDocs()})

		out, err := b.BenchmarkSet(context.Background(), testCompetencies())
		require.NoError(t, err)
		assert.Contains(t, out[0].Benchmarking.Narrative, tt.want)
	}
}
