package scoring

import "context"

// StaticOracle is a deterministic, offline Oracle. It backs runs without an
// API key (semantic judgment degrades to lexical overlap) and deterministic
// tests, which install their own scoring functions.
type StaticOracle struct {
	// SimilarityFn scores a text pair; defaults to JaccardSimilarity.
	SimilarityFn func(a, b string) float64
	// RelevanceFn scores responsibility/competency relevance; defaults to SimilarityFn.
	RelevanceFn func(responsibility, competencyName, definition string) float64
	// AlignmentFn scores benchmark alignment; defaults to the neutral score.
	AlignmentFn func(competencyName, definition, references string) float64
}

// SemanticSimilarity scores a pair with SimilarityFn.
func (o *StaticOracle) SemanticSimilarity(_ context.Context, a, b string) (float64, error) {
	if o.SimilarityFn != nil {
		return o.SimilarityFn(a, b), nil
	}
	return JaccardSimilarity(a, b), nil
}

// ContextualRelevance scores a responsibility/competency pairing with RelevanceFn.
func (o *StaticOracle) ContextualRelevance(ctx context.Context, responsibility, competencyName, definition string) (float64, error) {
	if o.RelevanceFn != nil {
		return o.RelevanceFn(responsibility, competencyName, definition), nil
	}
	return o.SemanticSimilarity(ctx, responsibility, definition)
}

// BenchmarkAlignment scores alignment with AlignmentFn.
func (o *StaticOracle) BenchmarkAlignment(_ context.Context, competencyName, definition, references string) (float64, error) {
	if o.AlignmentFn != nil {
		return o.AlignmentFn(competencyName, definition, references), nil
	}
	return neutralScore, nil
}

// WhyItMatters returns an empty statement; callers fall back to template prose.
func (o *StaticOracle) WhyItMatters(_ context.Context, _, _, _, _ string) (string, error) {
	return "", nil
}

// BenchmarkNarrative returns an empty narrative; callers fall back to template prose.
func (o *StaticOracle) BenchmarkNarrative(_ context.Context, _, _ string, _ float64, _ string) (string, error) {
	return "", nil
}
