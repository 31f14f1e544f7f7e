package scoring

import (
	"context"
	"strings"
	"unicode"
)

// neutralScore is substituted when the oracle is unavailable. Downstream
// stages treat the substitution as low-confidence rather than failing the job.
const neutralScore = 0.5

// PairScore is the result of scoring two text spans.
type PairScore struct {
	Lexical       float64 `json:"lexical"`
	Semantic      float64 `json:"semantic"`
	LowConfidence bool    `json:"low_confidence,omitempty"`
}

// Scorer computes lexical overlap locally and delegates semantic similarity
// to the oracle. Oracle results are cached by content hash; oracle failures
// degrade to a neutral default with the low-confidence flag set.
type Scorer struct {
	oracle Oracle
	cache  *pairCache
}

// NewScorer creates a scorer around the given oracle. A nil oracle is
// permitted: every semantic score then falls back to the neutral default.
func NewScorer(oracle Oracle) *Scorer {
	return &Scorer{
		oracle: oracle,
		cache:  newPairCache(),
	}
}

// Score returns the lexical and semantic similarity of two text spans.
func (s *Scorer) Score(ctx context.Context, a, b string) PairScore {
	score := PairScore{Lexical: JaccardSimilarity(a, b)}
	score.Semantic, score.LowConfidence = s.semantic(ctx, a, b)
	return score
}

// Semantic returns only the semantic similarity of two text spans, with the
// low-confidence flag when the neutral default was substituted.
func (s *Scorer) Semantic(ctx context.Context, a, b string) (float64, bool) {
	return s.semantic(ctx, a, b)
}

// Contextual returns the oracle's contextual-relevance score for a
// responsibility/competency pairing, degrading to neutral on failure.
func (s *Scorer) Contextual(ctx context.Context, responsibility, competencyName, definition string) (float64, bool) {
	if s.oracle == nil {
		return neutralScore, true
	}

	key := orderedKey(responsibility, competencyName+"\n"+definition)
	if v, ok := s.cache.get(key); ok {
		return v, false
	}

	v, err := s.oracle.ContextualRelevance(ctx, responsibility, competencyName, definition)
	if err != nil {
		return neutralScore, true
	}

	s.cache.put(key, v)
	return v, false
}

// CachedScores reports how many oracle results are memoized.
func (s *Scorer) CachedScores() int {
	return s.cache.len()
}

func (s *Scorer) semantic(ctx context.Context, a, b string) (float64, bool) {
	if s.oracle == nil {
		return neutralScore, true
	}

	key := pairKey(a, b)
	if v, ok := s.cache.get(key); ok {
		return v, false
	}

	v, err := s.oracle.SemanticSimilarity(ctx, a, b)
	if err != nil {
		return neutralScore, true
	}

	s.cache.put(key, v)
	return v, false
}

// JaccardSimilarity computes the Jaccard overlap of the lowercase token sets
// of two text spans. Identical sets score 1; disjoint or empty sets score 0.
func JaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// tokenSet splits text on non-alphanumeric runes into a lowercase token set.
func tokenSet(text string) map[string]bool {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}
