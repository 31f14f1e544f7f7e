// Package scoring provides lexical and semantic similarity scoring for
// responsibility and competency text. Semantic judgments are delegated to an
// external oracle; lexical scoring is purely local.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jonathan/competency-mapper/internal/llm"
	"github.com/jonathan/competency-mapper/internal/prompts"
	internalschemas "github.com/jonathan/competency-mapper/internal/schemas"
	"github.com/jonathan/competency-mapper/schemas"
)

// Oracle is the narrow interface to the external scoring service. All scores
// are in [0,1]. Implementations may be slow or flaky; callers are expected to
// degrade to neutral defaults rather than fail the pipeline.
type Oracle interface {
	// SemanticSimilarity scores how close in meaning two text spans are.
	SemanticSimilarity(ctx context.Context, a, b string) (float64, error)
	// ContextualRelevance scores how relevant a competency is to a responsibility.
	ContextualRelevance(ctx context.Context, responsibility, competencyName, definition string) (float64, error)
	// BenchmarkAlignment scores a competency against reference document excerpts.
	BenchmarkAlignment(ctx context.Context, competencyName, definition, references string) (float64, error)
	// WhyItMatters generates a short why-it-matters statement.
	WhyItMatters(ctx context.Context, jobTitle, competencyName, definition, responsibilities string) (string, error)
	// BenchmarkNarrative generates a short benchmarking narrative.
	BenchmarkNarrative(ctx context.Context, competencyName, definition string, score float64, references string) (string, error)
}

const (
	oracleCallTimeout = 30 * time.Second
	oracleMaxRetries  = 3
)

// scoreResponse is the JSON shape the oracle returns for scoring prompts.
type scoreResponse struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning,omitempty"`
}

// LLMOracle implements Oracle over the Gemini client. Transient failures are
// retried with bounded exponential backoff; each attempt carries its own timeout.
type LLMOracle struct {
	client llm.Client
}

// NewLLMOracle creates an oracle backed by the given LLM client.
func NewLLMOracle(client llm.Client) *LLMOracle {
	return &LLMOracle{client: client}
}

// SemanticSimilarity scores how close in meaning two text spans are.
func (o *LLMOracle) SemanticSimilarity(ctx context.Context, a, b string) (float64, error) {
	prompt := prompts.Format(prompts.MustGet("scoring.json", "semantic-similarity"), map[string]string{
		"TextA": a,
		"TextB": b,
	})
	return o.score(ctx, prompt, llm.TierLite)
}

// ContextualRelevance scores how relevant a competency is to a responsibility.
func (o *LLMOracle) ContextualRelevance(ctx context.Context, responsibility, competencyName, definition string) (float64, error) {
	prompt := prompts.Format(prompts.MustGet("scoring.json", "contextual-relevance"), map[string]string{
		"Responsibility": responsibility,
		"CompetencyName": competencyName,
		"Definition":     definition,
	})
	return o.score(ctx, prompt, llm.TierLite)
}

// BenchmarkAlignment scores a competency against reference document excerpts.
func (o *LLMOracle) BenchmarkAlignment(ctx context.Context, competencyName, definition, references string) (float64, error) {
	prompt := prompts.Format(prompts.MustGet("scoring.json", "benchmark-alignment"), map[string]string{
		"CompetencyName": competencyName,
		"Definition":     definition,
		"References":     references,
	})
	return o.score(ctx, prompt, llm.TierLite)
}

// WhyItMatters generates a short why-it-matters statement.
func (o *LLMOracle) WhyItMatters(ctx context.Context, jobTitle, competencyName, definition, responsibilities string) (string, error) {
	prompt := prompts.Format(prompts.MustGet("generation.json", "why-it-matters"), map[string]string{
		"JobTitle":         jobTitle,
		"CompetencyName":   competencyName,
		"Definition":       definition,
		"Responsibilities": responsibilities,
	})
	return o.generate(ctx, prompt, llm.TierStandard)
}

// BenchmarkNarrative generates a short benchmarking narrative.
func (o *LLMOracle) BenchmarkNarrative(ctx context.Context, competencyName, definition string, score float64, references string) (string, error) {
	prompt := prompts.Format(prompts.MustGet("generation.json", "benchmark-narrative"), map[string]string{
		"CompetencyName": competencyName,
		"Definition":     definition,
		"Score":          fmt.Sprintf("%.2f", score),
		"References":     references,
	})
	return o.generate(ctx, prompt, llm.TierAdvanced)
}

// score runs a scoring prompt, validates the JSON response against the score
// response schema, and clamps the result to [0,1].
func (o *LLMOracle) score(ctx context.Context, prompt string, tier llm.ModelTier) (float64, error) {
	var result float64

	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, oracleCallTimeout)
		defer cancel()

		raw, err := o.client.GenerateJSON(callCtx, prompt, tier)
		if err != nil {
			return fmt.Errorf("oracle generation failed: %w", err)
		}

		raw = llm.CleanJSONBlock(raw)
		if err := internalschemas.ValidateJSONString(schemas.MustRead(schemas.ScoreResponse), raw); err != nil {
			return fmt.Errorf("oracle response rejected by schema: %w", err)
		}

		var resp scoreResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			return fmt.Errorf("failed to parse oracle response: %w", err)
		}

		result = clamp01(resp.Score)
		return nil
	}

	if err := o.retry(ctx, operation); err != nil {
		return 0, err
	}
	return result, nil
}

// generate runs a prose prompt with the same retry policy as scoring calls.
func (o *LLMOracle) generate(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	var result string

	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, oracleCallTimeout)
		defer cancel()

		text, err := o.client.GenerateContent(callCtx, prompt, tier)
		if err != nil {
			return fmt.Errorf("oracle generation failed: %w", err)
		}
		result = text
		return nil
	}

	if err := o.retry(ctx, operation); err != nil {
		return "", err
	}
	return result, nil
}

func (o *LLMOracle) retry(ctx context.Context, operation backoff.Operation) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), oracleMaxRetries),
		ctx,
	)
	return backoff.Retry(operation, policy)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
