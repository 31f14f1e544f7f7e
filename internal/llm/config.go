// Package llm wraps the generative model behind the scoring oracle and the
// prose generation used for definitions, rationale, and benchmarking
// narrative.
package llm

// ModelTier selects a model by the weight of the call.
type ModelTier string

const (
	// TierLite handles high-volume scoring calls: similarity and relevance
	// judgments on short text pairs.
	TierLite ModelTier = "lite"
	// TierStandard handles short structured prose: why-it-matters statements
	// and revision clauses.
	TierStandard ModelTier = "standard"
	// TierAdvanced handles long-form output: the benchmarking narrative.
	TierAdvanced ModelTier = "advanced"
)

// Config maps tiers to concrete model names.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the standard Gemini tier assignment.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel resolves the model name for a tier, falling back to the standard
// then lite tier when the requested one is unassigned.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	return c.Models[TierLite]
}
