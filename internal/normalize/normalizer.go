// Package normalize converts top mapping candidates into canonical
// TechnicalCompetency records with merged responsibility traces and
// recomputed quality metadata.
package normalize

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/scoring"
	"github.com/jonathan/competency-mapper/internal/types"
)

// Content floors enforced during normalization.
const (
	minIndicators      = 3
	maxIndicators      = 7
	minDefinitionWords = 50
	maxNameLength      = 80
)

// Normalizer builds canonical competency records from mapping output.
type Normalizer struct {
	oracle     scoring.Oracle
	thresholds config.Thresholds
}

// NewNormalizer creates a normalizer. The oracle is optional: without one,
// why-it-matters statements fall back to deterministic template prose.
func NewNormalizer(oracle scoring.Oracle, thresholds config.Thresholds) *Normalizer {
	return &Normalizer{oracle: oracle, thresholds: thresholds}
}

// BuildCompetencies produces one TechnicalCompetency per competency that is
// the top candidate of at least one responsibility. Traces from all
// responsibilities that picked the same competency are merged; competencies
// left with zero traces are dropped. Output order follows first appearance
// as a top candidate, which later stages rely on for pair ordering.
func (n *Normalizer) BuildCompetencies(ctx context.Context, job *types.Job, mapping *types.MappingResult, library *types.CompetencyLibrary) (*types.NormalizedSet, error) {
	if mapping.JobID != job.JobID {
		return nil, fmt.Errorf("mapping belongs to job %q, not %q", mapping.JobID, job.JobID)
	}

	var order []string
	traces := make(map[string][]types.ResponsibilityTrace)

	for _, m := range mapping.Mappings {
		top, ok := m.Top()
		if !ok {
			continue
		}
		if _, exists := traces[top.CompetencyID]; !exists {
			order = append(order, top.CompetencyID)
		}

		contribution := types.ContributionSecondary
		if top.RelevanceScore >= n.thresholds.PrimaryRelevance {
			contribution = types.ContributionPrimary
		}
		traces[top.CompetencyID] = append(traces[top.CompetencyID], types.ResponsibilityTrace{
			ResponsibilityID: m.ResponsibilityID,
			Contribution:     contribution,
			RelevanceScore:   top.RelevanceScore,
		})
	}

	set := &types.NormalizedSet{JobID: job.JobID}
	for _, id := range order {
		entry, ok := library.EntryByID(id)
		if !ok {
			return nil, fmt.Errorf("mapped competency %q not found in library", id)
		}
		if len(traces[id]) == 0 {
			continue
		}

		competency, err := n.buildOne(ctx, job, entry, traces[id])
		if err != nil {
			return nil, err
		}
		set.Competencies = append(set.Competencies, competency)
	}

	return set, nil
}

// buildOne assembles a single canonical record, padding content to the
// minimum floors and recomputing quality metadata.
func (n *Normalizer) buildOne(ctx context.Context, job *types.Job, entry types.CompetencyLibraryEntry, traces []types.ResponsibilityTrace) (types.TechnicalCompetency, error) {
	for _, t := range traces {
		if _, ok := job.ResponsibilityByID(t.ResponsibilityID); !ok {
			return types.TechnicalCompetency{}, fmt.Errorf("trace references unknown responsibility %q", t.ResponsibilityID)
		}
	}

	// Truncation counts runes so a multi-byte name is never cut mid-rune.
	name := entry.Name
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}

	definition, definitionPadded := padDefinition(entry.Definition, entry.Name)
	indicators, indicatorsPadded := padIndicators(entry.Indicators, entry.Name)

	competency := types.TechnicalCompetency{
		CompetencyID:         entry.CompetencyID,
		Name:                 name,
		Definition:           definition,
		WhyItMatters:         n.whyItMatters(ctx, job, entry, traces),
		BehavioralIndicators: indicators,
		AppliedScope:         entry.Tags,
		Traces:               traces,
		Quality: types.QualityMetadata{
			DefinitionWordCount: WordCount(definition),
			IndicatorCount:      len(indicators),
			DefinitionPadded:    definitionPadded,
			IndicatorsPadded:    indicatorsPadded,
		},
	}

	return competency, nil
}

// whyItMatters asks the oracle for a statement, falling back to template
// prose built from the traced responsibilities.
func (n *Normalizer) whyItMatters(ctx context.Context, job *types.Job, entry types.CompetencyLibraryEntry, traces []types.ResponsibilityTrace) string {
	var lines []string
	for _, t := range traces {
		if resp, ok := job.ResponsibilityByID(t.ResponsibilityID); ok {
			lines = append(lines, "- "+resp.RawText)
		}
	}

	if n.oracle != nil {
		text, err := n.oracle.WhyItMatters(ctx, job.Title, entry.Name, entry.Definition, strings.Join(lines, "\n"))
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}

	return fmt.Sprintf("%s underpins %d of this role's responsibilities; without it the %s cannot deliver them at the expected standard.",
		entry.Name, len(traces), job.Title)
}

// padDefinition appends a generic justification clause until the word-count
// floor is met.
func padDefinition(definition, name string) (string, bool) {
	definition = strings.TrimSpace(definition)
	if WordCount(definition) >= minDefinitionWords {
		return definition, false
	}

	clause := fmt.Sprintf(" In practice, %s covers the day-to-day application of these methods, the selection of appropriate tools and standards for the task at hand, and the judgment to recognize when established approaches need to be adapted to the constraints of the current work.", name)
	for WordCount(definition) < minDefinitionWords {
		definition += clause
	}
	return strings.TrimSpace(definition), true
}

// padIndicators appends generic applied-usage statements until the indicator
// floor is met, and trims overly long lists to the ceiling.
func padIndicators(indicators []string, name string) ([]string, bool) {
	out := make([]string, 0, minIndicators)
	out = append(out, indicators...)
	if len(out) > maxIndicators {
		out = out[:maxIndicators]
	}

	generic := []string{
		fmt.Sprintf("Applies %s techniques to routine work with minimal guidance", name),
		fmt.Sprintf("Explains %s decisions and trade-offs to colleagues", name),
		fmt.Sprintf("Identifies when %s practices need to be adapted to the situation", name),
	}

	padded := false
	for i := 0; len(out) < minIndicators; i++ {
		out = append(out, generic[i%len(generic)])
		padded = true
	}
	return out, padded
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
