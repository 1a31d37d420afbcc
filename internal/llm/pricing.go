package llm

import (
	"regexp"
	"sort"
	"strings"
)

// ModelCost holds per-million-token pricing for a model.
// Prices are in USD per 1 million tokens, sourced from models.dev.
type ModelCost struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// versionSuffix matches the snapshot tags vendors append to served model
// names: -2024-07-18, -20250514, -001.
var versionSuffix = regexp.MustCompile(`-(\d{4}-\d{2}-\d{2}|\d{8}|\d{3})$`)

// LookupCost returns the pricing for a model ID, or nil if unknown. Served
// names are matched after dropping an OpenRouter "vendor/" prefix and a
// snapshot suffix.
func LookupCost(modelID string) *ModelCost {
	candidates := []string{modelID}
	if _, name, ok := strings.Cut(modelID, "/"); ok {
		candidates = append(candidates, name)
	}
	for _, id := range candidates {
		for _, key := range []string{id, versionSuffix.ReplaceAllString(id, "")} {
			if c, ok := modelCosts[key]; ok {
				return &c
			}
		}
	}
	return nil
}

// modelCosts covers the models the default configurations resolve to and
// their close siblings. Prices from models.dev, 2026-02.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-haiku-4-5":           {1, 5},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},

	// OpenAI
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},

	// Google (Gemini)
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
	"gemini-flash-latest":   {0.3, 2.5},
}

// EstimateCost sums the cost of token usage per model. Models without a
// known price are skipped and reported in unpriced.
func EstimateCost(usage map[string][2]int) (total float64, unpriced []string) {
	for model, tok := range usage {
		c := LookupCost(model)
		if c == nil {
			unpriced = append(unpriced, model)
			continue
		}
		total += c.Cost(tok[0], tok[1])
	}
	sort.Strings(unpriced)
	return total, unpriced
}
