package question

import "github.com/abhisek/langmentor/internal/llm"

// BatchSchema defines the JSON schema for LLM question batch responses.
var BatchSchema = &llm.Schema{
	Name:        "language-quiz",
	Description: "A batch of multiple-choice language practice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    2,
							"description": "Between 3 and 4 distinct answer options",
						},
						"correct": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Zero-based index of the correct option",
						},
					},
					"required":             []any{"prompt", "options", "correct"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
