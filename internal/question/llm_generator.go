package question

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/langmentor/internal/llm"
)

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// NewLLMGenerator creates a new LLMGenerator.
func NewLLMGenerator(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// batchOutput is the raw LLM response before validation.
type batchOutput struct {
	Questions []RawQuestion `json:"questions"`
}

// Generate asks the provider for a batch. The result is not validated.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) ([]RawQuestion, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return out.Questions, nil
}
