package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// openaiBackend speaks the chat completions API. OpenRouter and other
// compatible gateways reuse it with their own base URL.
type openaiBackend struct {
	client *openai.Client
	id     string
	name   string
}

// NewOpenAI returns a Provider for the OpenAI API, or any compatible API
// when cfg.BaseURL is set.
func NewOpenAI(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return newOpenAICompatible("openai", cfg.APIKey, cfg.BaseURL, resolveModel(cfg.Model, openaiModels)), nil
}

// NewOpenRouter returns a Provider for OpenRouter. Model names are
// OpenRouter's own and pass through unchanged.
func NewOpenRouter(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return newOpenAICompatible("openrouter", cfg.APIKey, baseURL, cfg.Model), nil
}

func newOpenAICompatible(name, key, baseURL, model string) *vendorProvider {
	oc := openai.DefaultConfig(key)
	if baseURL != "" {
		oc.BaseURL = baseURL
	}
	return &vendorProvider{b: &openaiBackend{client: openai.NewClientWithConfig(oc), id: model, name: name}}
}

func (o *openaiBackend) vendor() string { return o.name }
func (o *openaiBackend) model() string  { return o.id }

func (o *openaiBackend) complete(ctx context.Context, req Request) (completion, error) {
	chat := openai.ChatCompletionRequest{
		Model:               o.id,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return completion{}, fmt.Errorf("marshal schema: %w", err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return completion{}, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return completion{}, &ErrInvalidResponse{Err: errors.New("no choices in chat completion")}
	}

	choice := resp.Choices[0]
	c := completion{
		text:  choice.Message.Content,
		model: resp.Model,
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		stop: StopEnd,
	}
	if choice.FinishReason == openai.FinishReasonLength {
		c.stop = StopMaxTokens
	}
	return c, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(reqErr.HTTPStatusCode, nil, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
