package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

type anthropicBackend struct {
	client anthropic.Client
	id     string
}

// NewAnthropic returns a Provider backed by the Anthropic Messages API.
// Extra options are passed to the SDK client.
func NewAnthropic(cfg Config, opts ...option.RequestOption) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	// Retries are handled by WithRetry.
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}, opts...)
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &vendorProvider{b: &anthropicBackend{
		client: anthropic.NewClient(opts...),
		id:     resolveModel(cfg.Model, anthropicModels),
	}}, nil
}

func (a *anthropicBackend) vendor() string { return "anthropic" }
func (a *anthropicBackend) model() string  { return a.id }

func (a *anthropicBackend) complete(ctx context.Context, req Request) (completion, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.id),
		MaxTokens: int64(req.MaxTokens),
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			var h http.Header
			if apiErr.Response != nil {
				h = apiErr.Response.Header
			}
			return completion{}, statusError(apiErr.StatusCode, h, err)
		}
		return completion{}, &ErrProviderUnavailable{Err: err}
	}

	c := completion{
		model: string(msg.Model),
		usage: Usage{InputTokens: int(msg.Usage.InputTokens), OutputTokens: int(msg.Usage.OutputTokens)},
		stop:  StopEnd,
	}
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		c.stop = StopMaxTokens
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			c.text = block.Text
			return c, nil
		}
	}
	return completion{}, &ErrInvalidResponse{Err: errors.New("no text block in Anthropic response")}
}
