package llm

import (
	"bytes"
	"context"
	"encoding/json"
)

// backend is the vendor-specific half of a provider: one raw completion.
type backend interface {
	vendor() string
	model() string
	complete(ctx context.Context, req Request) (completion, error)
}

type completion struct {
	text  string
	usage Usage
	model string
	stop  StopReason
}

// vendorProvider adapts a backend to Provider. Structured output is
// unwrapped from any code fence and validated here so every vendor
// behaves the same.
type vendorProvider struct {
	b backend
}

func (p *vendorProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	c, err := p.b.complete(ctx, req)
	if err != nil {
		return nil, err
	}

	content := json.RawMessage(c.text)
	if req.Schema != nil {
		content = stripCodeFence(content)
		if err := validateResponse(req.Schema, content); err != nil {
			if c.stop == StopMaxTokens {
				return nil, &ErrMaxTokensExceeded{Content: content}
			}
			return nil, err
		}
	}

	model := c.model
	if model == "" {
		model = p.b.model()
	}
	if c.usage.TotalTokens == 0 {
		c.usage.TotalTokens = c.usage.InputTokens + c.usage.OutputTokens
	}
	return &Response{Content: content, Usage: c.usage, Model: model, StopReason: c.stop}, nil
}

func (p *vendorProvider) ModelID() string { return p.b.model() }

// Vendor names the service behind the provider for the event log.
func (p *vendorProvider) Vendor() string { return p.b.vendor() }

// stripCodeFence removes a ```json ... ``` wrapper some models put around
// JSON even when asked not to.
func stripCodeFence(raw []byte) []byte {
	s := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(s, []byte("```")) {
		return s
	}
	s = s[3:]
	if nl := bytes.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = bytes.TrimSuffix(bytes.TrimSpace(s), []byte("```"))
	return bytes.TrimSpace(s)
}

// resolveModel expands a friendly alias; unknown names pass through as
// vendor model IDs.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
