package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. A zero Model reports "mock".
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
	Stop    StopReason
	Err     error
}

// MockProvider replays scripted replies in order and keeps every request
// it was given in Calls. Content is checked against the request schema the
// same way vendor replies are, so tests see ErrInvalidResponse for
// malformed scripts.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	Calls  []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.script) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	next := m.script[0]
	m.script = m.script[1:]
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	if err := validateResponse(req.Schema, next.Content); err != nil {
		return nil, err
	}

	resp := &Response{Content: next.Content, Usage: next.Usage, Model: next.Model, StopReason: next.Stop}
	if resp.Model == "" {
		resp.Model = "mock"
	}
	if resp.StopReason == "" {
		resp.StopReason = StopEnd
	}
	return resp, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Vendor() string { return "mock" }

// CallCount reports how many requests were received.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Pending reports how many scripted replies are left.
func (m *MockProvider) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}
