package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func anthropicServer(t *testing.T, handler http.HandlerFunc) Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropic(Config{APIKey: "test-key", Model: "claude-haiku", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewAnthropic: %v", err)
	}
	return p
}

func anthropicError(w http.ResponseWriter, status int, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"type":  "error",
		"error": map[string]any{"type": kind, "message": kind},
	})
}

func TestAnthropic_StructuredTip(t *testing.T) {
	var body map[string]any
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id": "msg_1", "type": "message", "role": "assistant",
			"content":     []map[string]any{{"type": "text", "text": `{"tip":"Ascolta la radio italiana."}`}},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 40, "output_tokens": 12},
		})
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a language mentor.",
		Messages:  []Message{{Role: RoleUser, Content: "Language: Italian"}},
		Schema:    tipSchema,
		MaxTokens: 200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"tip":"Ascolta la radio italiana."}` {
		t.Fatalf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 52 || resp.StopReason != StopEnd {
		t.Fatalf("unexpected usage/stop: %+v %q", resp.Usage, resp.StopReason)
	}
	if body["model"] != "claude-haiku-4-5-20251001" {
		t.Fatalf("request model = %v", body["model"])
	}
	if _, ok := body["output_config"]; !ok {
		t.Fatal("expected output_config for a schema request")
	}
}

func TestAnthropic_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   string
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, "rate_limit_error", func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl) && rl.RetryAfter == 7*time.Second
		}},
		{http.StatusUnauthorized, "authentication_error", func(err error) bool {
			var a *ErrAuth
			return errors.As(err, &a)
		}},
		{http.StatusInternalServerError, "api_error", func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			calls := 0
			p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Retry-After", "7")
				anthropicError(w, tt.status, tt.kind)
			})
			_, err := p.Generate(context.Background(), Request{
				Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 10,
			})
			if !tt.check(err) {
				t.Fatalf("unexpected error %T: %v", err, err)
			}
			if calls != 1 {
				t.Fatalf("SDK retried %d times; retries belong to WithRetry", calls-1)
			}
		})
	}
}

func TestAnthropic_RequiresKey(t *testing.T) {
	if _, err := NewAnthropic(Config{Model: "claude-haiku"}); err == nil {
		t.Fatal("expected error without API key")
	}
}
