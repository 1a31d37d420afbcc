package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReplaysScriptInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"tip":"uno"}`), Usage: Usage{InputTokens: 8, OutputTokens: 3}},
		MockResponse{Content: json.RawMessage(`{"tip":"due"}`), Model: "gemini-2.0-flash-001", Stop: StopMaxTokens},
	)
	ctx := context.Background()

	first, err := mock.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "a"}}})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if string(first.Content) != `{"tip":"uno"}` || first.Usage.InputTokens != 8 {
		t.Fatalf("first reply = %s %+v", first.Content, first.Usage)
	}
	if first.Model != "mock" || first.StopReason != StopEnd {
		t.Fatalf("defaults = %q %q, want mock/end", first.Model, first.StopReason)
	}

	second, err := mock.Generate(ctx, Request{})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.Model != "gemini-2.0-flash-001" || second.StopReason != StopMaxTokens {
		t.Fatalf("scripted fields lost: %q %q", second.Model, second.StopReason)
	}

	if mock.CallCount() != 2 || mock.Pending() != 0 {
		t.Fatalf("calls=%d pending=%d", mock.CallCount(), mock.Pending())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("recorded system = %q", mock.Calls[0].System)
	}
}

func TestMockProvider_Exhausted(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("exhausted call not recorded")
	}
}

func TestMockProvider_ScriptedError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrAuth{Err: errors.New("bad key")}})
	_, err := mock.Generate(context.Background(), Request{})
	var auth *ErrAuth
	if !errors.As(err, &auth) {
		t.Fatalf("expected ErrAuth, got %T", err)
	}
}

func TestMockProvider_ChecksSchema(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"hint":"wrong field"}`)},
	)
	_, err := mock.Generate(context.Background(), Request{Schema: tipSchema})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if string(invalid.Content) != `{"hint":"wrong field"}` {
		t.Fatalf("content not kept: %s", invalid.Content)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("default purpose = %q", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, PurposeTip)); p != "tip" {
		t.Fatalf("purpose = %q, want tip", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "")); p != "unknown" {
		t.Fatalf("blank purpose = %q, want unknown", p)
	}
}
