package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/langmentor/internal/store"
)

// LoggingProvider records every request in the event log with its
// rendered prompt and raw response, so `langmentor llm view` can replay
// what the model saw.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
}

func WithLogging(p Provider, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    providerName(l.inner),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		data.ResponseBody = rejectedContent(err)
	}

	slog.Debug("LLM request",
		"purpose", data.Purpose,
		"model", data.Model,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
		"success", data.Success)

	// Recorded even when the caller gave up; never fails the request.
	if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
		slog.Warn("failed to log LLM request event", "purpose", data.Purpose, "error", logErr)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// rejectedContent returns the output a model produced before it was
// rejected, if any.
func rejectedContent(err error) string {
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return string(inv.Content)
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return string(maxTok.Content)
	}
	return ""
}

// renderRequest formats req as tagged sections: system, one per message,
// then the schema.
func renderRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}

// providerName reports the vendor behind p for the event log.
func providerName(p Provider) string {
	if v, ok := p.(interface{ Vendor() string }); ok {
		return v.Vendor()
	}
	return "unknown"
}
