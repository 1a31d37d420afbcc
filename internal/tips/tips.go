// Package tips produces one short study tip per learner per day.
package tips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/langmentor/internal/llm"
	"github.com/abhisek/langmentor/internal/progress"
)

// ErrNoLanguage is returned when the learner has not chosen a language.
var ErrNoLanguage = errors.New("no language selected")

// Source says where a tip came from.
type Source string

const (
	SourceCache     Source = "cache"
	SourceGenerated Source = "generated"
	SourceStatic    Source = "static"
)

// Result is a tip ready to show.
type Result struct {
	Text   string
	Source Source
}

// Config holds tip generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns defaults for tip generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.8,
		Timeout:     15 * time.Second,
	}
}

// TipSchema is the structured output requested from the provider.
var TipSchema = &llm.Schema{
	Name:        "daily-tip",
	Description: "One short, practical language learning tip",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tip": map[string]any{
				"type":        "string",
				"description": "A single actionable tip, at most two sentences",
			},
		},
		"required":             []any{"tip"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a friendly language mentor. Give the learner one short,
practical tip for today's study: a grammar point, a common mistake, a useful
phrase, or a study habit. Match the tip to the learner's level. Write the tip
in English, quoting target-language examples where useful.`

// Service returns the tip of the day, generating it at most once per day.
// A nil provider always serves static tips.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a tip service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Tip returns the tip for today. A tip already cached on p for today is
// returned without a provider call. Generation failures fall back to the
// static list for the language. The caller persists the result with
// progress.WithTip.
func (s *Service) Tip(ctx context.Context, p progress.UserProgress, today time.Time) (Result, error) {
	if p.Language == "" {
		return Result{}, ErrNoLanguage
	}
	if text, ok := progress.TipFor(p, today); ok {
		return Result{Text: text, Source: SourceCache}, nil
	}

	if s.provider != nil {
		text, err := s.generate(ctx, p)
		if err == nil {
			return Result{Text: text, Source: SourceGenerated}, nil
		}
		slog.Warn("tip generation failed, using static tip",
			"language", p.Language, "error", err)
	}
	return Result{Text: StaticTip(p.Language, today), Source: SourceStatic}, nil
}

type tipOutput struct {
	Tip string `json:"tip"`
}

func (s *Service) generate(ctx context.Context, p progress.UserProgress) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTip)
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	userMsg := fmt.Sprintf("Language: %s\nLearner level: %s\n",
		p.Language, progress.DisplayLevel(p))

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      TipSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("tip generation: %w", err)
	}

	var out tipOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse tip response: %w", err)
	}
	text := strings.TrimSpace(out.Tip)
	if text == "" {
		return "", errors.New("empty tip")
	}
	return text, nil
}
