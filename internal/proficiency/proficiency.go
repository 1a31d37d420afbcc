// Package proficiency estimates a learner's level from a free-text writing
// sample.
package proficiency

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/llm"
)

var (
	// ErrEmptySample is returned when the writing sample is blank.
	ErrEmptySample = errors.New("empty writing sample")

	// ErrUnavailable is returned when no provider is configured.
	ErrUnavailable = errors.New("proficiency analysis unavailable")
)

// Analysis is the result of analyzing one sample.
type Analysis struct {
	Feedback  string
	Estimated level.Level
}

// Config holds analysis settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns defaults for analysis.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   768,
		Temperature: 0.2,
		Timeout:     30 * time.Second,
	}
}

// AnalysisSchema is the structured output requested from the provider.
var AnalysisSchema = &llm.Schema{
	Name:        "proficiency-analysis",
	Description: "Feedback on a writing sample and an estimated proficiency level",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"description": "Corrections and encouragement in 3-6 sentences",
			},
			"estimated_level": map[string]any{
				"type": "string",
				"enum": levelNames(),
			},
		},
		"required":             []any{"feedback", "estimated_level"},
		"additionalProperties": false,
	},
}

func levelNames() []any {
	names := make([]any, len(level.All))
	for i, l := range level.All {
		names[i] = l.String()
	}
	return names
}

const systemPrompt = `You are an experienced language examiner. Read the learner's
writing sample, point out the most important mistakes with corrections, and
estimate their overall proficiency level. Be encouraging and concrete.`

// Analyzer sends writing samples to a provider.
type Analyzer struct {
	provider llm.Provider
	cfg      Config
}

// NewAnalyzer creates an Analyzer. A nil provider makes every call fail
// with ErrUnavailable.
func NewAnalyzer(provider llm.Provider, cfg Config) *Analyzer {
	return &Analyzer{provider: provider, cfg: cfg}
}

type analysisOutput struct {
	Feedback       string `json:"feedback"`
	EstimatedLevel string `json:"estimated_level"`
}

// Analyze estimates the level shown by text. When the provider's level is
// missing or unrecognized, the feedback text is scanned for a level name,
// and current is used if none is found.
func (a *Analyzer) Analyze(ctx context.Context, text string, current level.Level, language string) (Analysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Analysis{}, ErrEmptySample
	}
	if a.provider == nil {
		return Analysis{}, ErrUnavailable
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeProficiency)
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	userMsg := fmt.Sprintf("Language: %s\nCurrent level: %s\n\nWriting sample:\n%s\n",
		language, current, text)

	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      AnalysisSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	var content json.RawMessage
	var invalid *llm.ErrInvalidResponse
	switch {
	case err == nil:
		content = resp.Content
	case errors.As(err, &invalid) && len(bytes.TrimSpace(invalid.Content)) > 0:
		// Off-schema replies still carry usable feedback.
		content = invalid.Content
	default:
		return Analysis{}, fmt.Errorf("proficiency analysis: %w", err)
	}

	var out analysisOutput
	if err := json.Unmarshal(content, &out); err != nil {
		var raw string
		if json.Unmarshal(content, &raw) != nil {
			raw = string(content)
		}
		return Analysis{Feedback: raw, Estimated: ExtractLevel(raw, current)}, nil
	}

	estimated, err := level.Parse(out.EstimatedLevel)
	if err != nil {
		estimated = ExtractLevel(out.Feedback, current)
	}
	return Analysis{Feedback: out.Feedback, Estimated: estimated}, nil
}

// extractOrder lists level names so that a name containing another is
// tried first.
var extractOrder = []struct {
	name  string
	level level.Level
}{
	{"pre intermediate", level.PreIntermediate},
	{"pre advanced", level.PreAdvanced},
	{"beginner", level.Beginner},
	{"intermediate", level.Intermediate},
	{"advanced", level.Advanced},
	{"proficient", level.Proficient},
	{"master", level.Master},
}

// ExtractLevel returns the first level named in text, or fallback.
func ExtractLevel(text string, fallback level.Level) level.Level {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(text))
	norm = strings.Join(strings.Fields(norm), " ")
	for _, e := range extractOrder {
		if strings.Contains(norm, e.name) {
			return e.level
		}
	}
	return fallback
}
