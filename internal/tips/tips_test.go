package tips

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langmentor/internal/llm"
	"github.com/abhisek/langmentor/internal/progress"
)

var today = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func learner(language string) progress.UserProgress {
	return progress.WithLanguage(progress.New("marco", ""), language)
}

func TestTip_NoLanguage(t *testing.T) {
	s := NewService(llm.NewMockProvider(), DefaultConfig())
	_, err := s.Tip(context.Background(), progress.New("marco", ""), today)
	assert.ErrorIs(t, err, ErrNoLanguage)
}

func TestTip_GeneratesOncePerDay(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"tip":"  Use \"magari\" to express wishes.  "}`),
	})
	s := NewService(mock, DefaultConfig())
	p := learner("Italian")

	res, err := s.Tip(context.Background(), p, today)
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, res.Source)
	assert.Equal(t, `Use "magari" to express wishes.`, res.Text)
	require.Equal(t, 1, mock.CallCount())
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Language: Italian")
	assert.Equal(t, TipSchema, mock.Calls[0].Schema)

	p = progress.WithTip(p, res.Text, today)
	again, err := s.Tip(context.Background(), p, today.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, SourceCache, again.Source)
	assert.Equal(t, res.Text, again.Text)
	assert.Equal(t, 1, mock.CallCount(), "cached tip must not call the provider")
}

func TestTip_NewDayRegenerates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"tip":"fresh"}`)})
	s := NewService(mock, DefaultConfig())
	p := progress.WithTip(learner("French"), "stale", today.AddDate(0, 0, -1))

	res, err := s.Tip(context.Background(), p, today)
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.Text)
}

func TestTip_FallsBackToStatic(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
	}{
		{"provider error", llm.NewMockProvider(llm.MockResponse{Err: errors.New("offline")})},
		{"empty tip", llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"tip":"   "}`)})},
		{"bad json", llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`[1,2]`)})},
		{"no provider", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.provider, DefaultConfig())
			res, err := s.Tip(context.Background(), learner("Spanish"), today)
			require.NoError(t, err)
			assert.Equal(t, SourceStatic, res.Source)
			assert.Equal(t, StaticTip("Spanish", today), res.Text)
		})
	}
}

func TestStaticTip_RotatesDaily(t *testing.T) {
	first := StaticTip("japanese", today)
	assert.Equal(t, first, StaticTip("Japanese", today.Add(5*time.Hour)))
	assert.NotEqual(t, first, StaticTip("japanese", today.AddDate(0, 0, 1)))

	for lang := range staticTips {
		assert.NotEmpty(t, StaticTip(lang, today))
	}
	assert.True(t, strings.Contains(strings.Join(genericTips, "|"), StaticTip("klingon", today)))
}
