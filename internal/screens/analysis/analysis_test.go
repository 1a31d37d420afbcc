package analysis

import (
	"encoding/json"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/llm"
	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screens/screentest"
)

func typeText(s *AnalysisScreen, text string) {
	for _, m := range screentest.Type(text) {
		s.Update(m)
	}
}

// submit presses Ctrl+S and delivers the analysis result.
func submit(t *testing.T, s *AnalysisScreen) {
	t.Helper()
	_, cmd := s.Update(screentest.CtrlS)
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(analysisDoneMsg); ok {
			s.Update(msg)
		}
	}
}

func TestAnalysis_RecordsEstimate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"feedback":"Good use of the subjunctive.","estimated_level":"Advanced"}`),
	})
	ctrl := screentest.LoggedIn(t, mock, "marco", "Italian")
	s := New(ctrl)
	s.Init()

	typeText(s, "Vorrei che tu venissi.")
	assert.Equal(t, "Vorrei che tu venissi.", s.editor.Value())
	submit(t, s)

	require.Equal(t, phaseResult, s.phase)
	view := s.View(100, 30)
	assert.Contains(t, view, "Estimated level: Advanced")
	assert.Contains(t, view, "subjunctive")

	p, _ := ctrl.User()
	require.NotNil(t, p.AssessedLevel)
	assert.Equal(t, level.Advanced, *p.AssessedLevel)

	_, cmd := s.Update(screentest.Enter)
	_, ok := screentest.Msg(cmd).(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestAnalysis_EmptySample(t *testing.T) {
	ctrl := screentest.LoggedIn(t, nil, "marco", "Italian")
	s := New(ctrl)
	s.Init()

	_, cmd := s.Update(screentest.CtrlS)
	assert.Nil(t, cmd)
	assert.Equal(t, phaseEditing, s.phase)
	assert.Contains(t, s.View(100, 30), "Write something first")
}

func TestAnalysis_Unavailable(t *testing.T) {
	ctrl := screentest.LoggedIn(t, nil, "marco", "Italian")
	s := New(ctrl)
	s.Init()

	typeText(s, "Ciao")
	submit(t, s)

	assert.Equal(t, phaseEditing, s.phase)
	assert.Contains(t, s.View(100, 30), "needs an LLM provider")
	assert.Equal(t, "Ciao", s.editor.Value(), "text is kept for another try")
}

func TestAnalysis_StaleResultIgnored(t *testing.T) {
	ctrl := screentest.LoggedIn(t, nil, "marco", "Italian")
	s := New(ctrl)
	s.Update(analysisDoneMsg{id: 7})
	assert.Equal(t, phaseEditing, s.phase)
}

func TestAnalysis_WriteAgain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"feedback":"Ok.","estimated_level":"Beginner"}`),
	})
	ctrl := screentest.LoggedIn(t, mock, "marco", "Italian")
	s := New(ctrl)
	s.Init()
	typeText(s, "Io sono")
	submit(t, s)
	require.Equal(t, phaseResult, s.phase)

	s.Update(screentest.Rune('r'))
	assert.Equal(t, phaseEditing, s.phase)
	assert.Equal(t, "", s.editor.Value())
}
