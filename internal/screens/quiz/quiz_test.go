package quiz

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langmentor/internal/mentor"
	"github.com/abhisek/langmentor/internal/question"
	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screens/screentest"
	"github.com/abhisek/langmentor/internal/session"
	"github.com/abhisek/langmentor/internal/ui/layout"
)

// load runs Init and delivers the fetched batch, skipping spinner ticks.
func load(t *testing.T, s *QuizScreen) {
	t.Helper()
	cmd := s.Init()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "expected a batch of spinner and fetch")
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(batchReadyMsg); ok {
			s.Update(msg)
		}
	}
}

func newQuiz(t *testing.T, kind session.Kind) (*QuizScreen, *mentor.Controller) {
	t.Helper()
	ctrl := screentest.LoggedIn(t, nil, "marco", "Italian")
	s := New(ctrl, kind)
	load(t, s)
	require.Equal(t, phaseQuestion, s.phase)
	return s, ctrl
}

// answer presses the number key for the correct or a wrong option.
func answer(t *testing.T, s *QuizScreen, ctrl *mentor.Controller, correct bool) {
	t.Helper()
	sess := ctrl.Session()
	require.NotNil(t, sess)
	q, ok := sess.Question(sess.Index())
	require.True(t, ok)
	pick := q.CorrectIndex
	if !correct {
		pick = (q.CorrectIndex + 1) % len(q.Options)
	}
	s.Update(screentest.Rune(rune('1' + pick)))
	require.Equal(t, phaseFeedback, s.phase)
}

func TestQuiz_FullRunAwardsExperience(t *testing.T) {
	s, ctrl := newQuiz(t, session.KindQuiz)
	assert.Equal(t, question.SourceFallback, s.source)
	assert.Contains(t, s.View(100, 30), "Question 1/5")

	for i := 0; i < 5; i++ {
		answer(t, s, ctrl, i < 3)
		if i < 3 {
			assert.Contains(t, s.View(100, 30), "Correct!")
		} else {
			assert.Contains(t, s.View(100, 30), "Not quite")
		}
		s.Update(screentest.Enter)
	}

	require.Equal(t, phaseResult, s.phase)
	assert.Equal(t, 3, s.outcome.Score)
	assert.Equal(t, 30, s.outcome.ExpGained)
	view := s.View(100, 30)
	assert.Contains(t, view, "You scored 3/5")
	assert.Contains(t, view, "+30 EXP")

	p, _ := ctrl.User()
	assert.Equal(t, 30, p.Experience)
	assert.Nil(t, ctrl.Session())

	_, cmd := s.Update(screentest.Enter)
	_, ok := screentest.Msg(cmd).(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestQuiz_LevelTestShowsAssessedLevel(t *testing.T) {
	s, ctrl := newQuiz(t, session.KindLevelTest)
	assert.Equal(t, "Level Test", s.Title())

	for i := 0; i < session.LevelTestSize; i++ {
		answer(t, s, ctrl, true)
		s.Update(screentest.Enter)
	}

	require.Equal(t, phaseResult, s.phase)
	assert.Contains(t, s.View(100, 30), "Assessed level: Master")
	assert.True(t, s.outcome.LeveledUp)

	p, _ := ctrl.User()
	assert.Equal(t, 0, p.Experience)
}

func TestQuiz_EscapeAsksBeforeLeaving(t *testing.T) {
	s, ctrl := newQuiz(t, session.KindQuiz)
	assert.True(t, s.HandlesEscape())

	s.Update(screentest.Esc)
	assert.True(t, s.confirming)
	assert.Contains(t, s.View(100, 30), "will not be scored")

	s.Update(screentest.Rune('n'))
	assert.False(t, s.confirming)
	require.NotNil(t, ctrl.Session())

	// Number keys are ignored while the dialog is open.
	s.Update(screentest.Esc)
	s.Update(screentest.Rune('1'))
	assert.Equal(t, phaseQuestion, s.phase)

	_, cmd := s.Update(screentest.Rune('y'))
	_, ok := screentest.Msg(cmd).(router.PopScreenMsg)
	assert.True(t, ok)
	assert.Nil(t, ctrl.Session())

	p, _ := ctrl.User()
	assert.Equal(t, 0, p.Experience)
}

func TestQuiz_EscapeAfterLastAnswerScores(t *testing.T) {
	s, ctrl := newQuiz(t, session.KindQuiz)
	for i := 0; i < 5; i++ {
		answer(t, s, ctrl, true)
		if i < 4 {
			s.Update(screentest.Enter)
		}
	}
	require.Equal(t, phaseFeedback, s.phase)
	assert.NotContains(t, s.KeyHints(), layout.KeyHint{Key: "Esc", Description: "Quit"})

	s.Update(screentest.Esc)
	assert.False(t, s.confirming)
	require.Equal(t, phaseResult, s.phase)
	assert.Equal(t, 50, s.outcome.ExpGained)

	s.Update(screentest.Rune('y'))
	p, _ := ctrl.User()
	assert.Equal(t, 50, p.Experience)
	assert.Nil(t, ctrl.Session())
}

func TestQuiz_StaleBatchIgnored(t *testing.T) {
	ctrl := screentest.LoggedIn(t, nil, "marco", "French")
	s := New(ctrl, session.KindQuiz)
	s.Init()
	require.Equal(t, phaseLoading, s.phase)
	assert.False(t, s.HandlesEscape())
	assert.Contains(t, s.View(100, 30), "Preparing your questions")

	s.Update(batchReadyMsg{id: s.fetchID + 1, batch: question.Batch{}})
	assert.Equal(t, phaseLoading, s.phase)
	assert.Nil(t, ctrl.Session())
}

func TestQuiz_NoLanguage(t *testing.T) {
	ctrl := screentest.LoggedIn(t, nil, "marco", "")
	s := New(ctrl, session.KindQuiz)

	assert.Nil(t, s.Init())
	assert.Equal(t, phaseError, s.phase)
	assert.Contains(t, s.View(100, 30), "Choose a language")

	_, cmd := s.Update(screentest.Enter)
	_, ok := screentest.Msg(cmd).(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestQuiz_EmptyBatchShowsError(t *testing.T) {
	ctrl := screentest.LoggedIn(t, nil, "marco", "Spanish")
	s := New(ctrl, session.KindQuiz)
	s.Init()

	s.Update(batchReadyMsg{id: s.fetchID, batch: question.Batch{Source: question.SourceFallback}})
	assert.Equal(t, phaseError, s.phase)
	assert.Contains(t, s.View(100, 30), "No questions are available")
}
