// Package quiz runs a quiz or level test on screen.
package quiz

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langmentor/internal/mentor"
	"github.com/abhisek/langmentor/internal/question"
	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screen"
	"github.com/abhisek/langmentor/internal/session"
	"github.com/abhisek/langmentor/internal/ui/components"
	"github.com/abhisek/langmentor/internal/ui/layout"
	"github.com/abhisek/langmentor/internal/ui/theme"
)

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseFeedback
	phaseResult
	phaseError
)

// QuizScreen fetches a batch, plays it through the controller and shows
// the outcome.
type QuizScreen struct {
	ctrl    *mentor.Controller
	kind    session.Kind
	spinner spinner.Model

	phase      phase
	fetchID    int
	source     question.Source
	mc         components.MultiChoice
	last       session.AnswerOutcome
	outcome    mentor.Outcome
	confirming bool
	errMsg     string

	loadingSince time.Time
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// New creates a QuizScreen for kind.
func New(ctrl *mentor.Controller, kind session.Kind) *QuizScreen {
	return &QuizScreen{
		ctrl: ctrl,
		kind: kind,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	req, err := s.ctrl.QuestionRequest(s.kind)
	if err != nil {
		s.fail(err)
		return nil
	}
	s.phase = phaseLoading
	s.loadingSince = time.Now()
	s.fetchID++
	return tea.Batch(s.spinner.Tick, s.fetch(s.fetchID, req))
}

// fetch runs off the UI goroutine and touches no controller state.
func (s *QuizScreen) fetch(id int, req question.Request) tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		batch, err := ctrl.Fetch(context.Background(), req)
		return batchReadyMsg{id: id, batch: batch, err: err}
	}
}

func (s *QuizScreen) Title() string {
	if s.kind == session.KindLevelTest {
		return "Level Test"
	}
	return "Quiz"
}

func (s *QuizScreen) HandlesEscape() bool {
	return s.phase == phaseQuestion || s.phase == phaseFeedback
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.phase {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "1-9", Description: "Answer"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseFeedback:
		if s.answeredAll() {
			return []layout.KeyHint{
				{Key: "Enter", Description: "See results"},
			}
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseResult, phaseError:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Back to home"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case batchReadyMsg:
		return s, s.handleBatch(msg)

	case spinner.TickMsg:
		if s.phase != phaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleBatch(msg batchReadyMsg) tea.Cmd {
	if msg.id != s.fetchID || s.phase != phaseLoading {
		return nil
	}
	if msg.err != nil {
		s.fail(msg.err)
		return nil
	}

	if _, err := s.ctrl.Begin(context.Background(), s.kind, msg.batch); err != nil {
		s.fail(err)
		return nil
	}
	s.source = msg.batch.Source
	s.showCurrent()
	return nil
}

func (s *QuizScreen) showCurrent() {
	sess := s.ctrl.Session()
	if sess == nil {
		s.fail(mentor.ErrNoSession)
		return
	}
	q, err := sess.Current()
	if err != nil {
		s.fail(err)
		return
	}
	s.mc = components.NewMultiChoice(q.Prompt, q.Options)
	s.phase = phaseQuestion
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if s.confirming {
		switch key {
		case "y", "Y":
			s.confirming = false
			s.ctrl.Cancel()
			return router.Pop()
		case "n", "N", "esc":
			s.confirming = false
		}
		return nil
	}

	switch s.phase {
	case phaseQuestion:
		if key == "esc" {
			s.confirming = true
			return nil
		}
		var cmd tea.Cmd
		s.mc, cmd = s.mc.Update(msg)
		if s.mc.Submitted {
			s.answer()
		}
		return cmd

	case phaseFeedback:
		switch key {
		case "esc":
			// Leaving after the last answer still scores the session.
			if s.answeredAll() {
				return s.advance()
			}
			s.confirming = true
			return nil
		case "enter", "space":
			return s.advance()
		}

	case phaseResult, phaseError:
		if key == "enter" || key == "esc" {
			return router.Pop()
		}
	}
	return nil
}

func (s *QuizScreen) answer() {
	out, err := s.ctrl.Answer(context.Background(), s.mc.ChosenIndex)
	if err != nil {
		s.fail(err)
		return
	}
	s.last = out
	s.mc.Reveal(out.CorrectIndex)
	s.phase = phaseFeedback
}

func (s *QuizScreen) answeredAll() bool {
	sess := s.ctrl.Session()
	return sess == nil || sess.Phase() == session.PhaseCompleted
}

func (s *QuizScreen) advance() tea.Cmd {
	if !s.answeredAll() {
		s.showCurrent()
		return nil
	}

	outcome, err := s.ctrl.Finish(context.Background())
	if err != nil {
		s.fail(err)
		return nil
	}
	s.outcome = outcome
	s.phase = phaseResult
	return nil
}

func (s *QuizScreen) fail(err error) {
	s.phase = phaseError
	switch {
	case errors.Is(err, mentor.ErrNoLanguage):
		s.errMsg = "Choose a language before starting."
	case errors.Is(err, session.ErrInsufficientQuestions):
		s.errMsg = "No questions are available right now. Please try again later."
	default:
		s.errMsg = err.Error()
	}
}

// slowLoading is how long the loading text stays neutral before hinting
// that generation is slow.
const slowLoading = 5 * time.Second
