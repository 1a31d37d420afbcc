// Package analysis sends a free-writing sample for a level estimate.
package analysis

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langmentor/internal/mentor"
	"github.com/abhisek/langmentor/internal/proficiency"
	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screen"
	"github.com/abhisek/langmentor/internal/ui/layout"
	"github.com/abhisek/langmentor/internal/ui/theme"
)

type phase int

const (
	phaseEditing phase = iota
	phaseAnalyzing
	phaseResult
)

type analysisDoneMsg struct {
	id       int
	analysis proficiency.Analysis
	err      error
}

// AnalysisScreen collects a writing sample and shows the estimate.
type AnalysisScreen struct {
	ctrl    *mentor.Controller
	editor  textarea.Model
	spinner spinner.Model

	phase    phase
	runID    int
	analysis proficiency.Analysis
	errMsg   string
}

var _ screen.Screen = (*AnalysisScreen)(nil)
var _ screen.KeyHintProvider = (*AnalysisScreen)(nil)

// New creates an AnalysisScreen.
func New(ctrl *mentor.Controller) *AnalysisScreen {
	ed := textarea.New()
	ed.Placeholder = "Write a few sentences in the language you are learning..."
	ed.ShowLineNumbers = false
	ed.CharLimit = 2000
	ed.SetWidth(60)
	ed.SetHeight(8)

	return &AnalysisScreen{
		ctrl:   ctrl,
		editor: ed,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

func (s *AnalysisScreen) Init() tea.Cmd {
	return s.editor.Focus()
}

func (s *AnalysisScreen) Title() string {
	return "Writing Analysis"
}

func (s *AnalysisScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseEditing:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Analyze"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseResult:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Back to home"},
			{Key: "R", Description: "Write again"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *AnalysisScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisDoneMsg:
		s.handleDone(msg)
		return s, nil

	case spinner.TickMsg:
		if s.phase != phaseAnalyzing {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch s.phase {
		case phaseEditing:
			if msg.String() == "ctrl+s" {
				return s, s.submit()
			}
		case phaseResult:
			switch msg.String() {
			case "enter":
				return s, router.Pop()
			case "r", "R":
				s.phase = phaseEditing
				s.errMsg = ""
				s.editor.Reset()
				return s, s.editor.Focus()
			}
			return s, nil
		default:
			return s, nil
		}
	}

	if s.phase != phaseEditing {
		return s, nil
	}
	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return s, cmd
}

func (s *AnalysisScreen) submit() tea.Cmd {
	text := s.editor.Value()
	if strings.TrimSpace(text) == "" {
		s.errMsg = "Write something first."
		return nil
	}
	p, ok := s.ctrl.User()
	if !ok {
		s.errMsg = mentor.ErrNotLoggedIn.Error()
		return nil
	}

	s.errMsg = ""
	s.phase = phaseAnalyzing
	s.editor.Blur()
	s.runID++
	id, ctrl := s.runID, s.ctrl
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		a, err := ctrl.EstimateLevel(context.Background(), p, text)
		return analysisDoneMsg{id: id, analysis: a, err: err}
	})
}

func (s *AnalysisScreen) handleDone(msg analysisDoneMsg) {
	if msg.id != s.runID || s.phase != phaseAnalyzing {
		return
	}
	if msg.err != nil {
		s.phase = phaseEditing
		s.editor.Focus()
		switch {
		case errors.Is(msg.err, proficiency.ErrUnavailable):
			s.errMsg = "Writing analysis needs an LLM provider. Set LANGMENTOR_LLM_PROVIDER and an API key."
		case errors.Is(msg.err, proficiency.ErrEmptySample):
			s.errMsg = "Write something first."
		default:
			s.errMsg = "Analysis failed: " + msg.err.Error()
		}
		return
	}

	s.analysis = msg.analysis
	if _, err := s.ctrl.RecordAssessment(context.Background(), msg.analysis); err != nil {
		s.errMsg = "Could not save your level: " + err.Error()
	}
	s.phase = phaseResult
}

func (s *AnalysisScreen) View(width, height int) string {
	var b strings.Builder

	switch s.phase {
	case phaseEditing:
		lang := ""
		if p, ok := s.ctrl.User(); ok {
			lang = p.Language
		}
		b.WriteString(theme.Title.Render("Show us your " + lang))
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Write freely. We will estimate your level and suggest improvements."))
		b.WriteString("\n\n")
		b.WriteString(s.editor.View())

	case phaseAnalyzing:
		b.WriteString(s.spinner.View() + " " + lipgloss.NewStyle().Foreground(theme.Text).Render("Reading your text..."))

	case phaseResult:
		var card strings.Builder
		card.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
			Render("Estimated level: " + s.analysis.Estimated.String()))
		if p, ok := s.ctrl.User(); ok {
			card.WriteString("\n")
			card.WriteString(theme.Hint.Render("Your level is now " + progress.DisplayLevel(p).String()))
		}
		if s.analysis.Feedback != "" {
			card.WriteString("\n\n")
			card.WriteString(lipgloss.NewStyle().Foreground(theme.Text).
				Width(min(70, width-8)).Render(s.analysis.Feedback))
		}
		b.WriteString(theme.Card.Render(card.String()))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
