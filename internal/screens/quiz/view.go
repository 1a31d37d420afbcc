package quiz

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/question"
	"github.com/abhisek/langmentor/internal/session"
	"github.com/abhisek/langmentor/internal/ui/components"
	"github.com/abhisek/langmentor/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	var body string
	switch s.phase {
	case phaseLoading:
		body = s.renderLoading()
	case phaseQuestion, phaseFeedback:
		body = s.renderQuestion(width)
	case phaseResult:
		body = s.renderResult()
	case phaseError:
		body = lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg) + "\n\n" +
			theme.Hint.Render("Press Enter to go back")
	}

	if s.confirming {
		body += "\n\n" + theme.Card.BorderForeground(theme.Accent).Render(
			"Leave now? This session will not be scored.  (y/n)")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *QuizScreen) renderLoading() string {
	text := "Preparing your questions..."
	if s.kind == session.KindLevelTest {
		text = "Preparing your level test..."
	}
	out := s.spinner.View() + " " + lipgloss.NewStyle().Foreground(theme.Text).Render(text)
	if !s.loadingSince.IsZero() && time.Since(s.loadingSince) > slowLoading {
		out += "\n\n" + theme.Hint.Render("This is taking a while. The offline question bank will step in if needed.")
	}
	return out
}

func (s *QuizScreen) renderQuestion(width int) string {
	sess := s.ctrl.Session()
	var b strings.Builder

	if sess != nil {
		answered := sess.Index()
		_, total := sess.Position()
		n := answered + 1
		if s.phase == phaseFeedback {
			n = answered
		}
		info := fmt.Sprintf("%s  ·  Question %d/%d  ·  ✓ %d", s.Title(), n, total, sess.Correct())
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(info))
		b.WriteString("\n")
		b.WriteString(components.ProgressBar(float64(answered)/float64(total), min(50, width-8)))
		b.WriteString("\n\n")
	}

	b.WriteString(s.mc.View())

	if s.phase == phaseFeedback {
		b.WriteString("\n")
		if s.last.Correct {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			answer := ""
			if s.last.CorrectIndex >= 0 && s.last.CorrectIndex < len(s.mc.Options) {
				answer = s.mc.Options[s.last.CorrectIndex]
			}
			b.WriteString(theme.Incorrect.Render("Not quite. The answer is " +
				components.OptionLabel(s.last.CorrectIndex) + ") " + answer))
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press Enter to continue"))
	} else if len(s.mc.Options) > 0 {
		n := min(9, len(s.mc.Options))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Press 1-%d or A-%s, or use arrows + Enter", n, components.OptionLabel(n-1))))
	}

	if s.source == question.SourceFallback {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Offline questions"))
	}
	return b.String()
}

func (s *QuizScreen) renderResult() string {
	o := s.outcome
	var b strings.Builder

	b.WriteString(theme.Title.Render(s.Title() + " complete"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("You scored %d/%d", o.Score, o.Total)))
	b.WriteString("\n")

	switch o.Kind {
	case session.KindLevelTest:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).
			Render("Assessed level: " + o.Classified.String()))
	default:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).
			Render(fmt.Sprintf("+%d EXP", o.ExpGained)))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Performance: " + o.Classified.String()))
	}

	if o.LeveledUp {
		b.WriteString("\n\n")
		b.WriteString(theme.Correct.Render("★ Level up! You are now " + progress.DisplayLevel(o.Progress).String() + " ★"))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Press Enter to go back"))
	return theme.Card.Render(b.String())
}
