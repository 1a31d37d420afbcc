// Package home is the main menu shown after login.
package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/mentor"
	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screen"
	"github.com/abhisek/langmentor/internal/screens/analysis"
	"github.com/abhisek/langmentor/internal/screens/language"
	"github.com/abhisek/langmentor/internal/screens/quiz"
	"github.com/abhisek/langmentor/internal/session"
	"github.com/abhisek/langmentor/internal/tips"
	"github.com/abhisek/langmentor/internal/ui/components"
	"github.com/abhisek/langmentor/internal/ui/theme"
)

type tipReadyMsg struct {
	day time.Time
	res tips.Result
	err error
}

// HomeScreen shows the learner's progress, today's tip and the main menu.
type HomeScreen struct {
	ctrl    *mentor.Controller
	login   func() screen.Screen
	now     func() time.Time
	menu    components.Menu
	spinner spinner.Model

	tip        tips.Result
	tipLoading bool
	errMsg     string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. login builds the screen shown after logout.
func New(ctrl *mentor.Controller, login func() screen.Screen) *HomeScreen {
	h := &HomeScreen{
		ctrl:  ctrl,
		login: login,
		now:   time.Now,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Daily Tip", Action: h.fetchTip},
		{Label: "Take a Quiz", Action: func() tea.Cmd {
			return router.Push(quiz.New(ctrl, session.KindQuiz))
		}},
		{Label: "Level Test", Action: func() tea.Cmd {
			return router.Push(quiz.New(ctrl, session.KindLevelTest))
		}},
		{Label: "Analyze My Writing", Action: func() tea.Cmd {
			return router.Push(analysis.New(ctrl))
		}},
		{Label: "Toggle Theme", Action: h.toggleTheme},
		{Label: "Change Language", Action: func() tea.Cmd {
			return router.Push(language.New(ctrl, nil))
		}},
		{Label: "Logout", Action: h.logout},
		{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

// Init shows a tip already cached for today without calling the provider.
func (h *HomeScreen) Init() tea.Cmd {
	h.loadCachedTip()
	return nil
}

func (h *HomeScreen) loadCachedTip() {
	h.tip = tips.Result{}
	if p, ok := h.ctrl.User(); ok {
		if text, ok := progress.TipFor(p, h.now()); ok {
			h.tip = tips.Result{Text: text, Source: tips.SourceCache}
		}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case router.ResumedMsg:
		// Back from a quiz or language change: the cached tip may be gone.
		if !h.tipLoading {
			h.loadCachedTip()
		}
		h.errMsg = ""
		return h, nil

	case tipReadyMsg:
		h.tipLoading = false
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		h.tip = msg.res
		if err := h.ctrl.RecordTip(context.Background(), msg.res, msg.day); err != nil {
			h.errMsg = err.Error()
		}
		return h, nil

	case spinner.TickMsg:
		if !h.tipLoading {
			return h, nil
		}
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return h, cmd
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) fetchTip() tea.Cmd {
	if h.tipLoading {
		return nil
	}
	p, ok := h.ctrl.User()
	if !ok {
		return nil
	}
	h.errMsg = ""
	h.tipLoading = true
	day, ctrl := h.now(), h.ctrl
	return tea.Batch(h.spinner.Tick, func() tea.Msg {
		res, err := ctrl.FetchTip(context.Background(), p, day)
		return tipReadyMsg{day: day, res: res, err: err}
	})
}

func (h *HomeScreen) toggleTheme() tea.Cmd {
	p, err := h.ctrl.ToggleTheme(context.Background())
	if err != nil {
		h.errMsg = err.Error()
		return nil
	}
	theme.Use(p.Theme)
	return nil
}

func (h *HomeScreen) logout() tea.Cmd {
	if err := h.ctrl.Logout(context.Background()); err != nil {
		h.errMsg = err.Error()
		return nil
	}
	theme.Use(theme.Light)
	return router.Reset(h.login())
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(64, width-4)

	sections := []string{h.renderUserCard(cw)}
	if tip := h.renderTip(cw); tip != "" {
		sections = append(sections, tip)
	}
	sections = append(sections, h.menu.View())
	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(h.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) renderUserCard(width int) string {
	p, ok := h.ctrl.User()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render("Ciao, " + p.Username + "!"))
	if p.Language != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ·  learning " + p.Language))
	}
	b.WriteString("\n\n")

	display := progress.DisplayLevel(p)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).
		Render(fmt.Sprintf("Level: %s   EXP: %d", display, p.Experience)))
	if p.AssessedLevel != nil && *p.AssessedLevel > p.Level {
		b.WriteString(theme.Hint.Render("  (assessed)"))
	}
	b.WriteString("\n")

	label := "Max level"
	if next := level.NextThreshold(p.Experience); next > 0 {
		label = fmt.Sprintf("%d EXP to %s", next-p.Experience, level.FromExperience(next))
	}
	bar := components.ProgressBar(level.Progress(p.Experience), max(10, width-len(label)-8))
	b.WriteString(bar + "  " + theme.Hint.Render(label))

	return theme.Card.Width(width).Render(b.String())
}

func (h *HomeScreen) renderTip(width int) string {
	if h.tipLoading {
		return h.spinner.View() + " " + theme.Hint.Render("Finding today's tip...")
	}
	if h.tip.Text == "" {
		return ""
	}
	title := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Tip of the day")
	text := lipgloss.NewStyle().Foreground(theme.Text).Width(width - 6).Render(h.tip.Text)
	return theme.Card.Width(width).BorderForeground(theme.Accent).Render(title + "\n" + text)
}
