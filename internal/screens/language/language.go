// Package language lets the learner pick the language to study.
package language

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langmentor/internal/mentor"
	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screen"
	"github.com/abhisek/langmentor/internal/ui/components"
	"github.com/abhisek/langmentor/internal/ui/theme"
)

// LanguageScreen shows the supported languages as a menu.
type LanguageScreen struct {
	ctrl   *mentor.Controller
	then   func() screen.Screen
	menu   components.Menu
	errMsg string
}

var _ screen.Screen = (*LanguageScreen)(nil)

// New creates a LanguageScreen. After a choice the screen is replaced by
// then(), or popped when then is nil.
func New(ctrl *mentor.Controller, then func() screen.Screen) *LanguageScreen {
	s := &LanguageScreen{ctrl: ctrl, then: then}

	current := ""
	if p, ok := ctrl.User(); ok {
		current = p.Language
	}

	items := make([]components.MenuItem, 0, len(progress.SupportedLanguages))
	selected := 0
	for i, lang := range progress.SupportedLanguages {
		if lang == current {
			selected = i
		}
		items = append(items, components.MenuItem{
			Label:  lang,
			Action: func() tea.Cmd { return s.choose(lang) },
		})
	}
	s.menu = components.NewMenu(items)
	s.menu.Selected = selected
	return s
}

func (s *LanguageScreen) Init() tea.Cmd {
	return nil
}

func (s *LanguageScreen) Title() string {
	return "Choose a Language"
}

func (s *LanguageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *LanguageScreen) choose(lang string) tea.Cmd {
	if _, err := s.ctrl.SelectLanguage(context.Background(), lang); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if s.then != nil {
		return router.Replace(s.then())
	}
	return router.Pop()
}

func (s *LanguageScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Which language are you learning?"))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
