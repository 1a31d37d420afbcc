// Package login asks for the learner's nickname and optional email.
package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langmentor/internal/mentor"
	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screen"
	"github.com/abhisek/langmentor/internal/ui/components"
	"github.com/abhisek/langmentor/internal/ui/layout"
	"github.com/abhisek/langmentor/internal/ui/theme"
)

// Next builds the screen shown after a successful login.
type Next func(res mentor.LoginResult) screen.Screen

// LoginScreen collects credentials and logs the learner in.
type LoginScreen struct {
	ctrl     *mentor.Controller
	next     Next
	nickname components.TextInput
	email    components.TextInput
	focus    int
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen.
func New(ctrl *mentor.Controller, next Next) *LoginScreen {
	s := &LoginScreen{
		ctrl:     ctrl,
		next:     next,
		nickname: components.NewTextInput("Nickname", "e.g. marco", 32),
		email:    components.NewTextInput("Email (optional)", "you@example.com", 64),
	}
	s.nickname.Focus()
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.nickname.Focus()
}

func (s *LoginScreen) Title() string {
	return "Login"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Enter", Description: "Log in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "shift+tab", "up", "down":
			return s, s.toggleFocus()
		case "enter":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.nickname, cmd = s.nickname.Update(msg)
	} else {
		s.email, cmd = s.email.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) toggleFocus() tea.Cmd {
	if s.focus == 0 {
		s.focus = 1
		s.nickname.Blur()
		return s.email.Focus()
	}
	s.focus = 0
	s.email.Blur()
	return s.nickname.Focus()
}

func (s *LoginScreen) submit() tea.Cmd {
	res, err := s.ctrl.Login(context.Background(), s.nickname.Value(), s.email.Value())
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	theme.Use(res.Progress.Theme)
	return router.Replace(s.next(res))
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Welcome to LangMentor"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Log in with a nickname to keep your progress"))
	b.WriteString("\n\n")
	b.WriteString(s.nickname.View())
	b.WriteString("\n\n")
	b.WriteString(s.email.View())

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	card := theme.Card.Width(min(56, width-4)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
