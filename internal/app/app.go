package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/mentor"
	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screen"
	"github.com/abhisek/langmentor/internal/screens/home"
	"github.com/abhisek/langmentor/internal/screens/language"
	"github.com/abhisek/langmentor/internal/screens/login"
	"github.com/abhisek/langmentor/internal/screens/welcome"
	"github.com/abhisek/langmentor/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctrl   *mentor.Controller
	router *router.Router
	width  int
	height int
}

// screens builds the navigation graph. Login and home refer to each
// other, so they are wired here through factories.
type screens struct {
	ctrl *mentor.Controller
}

func (s screens) login() screen.Screen {
	return login.New(s.ctrl, s.afterLogin)
}

func (s screens) afterLogin(res mentor.LoginResult) screen.Screen {
	if res.NeedsLanguage {
		return language.New(s.ctrl, s.home)
	}
	return s.home()
}

func (s screens) home() screen.Screen {
	return home.New(s.ctrl, s.login)
}

// newAppModel creates an AppModel starting at the welcome splash.
func newAppModel(ctrl *mentor.Controller) AppModel {
	s := screens{ctrl: ctrl}
	return AppModel{
		ctrl:   ctrl,
		router: router.New(welcome.New(s.login)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.ctrl.Cancel()
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) learner() *layout.Learner {
	p, ok := m.ctrl.User()
	if !ok {
		return nil
	}
	return &layout.Learner{
		Name:       p.Username,
		Language:   p.Language,
		Level:      progress.DisplayLevel(p).String(),
		Experience: p.Experience,
		Next:       level.NextThreshold(p.Experience),
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

var (
	rootHints   = []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "Enter", Description: "Select"}, {Key: "Ctrl+C", Description: "Quit"}}
	nestedHints = []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "Enter", Description: "Select"}, {Key: "Esc", Description: "Back"}}
)

// render draws the full frame, or nothing before the first size message.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if !layout.Fits(m.width, m.height) {
		return layout.TooSmall(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	hints := rootHints
	switch hp, ok := active.(screen.KeyHintProvider); {
	case ok:
		hints = hp.KeyHints()
	case m.router.Depth() > 1:
		hints = nestedHints
	}

	return layout.Frame(
		layout.Header(title, m.learner(), m.width),
		layout.Footer(hints, m.width),
		m.width, m.height,
		m.router.View,
	)
}

// Run starts the Bubble Tea program.
func Run(ctrl *mentor.Controller) error {
	if _, err := tea.NewProgram(newAppModel(ctrl)).Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
