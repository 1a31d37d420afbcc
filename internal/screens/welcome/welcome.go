// Package welcome is the splash shown at startup. It greets the learner in
// each supported language and waits for a key press.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screen"
	"github.com/abhisek/langmentor/internal/ui/theme"
)

const frameDuration = 100 * time.Millisecond

// Frames at which parts of the splash appear, and how many frames each
// greeting stays up.
const (
	bannerFrame  = 5
	taglineFrame = 12
	greetingHold = 10
)

type greeting struct {
	text, language string
}

var greetings = []greeting{
	{"Ciao!", "Italian"},
	{"Bonjour !", "French"},
	{"¡Hola!", "Spanish"},
	{"こんにちは", "Japanese"},
}

type frameMsg struct{}

// WelcomeScreen hands over to the screen built by next on the first key.
type WelcomeScreen struct {
	next  func() screen.Screen
	frame int
	done  bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return nextFrame() }

func nextFrame() tea.Cmd {
	return tea.Tick(frameDuration, func(time.Time) tea.Msg { return frameMsg{} })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		if w.done {
			return w, nil
		}
		w.frame++
		return w, nextFrame()

	case tea.KeyPressMsg:
		if w.done {
			return w, nil
		}
		w.done = true
		return w, router.Replace(w.next())
	}
	return w, nil
}

func (w *WelcomeScreen) greeting() greeting {
	n := max(w.frame-taglineFrame, 0) / greetingHold
	return greetings[n%len(greetings)]
}

func (w *WelcomeScreen) View(width, height int) string {
	var lines []string
	if w.frame >= bannerFrame {
		lines = append(lines, banner(width))
	}
	if w.frame >= taglineFrame {
		g := w.greeting()
		lines = append(lines,
			"",
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(g.text)+
				theme.Hint.Render("  ("+g.language+")"),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Render("Your daily language companion"),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}
