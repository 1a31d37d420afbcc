package welcome

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screen"
)

type loginStub struct{}

func (s *loginStub) Init() tea.Cmd                          { return nil }
func (s *loginStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *loginStub) View(int, int) string                   { return "login" }
func (s *loginStub) Title() string                          { return "Login" }

func newSplash() (*WelcomeScreen, *int) {
	built := 0
	return New(func() screen.Screen {
		built++
		return &loginStub{}
	}), &built
}

func advance(w *WelcomeScreen, frames int) {
	for range frames {
		w.Update(frameMsg{})
	}
}

func TestSplash_RevealsInStages(t *testing.T) {
	w, _ := newSplash()
	assert.NotContains(t, w.View(80, 24), "L A N G")

	advance(w, bannerFrame)
	view := w.View(80, 24)
	assert.Contains(t, view, "L A N G   M E N T O R")
	assert.NotContains(t, view, "daily language companion")

	advance(w, taglineFrame-bannerFrame)
	view = w.View(80, 24)
	assert.Contains(t, view, "daily language companion")
	assert.Contains(t, view, "Ciao!")
	assert.Contains(t, view, "(Italian)")

	assert.Contains(t, w.View(40, 24), "LangMentor")
}

func TestSplash_CyclesGreetings(t *testing.T) {
	w, _ := newSplash()
	advance(w, taglineFrame)

	var seen []string
	for range len(greetings) + 1 {
		seen = append(seen, w.greeting().language)
		advance(w, greetingHold)
	}
	assert.Equal(t, []string{"Italian", "French", "Spanish", "Japanese", "Italian"}, seen)
}

func TestSplash_KeyHandsOverOnce(t *testing.T) {
	w, built := newSplash()
	advance(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Login", msg.Screen.Title())

	_, cmd = w.Update(tea.KeyPressMsg{Code: 'x'})
	assert.Nil(t, cmd)
	_, cmd = w.Update(frameMsg{})
	assert.Nil(t, cmd, "animation stops after hand-over")
	assert.Equal(t, 1, *built)
}

func TestSplash_WaitsForKey(t *testing.T) {
	w, built := newSplash()
	advance(w, 100)
	assert.Equal(t, 0, *built)
	assert.Empty(t, w.Title())
}
