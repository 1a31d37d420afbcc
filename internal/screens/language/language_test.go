package language

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screen"
	"github.com/abhisek/langmentor/internal/screens/screentest"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "home" }
func (s *stubScreen) Title() string                          { return "Home" }

func TestLanguage_FirstRunReplacesWithNext(t *testing.T) {
	ctrl := screentest.LoggedIn(t, nil, "marco", "")
	s := New(ctrl, func() screen.Screen { return &stubScreen{} })

	s.Update(screentest.Down)
	_, cmd := s.Update(screentest.Enter)

	msg, ok := screentest.Msg(cmd).(router.ReplaceScreenMsg)
	require.True(t, ok, "expected ReplaceScreenMsg")
	assert.Equal(t, "Home", msg.Screen.Title())

	p, _ := ctrl.User()
	assert.Equal(t, "French", p.Language)
}

func TestLanguage_ChangePops(t *testing.T) {
	ctrl := screentest.LoggedIn(t, nil, "marco", "Spanish")
	s := New(ctrl, nil)

	assert.Equal(t, 2, s.menu.Selected, "current language is preselected")
	assert.Contains(t, s.View(80, 24), "▸ Spanish")

	s.Update(screentest.Down)
	_, cmd := s.Update(screentest.Enter)
	_, ok := screentest.Msg(cmd).(router.PopScreenMsg)
	require.True(t, ok, "expected PopScreenMsg")

	p, _ := ctrl.User()
	assert.Equal(t, "Japanese", p.Language)
}

func TestLanguage_NotLoggedIn(t *testing.T) {
	s := New(screentest.Controller(t, nil), nil)
	_, cmd := s.Update(screentest.Enter)
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(80, 24), "not logged in")
}
