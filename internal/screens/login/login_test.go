package login

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langmentor/internal/mentor"
	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screen"
	"github.com/abhisek/langmentor/internal/screens/screentest"
	"github.com/abhisek/langmentor/internal/ui/theme"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return s.title }
func (s *stubScreen) Title() string                          { return s.title }

func newLogin(t *testing.T) (*LoginScreen, *mentor.Controller, *mentor.LoginResult) {
	t.Helper()
	ctrl := screentest.Controller(t, nil)
	var got mentor.LoginResult
	s := New(ctrl, func(res mentor.LoginResult) screen.Screen {
		got = res
		if res.NeedsLanguage {
			return &stubScreen{title: "language"}
		}
		return &stubScreen{title: "home"}
	})
	return s, ctrl, &got
}

func typeInto(s *LoginScreen, text string) {
	for _, m := range screentest.Type(text) {
		s.Update(m)
	}
}

func TestLogin_FirstTimeGoesToLanguage(t *testing.T) {
	s, ctrl, got := newLogin(t)

	typeInto(s, "giulia")
	s.Update(screentest.Tab)
	typeInto(s, "giulia@example.com")
	_, cmd := s.Update(screentest.Enter)

	msg, ok := screentest.Msg(cmd).(router.ReplaceScreenMsg)
	require.True(t, ok, "expected ReplaceScreenMsg")
	assert.Equal(t, "language", msg.Screen.Title())
	assert.True(t, got.NeedsLanguage)

	p, ok := ctrl.User()
	require.True(t, ok)
	assert.Equal(t, "giulia", p.Username)
	assert.Equal(t, "giulia@example.com", p.Email)
}

func TestLogin_EmptyNicknameShowsError(t *testing.T) {
	s, ctrl, _ := newLogin(t)

	_, cmd := s.Update(screentest.Enter)
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(80, 24), "nickname is required")

	_, ok := ctrl.User()
	assert.False(t, ok)
}

func TestLogin_InvalidEmail(t *testing.T) {
	s, _, _ := newLogin(t)

	typeInto(s, "luca")
	s.Update(screentest.Tab)
	typeInto(s, "not-an-email")
	_, cmd := s.Update(screentest.Enter)

	assert.Nil(t, cmd)
	assert.Contains(t, s.View(80, 24), "invalid email")
}

func TestLogin_TabSwitchesField(t *testing.T) {
	s, _, _ := newLogin(t)
	assert.True(t, s.nickname.Focused())

	s.Update(screentest.Tab)
	assert.False(t, s.nickname.Focused())
	assert.True(t, s.email.Focused())

	typeInto(s, "x")
	assert.Equal(t, "", s.nickname.Value())
	assert.Equal(t, "x", s.email.Value())

	s.Update(screentest.Tab)
	assert.True(t, s.nickname.Focused())
}

func TestLogin_AppliesSavedTheme(t *testing.T) {
	s, ctrl, _ := newLogin(t)
	t.Cleanup(func() { theme.Use(theme.Light) })

	typeInto(s, "dora")
	s.Update(screentest.Enter)
	_, err := ctrl.ToggleTheme(t.Context())
	require.NoError(t, err)
	theme.Use(theme.Light)

	s2, _, _ := newLogin(t)
	s2.ctrl = ctrl
	typeInto(s2, "dora")
	_, cmd := s2.Update(screentest.Enter)
	require.NotNil(t, cmd)
	assert.Equal(t, theme.Dark, theme.Current())
}
