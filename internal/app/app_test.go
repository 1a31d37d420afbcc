package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langmentor/internal/router"
	"github.com/abhisek/langmentor/internal/screens/quiz"
	"github.com/abhisek/langmentor/internal/screens/screentest"
	"github.com/abhisek/langmentor/internal/session"
)

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

// deliver runs cmd and feeds navigation messages back to the model.
func deliver(m AppModel, cmd tea.Cmd) AppModel {
	msg := screentest.Msg(cmd)
	switch msg.(type) {
	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.ResetScreenMsg:
		m, _ = update(m, msg)
	}
	return m
}

func TestApp_WelcomeThenLoginThenLanguage(t *testing.T) {
	ctrl := screentest.Controller(t, nil)
	m := newAppModel(ctrl)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, cmd := update(m, screentest.Rune(' '))
	m = deliver(m, cmd)
	require.Equal(t, "Login", m.router.Active().Title())

	for _, k := range screentest.Type("ada") {
		m, _ = update(m, k)
	}
	m, cmd = update(m, screentest.Enter)
	m = deliver(m, cmd)
	require.Equal(t, "Choose a Language", m.router.Active().Title())

	m, cmd = update(m, screentest.Enter)
	m = deliver(m, cmd)
	assert.Equal(t, "Home", m.router.Active().Title())
	assert.Equal(t, 1, m.router.Depth())

	content := m.render()
	assert.Contains(t, content, "ada")
	assert.Contains(t, content, "Beginner")
	assert.Contains(t, content, "0 EXP")
}

func TestApp_EscPopsUnlessScreenHandlesIt(t *testing.T) {
	ctrl := screentest.LoggedIn(t, nil, "ada", "Italian")
	s := screens{ctrl: ctrl}
	m := AppModel{ctrl: ctrl, router: router.New(s.home())}

	q := quiz.New(ctrl, session.KindQuiz)
	m, _ = update(m, router.PushScreenMsg{Screen: q})
	require.Equal(t, 2, m.router.Depth())

	// Still loading: Esc leaves.
	_, cmd := update(m, screentest.Esc)
	_, ok := screentest.Msg(cmd).(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestApp_TooSmall(t *testing.T) {
	m := newAppModel(screentest.Controller(t, nil))
	m, _ = update(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, m.render(), "Terminal too small")
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := newAppModel(screentest.Controller(t, nil))
	_, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	_, ok := screentest.Msg(cmd).(tea.QuitMsg)
	assert.True(t, ok)
}
