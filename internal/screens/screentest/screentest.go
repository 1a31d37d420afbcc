// Package screentest builds controllers and key events for screen tests.
package screentest

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langmentor/internal/llm"
	"github.com/abhisek/langmentor/internal/mentor"
	"github.com/abhisek/langmentor/internal/proficiency"
	"github.com/abhisek/langmentor/internal/question"
	"github.com/abhisek/langmentor/internal/store"
	"github.com/abhisek/langmentor/internal/tips"
)

// Controller returns a controller backed by a temporary profile
// directory and the embedded question bank. A nil provider keeps every
// collaborator offline.
func Controller(t *testing.T, provider llm.Provider) *mentor.Controller {
	t.Helper()
	profiles, err := store.NewFileProfileStore(filepath.Join(t.TempDir(), "profiles"))
	if err != nil {
		t.Fatalf("profile store: %v", err)
	}

	var gen question.Generator
	if provider != nil {
		gen = question.NewLLMGenerator(provider, question.DefaultConfig())
	}
	return mentor.New(mentor.Deps{
		Profiles: profiles,
		Supplier: question.NewSupplier(gen, question.MustLoadBank(), question.DefaultConfig()),
		Tips:     tips.NewService(provider, tips.DefaultConfig()),
		Analyzer: proficiency.NewAnalyzer(provider, proficiency.DefaultConfig()),
	}, mentor.DefaultConfig())
}

// LoggedIn returns a controller with user logged in and language chosen.
// An empty language leaves the learner at language selection.
func LoggedIn(t *testing.T, provider llm.Provider, user, language string) *mentor.Controller {
	t.Helper()
	c := Controller(t, provider)
	if _, err := c.Login(context.Background(), user, ""); err != nil {
		t.Fatalf("login: %v", err)
	}
	if language != "" {
		if _, err := c.SelectLanguage(context.Background(), language); err != nil {
			t.Fatalf("select language: %v", err)
		}
	}
	return c
}

var (
	Enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	Tab   = tea.KeyPressMsg{Code: tea.KeyTab}
	Esc   = tea.KeyPressMsg{Code: tea.KeyEscape}
	Down  = tea.KeyPressMsg{Code: tea.KeyDown}
	Up    = tea.KeyPressMsg{Code: tea.KeyUp}
	CtrlS = tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
)

// Rune is a printable key press.
func Rune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Type returns one key press per rune of s.
func Type(s string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range s {
		msgs = append(msgs, Rune(r))
	}
	return msgs
}

// Msg runs cmd and returns its message, or nil for a nil command.
func Msg(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
