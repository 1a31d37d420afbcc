package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langmentor/internal/ui/theme"
)

// MultiChoice asks one question. It never knows the answer: the caller
// scores ChosenIndex and passes the correct option to Reveal.
type MultiChoice struct {
	Question    string
	Options     []string
	Selected    int
	Submitted   bool
	ChosenIndex int

	// CorrectIndex is -1 until Reveal is called.
	CorrectIndex int
}

func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		ChosenIndex:  -1,
		CorrectIndex: -1,
	}
}

// shortcut maps a digit (1-9) or an option letter (a, b, ...) to an
// option index.
func (m MultiChoice) shortcut(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	i := -1
	switch c := key[0]; {
	case c >= '1' && c <= '9':
		i = int(c - '1')
	case c >= 'a' && c <= 'i':
		i = int(c - 'a')
	}
	return i, i >= 0 && i < len(m.Options)
}

func (m *MultiChoice) choose(i int) {
	m.Selected = i
	m.ChosenIndex = i
	m.Submitted = true
}

// Update moves the cursor and records a choice. Input after the choice is
// ignored.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || m.Submitted {
		return m, nil
	}

	switch s := key.String(); s {
	case "up", "k":
		m.Selected = max(m.Selected-1, 0)
	case "down", "j":
		m.Selected = min(m.Selected+1, len(m.Options)-1)
	case "enter":
		if len(m.Options) > 0 {
			m.choose(m.Selected)
		}
	default:
		if i, ok := m.shortcut(s); ok {
			m.choose(i)
		}
	}
	return m, nil
}

// Reveal records the correct option so View can mark it.
func (m *MultiChoice) Reveal(correct int) {
	m.CorrectIndex = correct
}

// OptionLabel is the letter shown before option i.
func OptionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

func (m MultiChoice) optionStyle(i int) (lipgloss.Style, string) {
	if !m.Submitted {
		if i == m.Selected {
			return theme.Selected, "▸ "
		}
		return theme.Unselected, "  "
	}
	switch i {
	case m.CorrectIndex:
		return theme.Correct, "✓ "
	case m.ChosenIndex:
		return theme.Incorrect, "✗ "
	}
	return theme.Hint, "  "
}

func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")
	for i, opt := range m.Options {
		style, mark := m.optionStyle(i)
		b.WriteString(style.Render(mark+OptionLabel(i)+")  "+opt) + "\n")
	}
	return b.String()
}
