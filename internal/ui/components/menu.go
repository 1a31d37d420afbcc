package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langmentor/internal/ui/theme"
)

// MenuItem is one menu entry. Disabled entries are drawn dimmed and
// skipped by the cursor.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. Arrow keys or j/k move the cursor,
// Enter runs the selected action and digits 1-9 run the nth entry.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled entry.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(+1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// move steps the cursor to the next enabled entry in direction dir and
// leaves it in place when there is none.
func (m *Menu) move(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(+1)
	case "enter":
		return m, m.run(m.Selected)
	default:
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 9 {
			if n-1 < len(m.Items) && !m.Items[n-1].Disabled {
				m.Selected = n - 1
				return m, m.run(n - 1)
			}
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		line := "  " + item.Label
		style := theme.Unselected
		switch {
		case item.Disabled:
			style = theme.Hint
		case i == m.Selected:
			line = "▸ " + item.Label
			style = theme.Selected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
