// Package layout draws the frame around every screen: a header with the
// learner summary, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/langmentor/internal/ui/theme"
)

// Smallest terminal the frame is drawn in.
const (
	MinWidth  = 72
	MinHeight = 20
)

// KeyHint is one footer entry.
type KeyHint struct {
	Key         string
	Description string
}

// Learner is the header summary for the logged-in user.
type Learner struct {
	Name       string
	Language   string
	Level      string
	Experience int
	// Next is the experience of the next rank, or negative at the top.
	Next int
}

func (l Learner) summary() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	accent := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	who := l.Name
	if l.Language != "" {
		who += " · " + l.Language
	}
	exp := fmt.Sprintf("%d EXP", l.Experience)
	if l.Next > l.Experience {
		exp += dim.Render(fmt.Sprintf("/%d", l.Next))
	}
	return dim.Render(who) + "  " + accent.Render(l.Level) + "  " + exp
}

// Fits reports whether a width x height terminal can show the frame.
func Fits(width, height int) bool {
	return width >= MinWidth && height >= MinHeight
}

// TooSmall is drawn instead of the frame when the terminal does not fit.
func TooSmall(width, height int) string {
	msg := lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(
		fmt.Sprintf("Terminal too small\n\nneed %dx%d, have %dx%d", MinWidth, MinHeight, width, height))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

// Header renders the title bar. who is nil before login.
func Header(title string, who *Learner, width int) string {
	style := theme.Header.Width(width)
	inner := max(width-style.GetHorizontalFrameSize(), 0)

	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("LangMentor")
	right := ""
	if who != nil {
		right = who.summary()
	}
	middle := max(inner-lipgloss.Width(brand)-lipgloss.Width(right), 0)
	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(middle).
		Align(lipgloss.Center).
		Render(title)

	return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, brand, center, right))
}

// Footer renders key hints left to right.
func Footer(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(key.Render(h.Key) + " " + desc.Render(h.Description))
	}
	return theme.Footer.Width(width).Render(b.String())
}

// Frame stacks header, body and footer. The body is rendered for the
// height left between the two bars.
func Frame(header, footer string, width, height int, body func(width, height int) string) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Width(width).Height(h).MaxHeight(h).Render(body(width, h))
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}
