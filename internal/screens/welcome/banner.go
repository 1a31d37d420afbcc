package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langmentor/internal/ui/theme"
)

// Narrower terminals get the plain name instead of the boxed banner.
const boxedBannerWidth = 52

func banner(width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < boxedBannerWidth {
		return name.Render("LangMentor")
	}
	return name.
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 4).
		Render("L A N G   M E N T O R")
}
