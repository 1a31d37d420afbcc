package components

import (
	"charm.land/bubbles/v2/progress"

	"github.com/abhisek/langmentor/internal/ui/theme"
)

// ProgressBar renders fraction, clamped to [0, 1], as a static bar width
// cells wide in the active palette. It backs the EXP meter on the home
// card and the question counter in a session.
func ProgressBar(fraction float64, width int) string {
	bar := progress.New(
		progress.WithWidth(max(width, 4)),
		progress.WithoutPercentage(),
		progress.WithColors(theme.Secondary),
		progress.WithFillCharacters('█', '░'),
	)
	bar.EmptyColor = theme.Border
	return bar.ViewAs(min(max(fraction, 0), 1))
}
