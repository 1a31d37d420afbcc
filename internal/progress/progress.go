// Package progress holds the persistent per-user learning record and the
// pure functions that update it. Every update returns a new value; callers
// persist the result explicitly.
package progress

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/langmentor/internal/level"
)

// ErrNegativeAmount is returned by AddExperience for amount < 0.
var ErrNegativeAmount = errors.New("experience amount must be non-negative")

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// TipDateLayout is the ISO date format used for the tip cache.
const TipDateLayout = "2006-01-02"

// UserProgress is one learner's persistent record.
type UserProgress struct {
	Username string
	Email    string

	// Language is empty until the learner chooses one.
	Language string

	// Experience never decreases.
	Experience int

	// Level is derived from Experience and never set directly.
	Level level.Level

	// AssessedLevel is the outcome of the latest level test or writing
	// analysis. Nil until the learner has been assessed.
	AssessedLevel *level.Level
	AssessedAt    time.Time

	Theme string

	CachedTip     string
	CachedTipDate string
}

// New returns a fresh record for a first-time learner.
func New(username, email string) UserProgress {
	return UserProgress{
		Username: username,
		Email:    email,
		Level:    level.FromExperience(0),
		Theme:    ThemeLight,
	}
}

// AddExperience returns p with amount experience added and Level
// recomputed.
func AddExperience(p UserProgress, amount int) (UserProgress, error) {
	if amount < 0 {
		return p, fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	p.Experience += amount
	p.Level = level.FromExperience(p.Experience)
	return p, nil
}

// ReconcileAssessedLevel records an assessment outcome. The
// experience-derived Level is left untouched; DisplayLevel combines the
// two.
func ReconcileAssessedLevel(p UserProgress, assessed level.Level, at time.Time) UserProgress {
	a := assessed
	p.AssessedLevel = &a
	p.AssessedAt = at
	return p
}

// DisplayLevel is the level shown to the learner: the higher of the
// experience level and the latest assessment.
func DisplayLevel(p UserProgress) level.Level {
	if p.AssessedLevel == nil {
		return p.Level
	}
	return level.Max(p.Level, *p.AssessedLevel)
}

// LeveledUp reports whether the experience level rose between two
// versions of the same record.
func LeveledUp(before, after UserProgress) bool {
	return after.Level > before.Level
}

// WithLanguage returns p with the language set. Switching to a different
// language drops the cached tip, which was written for the old one.
func WithLanguage(p UserProgress, language string) UserProgress {
	if p.Language != language {
		p.CachedTip, p.CachedTipDate = "", ""
	}
	p.Language = language
	return p
}

// WithTheme returns p with the theme set. Unknown themes fall back to light.
func WithTheme(p UserProgress, theme string) UserProgress {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	p.Theme = theme
	return p
}

// ToggleTheme flips between light and dark.
func ToggleTheme(p UserProgress) UserProgress {
	if p.Theme == ThemeDark {
		return WithTheme(p, ThemeLight)
	}
	return WithTheme(p, ThemeDark)
}

// WithTip caches a tip for the given day.
func WithTip(p UserProgress, text string, day time.Time) UserProgress {
	p.CachedTip = text
	p.CachedTipDate = day.Format(TipDateLayout)
	return p
}

// TipFor returns the cached tip if it was generated on day.
func TipFor(p UserProgress, day time.Time) (string, bool) {
	if p.CachedTip == "" || p.CachedTipDate != day.Format(TipDateLayout) {
		return "", false
	}
	return p.CachedTip, true
}

// Slug converts a username into a filesystem-safe key: lowercased, with
// path separators, wildcard and quoting characters, and spaces replaced by
// underscores.
func Slug(username string) string {
	r := strings.NewReplacer(
		`\`, "_", "/", "_", "*", "_", "?", "_", ":", "_",
		`"`, "_", "<", "_", ">", "_", "|", "_", " ", "_",
	)
	s := r.Replace(strings.ToLower(username))
	if s == "" {
		return "default_user"
	}
	return s
}
