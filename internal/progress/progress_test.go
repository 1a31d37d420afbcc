package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langmentor/internal/level"
)

func TestNew(t *testing.T) {
	p := New("Marco", "marco@example.com")
	assert.Equal(t, 0, p.Experience)
	assert.Equal(t, level.Beginner, p.Level)
	assert.Equal(t, ThemeLight, p.Theme)
	assert.Empty(t, p.Language)
	assert.Nil(t, p.AssessedLevel)
}

func TestAddExperience(t *testing.T) {
	p := New("u", "")

	got, err := AddExperience(p, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Experience)
	assert.Equal(t, level.Intermediate, got.Level)

	// Input is untouched.
	assert.Equal(t, 0, p.Experience)
	assert.Equal(t, level.Beginner, p.Level)
}

func TestAddExperience_QuizReward(t *testing.T) {
	got, err := AddExperience(New("u", ""), 3*10)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Experience)
	assert.Equal(t, level.Beginner, got.Level)
}

func TestAddExperience_Negative(t *testing.T) {
	p := New("u", "")
	got, err := AddExperience(p, -1)
	assert.ErrorIs(t, err, ErrNegativeAmount)
	assert.Equal(t, p, got)
}

func TestAddExperience_Zero(t *testing.T) {
	p, err := AddExperience(New("u", ""), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Experience)
}

func TestAddExperience_Accumulates(t *testing.T) {
	p := New("u", "")
	var err error
	for i := 0; i < 30; i++ {
		p, err = AddExperience(p, 100)
		require.NoError(t, err)
	}
	assert.Equal(t, 3000, p.Experience)
	assert.Equal(t, level.Master, p.Level)
}

func TestReconcileAssessedLevel(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p, err := AddExperience(New("u", ""), 150)
	require.NoError(t, err)

	got := ReconcileAssessedLevel(p, level.Advanced, at)
	require.NotNil(t, got.AssessedLevel)
	assert.Equal(t, level.Advanced, *got.AssessedLevel)
	assert.Equal(t, at, got.AssessedAt)

	// Experience-derived level is not overwritten.
	assert.Equal(t, level.Intermediate, got.Level)
	assert.Equal(t, 150, got.Experience)
	assert.Nil(t, p.AssessedLevel)
}

func TestDisplayLevel(t *testing.T) {
	p := New("u", "")
	assert.Equal(t, level.Beginner, DisplayLevel(p))

	p = ReconcileAssessedLevel(p, level.PreAdvanced, time.Now())
	assert.Equal(t, level.PreAdvanced, DisplayLevel(p))

	p, err := AddExperience(p, 1500)
	require.NoError(t, err)
	assert.Equal(t, level.Proficient, DisplayLevel(p))

	// A lower assessment does not drag the display below experience.
	p = ReconcileAssessedLevel(p, level.Beginner, time.Now())
	assert.Equal(t, level.Proficient, DisplayLevel(p))
}

func TestLeveledUp(t *testing.T) {
	before := New("u", "")
	after, err := AddExperience(before, 99)
	require.NoError(t, err)
	assert.False(t, LeveledUp(before, after))

	after, err = AddExperience(after, 1)
	require.NoError(t, err)
	assert.True(t, LeveledUp(before, after))
}

func TestThemeToggle(t *testing.T) {
	p := New("u", "")
	p = ToggleTheme(p)
	assert.Equal(t, ThemeDark, p.Theme)
	p = ToggleTheme(p)
	assert.Equal(t, ThemeLight, p.Theme)

	assert.Equal(t, ThemeLight, WithTheme(p, "neon").Theme)
}

func TestTipCache(t *testing.T) {
	day := time.Date(2026, 5, 4, 8, 0, 0, 0, time.Local)
	p := WithTip(New("u", ""), "Use the subjunctive after 'penso che'.", day)
	assert.Equal(t, "2026-05-04", p.CachedTipDate)

	tip, ok := TipFor(p, day.Add(10*time.Hour))
	assert.True(t, ok)
	assert.Contains(t, tip, "subjunctive")

	_, ok = TipFor(p, day.AddDate(0, 0, 1))
	assert.False(t, ok)
}

func TestWithLanguage_DropsTipForOtherLanguage(t *testing.T) {
	day := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	p := WithTip(WithLanguage(New("marco", ""), "Italian"), "Usa il congiuntivo.", day)

	same := WithLanguage(p, "Italian")
	text, ok := TipFor(same, day)
	require.True(t, ok)
	assert.Equal(t, "Usa il congiuntivo.", text)

	switched := WithLanguage(p, "Spanish")
	_, ok = TipFor(switched, day)
	assert.False(t, ok)
	assert.Equal(t, "Spanish", switched.Language)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Marco":          "marco",
		"Anna Maria":     "anna_maria",
		`a\b/c*d?e:f"g`:  "a_b_c_d_e_f_g",
		"x<y>z|w":        "x_y_z_w",
		"":               "default_user",
		"Ünïcode":        "ünïcode",
		"../etc/passwd":  ".._etc_passwd",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	got, err := NormalizeLanguage(" spanish ")
	require.NoError(t, err)
	assert.Equal(t, "Spanish", got)

	_, err = NormalizeLanguage("Klingon")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}
