package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/progress"
)

func newProfileStore(t *testing.T) *FileProfileStore {
	t.Helper()
	s, err := NewFileProfileStore(filepath.Join(t.TempDir(), "profiles"))
	require.NoError(t, err)
	return s
}

func TestProfile_LoadMissing(t *testing.T) {
	s := newProfileStore(t)
	p, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProfile_SaveLoad(t *testing.T) {
	s := newProfileStore(t)
	ctx := context.Background()
	at := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

	p := progress.New("Anna Maria", "anna@example.com")
	p = progress.WithLanguage(p, "French")
	p, err := progress.AddExperience(p, 520)
	require.NoError(t, err)
	p = progress.ReconcileAssessedLevel(p, level.Master, at)
	p = progress.ToggleTheme(p)
	p = progress.WithTip(p, "Practice liaisons.", at)

	require.NoError(t, s.Save(ctx, p))
	assert.FileExists(t, filepath.Join(s.dir, "anna_maria.json"))

	got, err := s.Load(ctx, "ANNA MARIA")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p, *got)
}

func TestProfile_OnDiskFormat(t *testing.T) {
	s := newProfileStore(t)
	p, err := progress.AddExperience(progress.New("luca", ""), 120)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), p))

	data, err := os.ReadFile(s.Path("luca"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"progress": 120`)
	assert.Contains(t, string(data), `"level": "Intermediate"`)
	assert.Contains(t, string(data), `"language": null`)
	assert.Contains(t, string(data), `"last_tip_date": ""`)
	assert.NotContains(t, string(data), "assessed_level")
}

func TestProfile_LevelRecomputedFromProgress(t *testing.T) {
	s := newProfileStore(t)
	writeRaw(t, s, "eva", `{"username":"eva","progress":1600,"level":"Beginner","theme":"dark"}`)

	got, err := s.Load(context.Background(), "eva")
	require.NoError(t, err)
	assert.Equal(t, level.Proficient, got.Level)
	assert.Nil(t, got.AssessedLevel)
	assert.Equal(t, progress.ThemeDark, got.Theme)
}

func TestProfile_LegacyAssessedLevelMigrated(t *testing.T) {
	s := newProfileStore(t)
	writeRaw(t, s, "old", `{"language":"Spanish","progress":30,"level":"Pre-Advanced","theme":"light",
		"last_tip_date":"2025-01-01","last_tip_text":"Hola","email":"old@example.com"}`)

	got, err := s.Load(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, "old", got.Username)
	assert.Equal(t, "Spanish", got.Language)
	assert.Equal(t, level.Beginner, got.Level)
	require.NotNil(t, got.AssessedLevel)
	assert.Equal(t, level.PreAdvanced, *got.AssessedLevel)
	assert.Equal(t, level.PreAdvanced, progress.DisplayLevel(*got))
	assert.Equal(t, "Hola", got.CachedTip)
}

func TestProfile_Corrupt(t *testing.T) {
	s := newProfileStore(t)
	writeRaw(t, s, "broken", `{"progress": 10,`)

	_, err := s.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrCorruptProfile)

	writeRaw(t, s, "negative", `{"progress": -5}`)
	_, err = s.Load(context.Background(), "negative")
	assert.ErrorIs(t, err, ErrCorruptProfile)
}

func TestProfile_SaveReplacesAtomically(t *testing.T) {
	s := newProfileStore(t)
	ctx := context.Background()

	p := progress.New("rita", "")
	require.NoError(t, s.Save(ctx, p))
	p, _ = progress.AddExperience(p, 40)
	require.NoError(t, s.Save(ctx, p))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")

	got, err := s.Load(ctx, "rita")
	require.NoError(t, err)
	assert.Equal(t, 40, got.Experience)
}

func TestWriteFileAtomic_FailureCleansUp(t *testing.T) {
	dir := t.TempDir()

	// Renaming onto a non-empty directory fails after the temp file was written.
	target := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("old"), 0o644))
	assert.Error(t, writeFileAtomic(target, []byte("new")))

	data, err := os.ReadFile(filepath.Join(target, "keep"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file cleaned up")
	assert.Equal(t, "sub", entries[0].Name())
}

func writeRaw(t *testing.T, s *FileProfileStore, user, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(s.Path(user), []byte(body), 0o644))
}
