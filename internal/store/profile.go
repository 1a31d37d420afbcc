package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/progress"
)

// ErrCorruptProfile is returned when a profile file exists but cannot be
// decoded.
var ErrCorruptProfile = errors.New("corrupt profile")

// profileVersion is written to every record.
const profileVersion = 2

// ProfileStore loads and saves learner records.
type ProfileStore interface {
	// Load returns the record for username, or nil if none exists.
	Load(ctx context.Context, username string) (*progress.UserProgress, error)

	// Save writes the record, replacing any previous one atomically.
	Save(ctx context.Context, p progress.UserProgress) error
}

// profileRecord is the on-disk JSON layout.
type profileRecord struct {
	Version       int          `json:"version"`
	Username      string       `json:"username"`
	Email         string       `json:"email"`
	Language      *string      `json:"language"`
	Progress      int          `json:"progress"`
	Level         *level.Level `json:"level,omitempty"`
	AssessedLevel *level.Level `json:"assessed_level,omitempty"`
	AssessedAt    *time.Time   `json:"assessed_at,omitempty"`
	Theme         string       `json:"theme"`
	LastTipDate   string       `json:"last_tip_date"`
	LastTipText   string       `json:"last_tip_text"`
}

// FileProfileStore keeps one JSON file per user in a directory.
type FileProfileStore struct {
	dir string
}

// NewFileProfileStore creates a store rooted at dir, creating it if needed.
func NewFileProfileStore(dir string) (*FileProfileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &FileProfileStore{dir: dir}, nil
}

// Path returns the file used for username.
func (s *FileProfileStore) Path(username string) string {
	return filepath.Join(s.dir, progress.Slug(username)+".json")
}

func (s *FileProfileStore) Load(_ context.Context, username string) (*progress.UserProgress, error) {
	path := s.Path(username)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var rec profileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptProfile, path, err)
	}
	if rec.Progress < 0 {
		return nil, fmt.Errorf("%w: %s: negative progress %d", ErrCorruptProfile, path, rec.Progress)
	}

	p := fromRecord(rec)
	if p.Username == "" {
		p.Username = username
	}
	return &p, nil
}

func (s *FileProfileStore) Save(_ context.Context, p progress.UserProgress) error {
	data, err := json.MarshalIndent(toRecord(p), "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return writeFileAtomic(s.Path(p.Username), data)
}

func toRecord(p progress.UserProgress) profileRecord {
	lvl := p.Level
	rec := profileRecord{
		Version:       profileVersion,
		Username:      p.Username,
		Email:         p.Email,
		Progress:      p.Experience,
		Level:         &lvl,
		AssessedLevel: p.AssessedLevel,
		Theme:         p.Theme,
		LastTipDate:   p.CachedTipDate,
		LastTipText:   p.CachedTip,
	}
	if p.Language != "" {
		lang := p.Language
		rec.Language = &lang
	}
	if !p.AssessedAt.IsZero() {
		at := p.AssessedAt
		rec.AssessedAt = &at
	}
	return rec
}

// fromRecord rebuilds a UserProgress. The stored level is never trusted:
// it is recomputed from experience. A legacy record whose stored level
// exceeds the derived one was written by a level test, so that value is
// kept as the assessed level.
func fromRecord(rec profileRecord) progress.UserProgress {
	p := progress.New(rec.Username, rec.Email)
	p, _ = progress.AddExperience(p, rec.Progress)
	if rec.Language != nil {
		p.Language = *rec.Language
	}
	p = progress.WithTheme(p, rec.Theme)
	p.CachedTip = rec.LastTipText
	p.CachedTipDate = rec.LastTipDate

	switch {
	case rec.AssessedLevel != nil:
		a := *rec.AssessedLevel
		p.AssessedLevel = &a
	case rec.Level != nil && *rec.Level > p.Level:
		a := *rec.Level
		p.AssessedLevel = &a
	}
	if rec.AssessedAt != nil {
		p.AssessedAt = *rec.AssessedAt
	}
	return p
}

// writeFileAtomic writes data to a temp file in the target directory,
// syncs it, and renames it over path. Readers see either the old or the
// new contents, never a partial write.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename profile: %w", err)
	}
	return nil
}
