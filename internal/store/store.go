// Package store persists learner data: per-user JSON profiles and an
// append-only SQLite event log.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the event log database.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	mu  sync.Mutex
}

// Open connects to the SQLite database at dsn, applies pragmas and
// migrates the event tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &Store{db: db, drv: drv}, nil
}

// DB exposes the connection for ad-hoc queries.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.drv.Close() }

// EventRepo returns the event log. Repos from the same Store share one
// writer lock.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{drv: s.drv, mu: &s.mu}
}

// pragmas are applied by the driver to every pooled connection. WAL and
// a busy timeout let the TUI and a concurrent CLI command share the file;
// ent's migrator refuses to run with foreign keys off.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

func withPragmas(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		b.WriteString(sep + "_pragma=" + p)
		sep = "&"
	}
	return b.String()
}

// migrate creates or alters the event tables, then the sequence table
// that ent does not manage.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	if err := m.Create(ctx, tables...); err != nil {
		return err
	}
	return ensureSequence(ctx, drv)
}

// Paths are the on-disk locations used by the application.
type Paths struct {
	DataDir     string
	DBPath      string
	ProfilesDir string
	LogPath     string
}

// PathsIn returns the layout rooted at dir.
func PathsIn(dir string) Paths {
	return Paths{
		DataDir:     dir,
		DBPath:      filepath.Join(dir, "langmentor.db"),
		ProfilesDir: filepath.Join(dir, "profiles"),
		LogPath:     filepath.Join(dir, "langmentor.log"),
	}
}

// DefaultDataDir resolves the data directory in priority order:
// 1. LANGMENTOR_HOME environment variable
// 2. $XDG_DATA_HOME/langmentor
// 3. ~/.local/share/langmentor
func DefaultDataDir() (string, error) {
	if p := os.Getenv("LANGMENTOR_HOME"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "langmentor"), nil
}

// EnsureDirs creates the data and profile directories.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.DataDir, p.ProfilesDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}
