// Package mentor is the application controller. It owns the logged-in
// learner's record and the single active session, and persists every
// change to them.
package mentor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/proficiency"
	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/question"
	"github.com/abhisek/langmentor/internal/session"
	"github.com/abhisek/langmentor/internal/store"
	"github.com/abhisek/langmentor/internal/tips"
)

var (
	ErrEmptyNickname = errors.New("nickname is required")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrNoLanguage    = errors.New("no language selected")
	ErrNoSession     = errors.New("no active session")
)

// Deps are the collaborators of a Controller. Events, Tips and Analyzer
// may be nil.
type Deps struct {
	Profiles store.ProfileStore
	Events   store.EventRepo
	Supplier *question.Supplier
	Tips     *tips.Service
	Analyzer *proficiency.Analyzer
}

// Controller is driven from the UI goroutine; its methods must not be
// called concurrently. Fetch is the exception and may run anywhere.
type Controller struct {
	deps Deps
	cfg  Config
	now  func() time.Time

	user    *progress.UserProgress
	current *activeSession
}

// activeSession is the current session plus what the event log needs.
type activeSession struct {
	sess      *session.Session
	language  string
	levelHint level.Level
	source    question.Source
	startedAt time.Time
	shownAt   time.Time
}

// New creates a Controller.
func New(deps Deps, cfg Config) *Controller {
	if cfg.QuizSize <= 0 {
		cfg.QuizSize = DefaultConfig().QuizSize
	}
	return &Controller{deps: deps, cfg: cfg, now: time.Now}
}

// LoginResult describes a successful login.
type LoginResult struct {
	Progress      progress.UserProgress
	Returning     bool
	NeedsLanguage bool
}

// Login loads the learner's record, creating it on first use. A corrupt
// record is replaced by a fresh one. A non-empty email is validated and
// stored.
func (c *Controller) Login(ctx context.Context, nickname, email string) (LoginResult, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return LoginResult{}, ErrEmptyNickname
	}
	email = strings.TrimSpace(email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			return LoginResult{}, fmt.Errorf("%w: %v", ErrInvalidEmail, err)
		}
		email = addr.Address
	}

	p, err := c.deps.Profiles.Load(ctx, nickname)
	if err != nil {
		if !errors.Is(err, store.ErrCorruptProfile) {
			return LoginResult{}, fmt.Errorf("load profile: %w", err)
		}
		slog.Warn("replacing corrupt profile", "user", nickname, "error", err)
		p = nil
	}

	returning := p != nil
	var rec progress.UserProgress
	if returning {
		rec = *p
		if email != "" {
			rec.Email = email
		}
	} else {
		rec = progress.New(nickname, email)
	}

	if err := c.deps.Profiles.Save(ctx, rec); err != nil {
		return LoginResult{}, fmt.Errorf("save profile: %w", err)
	}

	c.user = &rec
	c.current = nil
	slog.Info("learner logged in", "user", rec.Username, "returning", returning)

	return LoginResult{
		Progress:      rec,
		Returning:     returning,
		NeedsLanguage: rec.Language == "",
	}, nil
}

// User returns the logged-in learner's record.
func (c *Controller) User() (progress.UserProgress, bool) {
	if c.user == nil {
		return progress.UserProgress{}, false
	}
	return *c.user, true
}

// SelectLanguage sets the target language.
func (c *Controller) SelectLanguage(ctx context.Context, lang string) (progress.UserProgress, error) {
	if c.user == nil {
		return progress.UserProgress{}, ErrNotLoggedIn
	}
	canonical, err := progress.NormalizeLanguage(lang)
	if err != nil {
		return progress.UserProgress{}, err
	}
	return c.commit(ctx, progress.WithLanguage(*c.user, canonical))
}

// ToggleTheme flips between the light and dark palettes.
func (c *Controller) ToggleTheme(ctx context.Context) (progress.UserProgress, error) {
	if c.user == nil {
		return progress.UserProgress{}, ErrNotLoggedIn
	}
	return c.commit(ctx, progress.ToggleTheme(*c.user))
}

// Logout saves the record and forgets the learner. Any active session is
// discarded.
func (c *Controller) Logout(ctx context.Context) error {
	if c.user == nil {
		return nil
	}
	if err := c.deps.Profiles.Save(ctx, *c.user); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	slog.Info("learner logged out", "user", c.user.Username)
	c.user = nil
	c.current = nil
	return nil
}

// commit persists p and makes it current. On failure the previous record
// stays current.
func (c *Controller) commit(ctx context.Context, p progress.UserProgress) (progress.UserProgress, error) {
	if err := c.deps.Profiles.Save(ctx, p); err != nil {
		return *c.user, fmt.Errorf("save profile: %w", err)
	}
	c.user = &p
	return p, nil
}

func (c *Controller) requireLanguage() (progress.UserProgress, error) {
	if c.user == nil {
		return progress.UserProgress{}, ErrNotLoggedIn
	}
	if c.user.Language == "" {
		return progress.UserProgress{}, ErrNoLanguage
	}
	return *c.user, nil
}
