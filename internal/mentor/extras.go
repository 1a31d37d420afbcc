package mentor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/abhisek/langmentor/internal/proficiency"
	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/tips"
)

// DailyTip returns today's tip and caches a newly produced one on the
// learner's record.
func (c *Controller) DailyTip(ctx context.Context, today time.Time) (tips.Result, error) {
	p, err := c.requireLanguage()
	if err != nil {
		return tips.Result{}, err
	}
	res, err := c.FetchTip(ctx, p, today)
	if err != nil {
		return tips.Result{}, err
	}
	return res, c.RecordTip(ctx, res, today)
}

// FetchTip produces the tip for p without touching controller state, so
// it may run off the UI goroutine.
func (c *Controller) FetchTip(ctx context.Context, p progress.UserProgress, today time.Time) (tips.Result, error) {
	if p.Language == "" {
		return tips.Result{}, ErrNoLanguage
	}
	if c.deps.Tips == nil {
		if text, ok := progress.TipFor(p, today); ok {
			return tips.Result{Text: text, Source: tips.SourceCache}, nil
		}
		return tips.Result{Text: tips.StaticTip(p.Language, today), Source: tips.SourceStatic}, nil
	}
	return c.deps.Tips.Tip(ctx, p, today)
}

// RecordTip caches res on the learner's record unless it came from the
// cache already.
func (c *Controller) RecordTip(ctx context.Context, res tips.Result, today time.Time) error {
	if c.user == nil {
		return ErrNotLoggedIn
	}
	if res.Source == tips.SourceCache {
		return nil
	}
	_, err := c.commit(ctx, progress.WithTip(*c.user, res.Text, today))
	return err
}

// Analyze estimates the learner's level from a writing sample and records
// the estimate as an assessment.
func (c *Controller) Analyze(ctx context.Context, text string) (proficiency.Analysis, error) {
	p, err := c.requireLanguage()
	if err != nil {
		return proficiency.Analysis{}, err
	}
	a, err := c.EstimateLevel(ctx, p, text)
	if err != nil {
		return proficiency.Analysis{}, err
	}
	if _, err := c.RecordAssessment(ctx, a); err != nil {
		return a, err
	}
	return a, nil
}

// EstimateLevel runs the analyzer for p without touching controller
// state.
func (c *Controller) EstimateLevel(ctx context.Context, p progress.UserProgress, text string) (proficiency.Analysis, error) {
	if p.Language == "" {
		return proficiency.Analysis{}, ErrNoLanguage
	}
	if c.deps.Analyzer == nil {
		return proficiency.Analysis{}, proficiency.ErrUnavailable
	}
	a, err := c.deps.Analyzer.Analyze(ctx, text, progress.DisplayLevel(p), p.Language)
	if err != nil {
		if !errors.Is(err, proficiency.ErrEmptySample) {
			slog.Warn("proficiency analysis failed", "user", p.Username, "error", err)
		}
		return proficiency.Analysis{}, err
	}
	return a, nil
}

// RecordAssessment stores the analysis estimate as the learner's assessed
// level.
func (c *Controller) RecordAssessment(ctx context.Context, a proficiency.Analysis) (progress.UserProgress, error) {
	if c.user == nil {
		return progress.UserProgress{}, ErrNotLoggedIn
	}
	return c.commit(ctx, progress.ReconcileAssessedLevel(*c.user, a.Estimated, c.now()))
}
