package mentor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/langmentor/internal/level"
	"github.com/abhisek/langmentor/internal/progress"
	"github.com/abhisek/langmentor/internal/question"
	"github.com/abhisek/langmentor/internal/session"
	"github.com/abhisek/langmentor/internal/store"
)

// QuestionRequest prepares the generation request for a new session of
// kind. The request is a value and can be handed to another goroutine.
func (c *Controller) QuestionRequest(kind session.Kind) (question.Request, error) {
	p, err := c.requireLanguage()
	if err != nil {
		return question.Request{}, err
	}
	count := c.cfg.QuizSize
	if kind == session.KindLevelTest {
		count = session.LevelTestSize
	}
	return question.Request{
		Language: p.Language,
		Level:    progress.DisplayLevel(p),
		Count:    count,
	}, nil
}

// Fetch obtains a validated batch for req. It reads no controller state
// and is safe to call from a background goroutine.
func (c *Controller) Fetch(ctx context.Context, req question.Request) (question.Batch, error) {
	if c.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.GenerationTimeout)
		defer cancel()
	}
	return c.deps.Supplier.Supply(ctx, req)
}

// Begin starts a session over batch, replacing any session in progress.
func (c *Controller) Begin(ctx context.Context, kind session.Kind, batch question.Batch) (*session.Session, error) {
	p, err := c.requireLanguage()
	if err != nil {
		return nil, err
	}

	size := session.LevelTestSize
	if kind == session.KindQuiz {
		size = min(len(batch.Questions), c.cfg.QuizSize)
		if size == 0 {
			return nil, fmt.Errorf("%w: empty batch", session.ErrInsufficientQuestions)
		}
	}

	s, err := session.Start(kind, batch.Questions, size)
	if err != nil {
		slog.Error("cannot start session", "kind", kind, "questions", len(batch.Questions), "error", err)
		return nil, err
	}

	if c.current != nil {
		slog.Info("discarding unfinished session", "session", c.current.sess.ID)
	}
	hint := progress.DisplayLevel(p)
	c.current = &activeSession{
		sess:      s,
		language:  p.Language,
		levelHint: hint,
		source:    batch.Source,
		startedAt: c.now(),
		shownAt:   c.now(),
	}

	c.appendSession(ctx, store.SessionEventData{
		SessionID: s.ID,
		Username:  p.Username,
		Action:    store.ActionStart,
		Kind:      string(kind),
		Language:  p.Language,
		LevelHint: hint.String(),
		Source:    string(batch.Source),
		Questions: s.Size(),
	})
	return s, nil
}

// Session returns the active session, or nil.
func (c *Controller) Session() *session.Session {
	if c.current == nil {
		return nil
	}
	return c.current.sess
}

// Answer submits the selected option for the current question.
func (c *Controller) Answer(ctx context.Context, selected int) (session.AnswerOutcome, error) {
	if c.current == nil {
		return session.AnswerOutcome{}, ErrNoSession
	}
	s := c.current.sess
	pos := s.Index()

	out, err := s.Submit(selected)
	if err != nil {
		slog.Warn("answer rejected", "session", s.ID, "selected", selected, "error", err)
		return out, err
	}

	now := c.now()
	q, _ := s.Question(pos)
	c.appendAnswer(ctx, store.AnswerEventData{
		SessionID:    s.ID,
		Position:     pos,
		Prompt:       q.Prompt,
		Selected:     selected,
		CorrectIndex: out.CorrectIndex,
		Correct:      out.Correct,
		TimeMs:       now.Sub(c.current.shownAt).Milliseconds(),
	})
	c.current.shownAt = now
	return out, nil
}

// Outcome summarizes a finished session.
type Outcome struct {
	Kind       session.Kind
	Score      int
	Total      int
	Classified level.Level
	ExpGained  int
	LeveledUp  bool
	Progress   progress.UserProgress
}

// Finish scores the completed session and applies it to the learner's
// record. Quizzes award experience; level tests record the assessed
// level. The session is cleared once the record is saved.
func (c *Controller) Finish(ctx context.Context) (Outcome, error) {
	if c.current == nil {
		return Outcome{}, ErrNoSession
	}
	if c.user == nil {
		return Outcome{}, ErrNotLoggedIn
	}
	active := c.current

	res, err := active.sess.Result()
	if err != nil {
		return Outcome{}, err
	}
	classified, err := level.Classify(res.Score, res.Total)
	if err != nil {
		return Outcome{}, fmt.Errorf("classify: %w", err)
	}

	before := *c.user
	after := before
	gained := 0
	switch active.sess.Kind {
	case session.KindQuiz:
		gained = res.Score * c.cfg.ExpPerCorrect
		after, err = progress.AddExperience(before, gained)
		if err != nil {
			return Outcome{}, err
		}
	case session.KindLevelTest:
		after = progress.ReconcileAssessedLevel(before, classified, c.now())
	}

	saved, err := c.commit(ctx, after)
	if err != nil {
		return Outcome{}, err
	}
	c.current = nil

	c.appendSession(ctx, store.SessionEventData{
		SessionID:      active.sess.ID,
		Username:       saved.Username,
		Action:         store.ActionEnd,
		Kind:           string(active.sess.Kind),
		Language:       active.language,
		LevelHint:      active.levelHint.String(),
		Source:         string(active.source),
		Questions:      res.Total,
		CorrectAnswers: res.Score,
		Classified:     classified.String(),
		ExpGained:      gained,
		DurationSecs:   int(c.now().Sub(active.startedAt) / time.Second),
	})
	slog.Info("session finished",
		"session", active.sess.ID,
		"kind", active.sess.Kind,
		"score", res.Score,
		"total", res.Total,
		"classified", classified.String(),
		"exp_gained", gained)

	return Outcome{
		Kind:       active.sess.Kind,
		Score:      res.Score,
		Total:      res.Total,
		Classified: classified,
		ExpGained:  gained,
		LeveledUp:  progress.DisplayLevel(saved) > progress.DisplayLevel(before),
		Progress:   saved,
	}, nil
}

// Cancel discards the active session without scoring it.
func (c *Controller) Cancel() {
	if c.current == nil {
		return
	}
	slog.Info("session cancelled", "session", c.current.sess.ID, "answered", c.current.sess.Index())
	c.current = nil
}

func (c *Controller) appendSession(ctx context.Context, data store.SessionEventData) {
	if c.deps.Events == nil {
		return
	}
	if err := c.deps.Events.AppendSessionEvent(context.WithoutCancel(ctx), data); err != nil {
		slog.Warn("failed to log session event", "session", data.SessionID, "action", data.Action, "error", err)
	}
}

func (c *Controller) appendAnswer(ctx context.Context, data store.AnswerEventData) {
	if c.deps.Events == nil {
		return
	}
	if err := c.deps.Events.AppendAnswerEvent(context.WithoutCancel(ctx), data); err != nil {
		slog.Warn("failed to log answer event", "session", data.SessionID, "error", err)
	}
}
