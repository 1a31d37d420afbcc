package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.appendEvent(ctx, "session event", sessionEventsSchema,
		data.SessionID, data.Username, data.Action, data.Kind,
		data.Language, data.LevelHint, data.Source, data.Questions, data.CorrectAnswers,
		data.Classified, data.ExpGained, data.DurationSecs,
	)
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.appendEvent(ctx, "answer event", answerEventsSchema,
		data.SessionID, data.Position, data.Prompt, data.Selected, data.CorrectIndex, data.Correct, data.TimeMs,
	)
}

func (r *eventRepo) SessionHistory(ctx context.Context, username string, limit int) ([]SessionRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(colSessionID, colTimestamp, "kind", "language", "questions", "correct_answers",
			"classified", "exp_gained", "duration_secs").
		From(entsql.Table(sessionEventsTable)).
		Where(entsql.And(
			entsql.EQ(colUsername, username),
			entsql.EQ(colAction, ActionEnd),
		)).
		OrderBy(entsql.Desc(colSequence))
	if limit > 0 {
		sel.Limit(limit)
	}

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query session history: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var s SessionRecord
		if err := rows.Scan(&s.SessionID, &s.Timestamp, &s.Kind, &s.Language, &s.Questions,
			&s.CorrectAnswers, &s.Classified, &s.ExpGained, &s.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
