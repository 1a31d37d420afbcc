package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
)

// eventRepo writes every event through appendEvent so all tables share
// one sequence: a tip request and the answers around it can be ordered
// against each other even though they live in different tables.
type eventRepo struct {
	drv *entsql.Driver
	// mu serializes writers inside the process. SQLite serializes across
	// processes.
	mu *sync.Mutex
}

// The sequence counter uses raw SQL because ent has no database-level
// atomic counter.
const (
	createSequenceSQL = `CREATE TABLE IF NOT EXISTS global_sequence (
		id       INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`
	seedSequenceSQL = `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`
	nextSequenceSQL = `UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`
)

func ensureSequence(ctx context.Context, drv dialect.ExecQuerier) error {
	if err := drv.Exec(ctx, createSequenceSQL, []any{}, nil); err != nil {
		return fmt.Errorf("create sequence table: %w", err)
	}
	if err := drv.Exec(ctx, seedSequenceSQL, []any{}, nil); err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}

// appendEvent claims the next sequence number and inserts one row into t
// in the same transaction, so a failed insert does not burn a number.
// values line up with the table's columns after id, sequence and timestamp.
func (r *eventRepo) appendEvent(ctx context.Context, what string, t *schema.Table, values ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("save %s: %w", what, err)
	}
	defer tx.Rollback()

	seq, err := nextSequence(ctx, tx)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(t.Name).
		Columns(columnNames(t.Columns[1:])...).
		Values(append([]any{seq, time.Now().UTC()}, values...)...).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save %s: %w", what, err)
	}
	return tx.Commit()
}

func nextSequence(ctx context.Context, tx dialect.Tx) (int64, error) {
	var rows entsql.Rows
	if err := tx.Query(ctx, nextSequenceSQL, []any{}, &rows); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	seq, err := entsql.ScanInt64(rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
