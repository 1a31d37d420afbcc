package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestOpen_FileDatabase.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := Open(path)
	require.NoError(t, err)

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	require.NoError(t, s.Close())

	// Reopening an existing database is idempotent.
	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestSequenceIsGlobalAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Username: "marco", Action: ActionStart, Kind: "quiz",
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "quiz-gen", Success: true,
	}))
	require.NoError(t, repo.AppendAnswerEvent(ctx, AnswerEventData{
		SessionID: "s1", Position: 0, Prompt: "p", Selected: 1, CorrectIndex: 1, Correct: true,
	}))

	var seqs []int64
	for _, table := range []string{"session_events", "llm_request_events", "answer_events"} {
		var seq int64
		require.NoError(t, s.DB().QueryRow("SELECT sequence FROM "+table).Scan(&seq))
		seqs = append(seqs, seq)
	}
	assert.Equal(t, []int64{1, 2, 3}, seqs)
}

func TestLLMEvents_QueryAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"quiz-gen", "tip", "quiz-gen"} {
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "anthropic",
			Model:        "claude-haiku-4-5-20251001",
			Purpose:      purpose,
			InputTokens:  100 * (i + 1),
			OutputTokens: 10 * (i + 1),
			LatencyMs:    int64(200 * (i + 1)),
			Success:      i != 1,
			ErrorMessage: map[bool]string{true: "", false: "boom"}[i != 1],
			RequestBody:  "[user]\nhello",
		}))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Greater(t, all[0].Sequence, all[1].Sequence, "newest first")

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)

	tips, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "tip"})
	require.NoError(t, err)
	require.Len(t, tips, 1)
	assert.False(t, tips[0].Success)
	assert.Equal(t, "boom", tips[0].ErrorMessage)

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[1].Sequence})
	require.NoError(t, err)
	assert.Len(t, after, 1)

	recent, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	got, err := repo.GetLLMEvent(ctx, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "[user]\nhello", got.RequestBody)
	assert.WithinDuration(t, time.Now(), got.Timestamp, time.Minute)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	add := func(purpose, model string, in, out int, ms int64) {
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "p", Model: model, Purpose: purpose,
			InputTokens: in, OutputTokens: out, LatencyMs: ms, Success: true,
		}))
	}
	add("quiz-gen", "gpt-4o-mini", 100, 50, 100)
	add("quiz-gen", "gpt-4o-mini", 300, 150, 300)
	add("tip", "gemini-2.0-flash", 10, 5, 50)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, LLMUsageStats{
		Purpose: "quiz-gen", Calls: 2, InputTokens: 400, OutputTokens: 200, AvgLatencyMs: 200,
	}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "gpt-4o-mini", byModel[0].Model)
	assert.Equal(t, 2, byModel[0].Calls)
	assert.Equal(t, "gemini-2.0-flash", byModel[1].Model)
}

func TestSessionHistory(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	end := func(id, user string, correct int) {
		require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
			SessionID: id, Username: user, Action: ActionStart, Kind: "quiz", Language: "Italian",
		}))
		require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
			SessionID: id, Username: user, Action: ActionEnd, Kind: "quiz", Language: "Italian",
			Questions: 5, CorrectAnswers: correct, Classified: "Intermediate", ExpGained: correct * 10,
		}))
	}
	end("a", "marco", 2)
	end("b", "giulia", 5)
	end("c", "marco", 4)

	hist, err := repo.SessionHistory(ctx, "marco", 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "c", hist[0].SessionID)
	assert.Equal(t, 40, hist[0].ExpGained)
	assert.Equal(t, "a", hist[1].SessionID)

	hist, err = repo.SessionHistory(ctx, "marco", 1)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestSessionEvent_RejectsBadAction(t *testing.T) {
	s := openTestStore(t)
	err := s.EventRepo().AppendSessionEvent(context.Background(), SessionEventData{
		SessionID: "x", Username: "u", Action: "pause", Kind: "quiz",
	})
	assert.Error(t, err)
}

func TestFailedAppendKeepsSequenceDense(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.Error(t, repo.AppendSessionEvent(ctx, SessionEventData{Username: "u", Action: ActionStart, Kind: "quiz"}))
	require.NoError(t, repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s", Prompt: "p"}))

	var seq int64
	require.NoError(t, s.DB().QueryRow("SELECT sequence FROM answer_events").Scan(&seq))
	assert.Equal(t, int64(1), seq)
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t,
		"events.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)",
		withPragmas("events.db"))
	assert.True(t, strings.HasPrefix(withPragmas("file:x?mode=memory"), "file:x?mode=memory&_pragma="))
}

func TestMigrate_AddsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.DB().Exec("ALTER TABLE answer_events DROP COLUMN time_ms")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EventRepo().AppendAnswerEvent(context.Background(), AnswerEventData{
		SessionID: "s", Prompt: "p", TimeMs: 1200,
	}))

	var ms int64
	require.NoError(t, s.DB().QueryRow("SELECT time_ms FROM answer_events").Scan(&ms))
	assert.Equal(t, int64(1200), ms)
}

func TestPathsIn(t *testing.T) {
	p := PathsIn("/data")
	assert.Equal(t, filepath.Join("/data", "langmentor.db"), p.DBPath)
	assert.Equal(t, filepath.Join("/data", "profiles"), p.ProfilesDir)
	assert.Equal(t, filepath.Join("/data", "langmentor.log"), p.LogPath)
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("LANGMENTOR_HOME", "/custom/home")
	dir, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/home", dir)

	t.Setenv("LANGMENTOR_HOME", "")
	t.Setenv("XDG_DATA_HOME", "/xdg")
	dir, err = DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "langmentor"), dir)
}
