package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // LLM events only; empty matches all
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM calls for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID string
	Username  string
	Action    string // ActionStart or ActionEnd
	Kind      string // "quiz" or "level-test"
	Language  string
	LevelHint string
	Source    string // "generated" or "fallback" (start only)

	// Set on end only.
	Questions      int
	CorrectAnswers int
	Classified     string
	ExpGained      int
	DurationSecs   int
}

// SessionRecord is a completed session read back from the log.
type SessionRecord struct {
	SessionID      string
	Timestamp      time.Time
	Kind           string
	Language       string
	Questions      int
	CorrectAnswers int
	Classified     string
	ExpGained      int
	DurationSecs   int
}

// AnswerEventData captures one submitted answer.
type AnswerEventData struct {
	SessionID    string
	Position     int // 0-based question index
	Prompt       string
	Selected     int
	CorrectIndex int
	Correct      bool
	TimeMs       int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records one answered question.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM event by ID, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates LLM usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates LLM usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// SessionHistory returns a user's completed sessions, newest first.
	SessionHistory(ctx context.Context, username string, limit int) ([]SessionRecord, error)
}
