package store

import (
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the builders in this package.
const (
	llmEventsTable     = "llm_request_events"
	sessionEventsTable = "session_events"
	answerEventsTable  = "answer_events"

	colID        = "id"
	colSequence  = "sequence"
	colTimestamp = "timestamp"
	colPurpose   = "purpose"
	colModel     = "model"
	colUsername  = "username"
	colAction    = "action"
	colSessionID = "session_id"
)

// textSize makes a string column unbounded.
const textSize = 2147483647

// eventColumns returns the columns every event table starts with:
// sequence is the global monotonic counter, timestamp is UTC wall-clock time.
func eventColumns(cols ...*schema.Column) []*schema.Column {
	return append([]*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
	}, cols...)
}

var (
	llmEventColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: colModel, Type: field.TypeString},
		&schema.Column{Name: colPurpose, Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	)
	llmEventsSchema = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventColumns,
		PrimaryKey: llmEventColumns[:1],
		Indexes: []*schema.Index{
			{Name: "llm_request_events_purpose", Columns: []*schema.Column{llmEventColumns[5]}},
			{Name: "llm_request_events_timestamp", Columns: []*schema.Column{llmEventColumns[2]}},
		},
	}

	sessionEventColumns = eventColumns(
		&schema.Column{Name: colSessionID, Type: field.TypeString},
		&schema.Column{Name: colUsername, Type: field.TypeString},
		&schema.Column{Name: colAction, Type: field.TypeString},
		&schema.Column{Name: "kind", Type: field.TypeString},
		&schema.Column{Name: "language", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "level_hint", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "source", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "questions", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "correct_answers", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "classified", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "exp_gained", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "duration_secs", Type: field.TypeInt, Default: 0},
	)
	sessionEventsSchema = &schema.Table{
		Name:       sessionEventsTable,
		Columns:    sessionEventColumns,
		PrimaryKey: sessionEventColumns[:1],
		Indexes: []*schema.Index{
			{Name: "session_events_session_id", Columns: []*schema.Column{sessionEventColumns[3]}},
			{Name: "session_events_username", Columns: []*schema.Column{sessionEventColumns[4], sessionEventColumns[5]}},
		},
		Annotation: &entsql.Annotation{
			Checks: map[string]string{
				"session_id_set": "session_id <> ''",
				"action_known":   "action IN ('start', 'end')",
			},
		},
	}

	answerEventColumns = eventColumns(
		&schema.Column{Name: colSessionID, Type: field.TypeString},
		&schema.Column{Name: "position", Type: field.TypeInt},
		&schema.Column{Name: "prompt", Type: field.TypeString, Size: textSize},
		&schema.Column{Name: "selected", Type: field.TypeInt},
		&schema.Column{Name: "correct_index", Type: field.TypeInt},
		&schema.Column{Name: "correct", Type: field.TypeBool},
		&schema.Column{Name: "time_ms", Type: field.TypeInt64, Default: 0},
	)
	answerEventsSchema = &schema.Table{
		Name:       answerEventsTable,
		Columns:    answerEventColumns,
		PrimaryKey: answerEventColumns[:1],
		Indexes: []*schema.Index{
			{Name: "answer_events_session_id", Columns: []*schema.Column{answerEventColumns[3]}},
		},
	}

	// tables are created or altered by migrate on every Open.
	tables = []*schema.Table{llmEventsSchema, sessionEventsSchema, answerEventsSchema}
)

// columnNames lists the names of cols in order.
func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
