package question

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyBatch is returned when a content source delivers no records.
	ErrEmptyBatch = errors.New("empty question batch")

	// ErrMalformedQuestion is returned when a record fails a check.
	ErrMalformedQuestion = errors.New("malformed question")
)

// Check inspects one raw record. Implementations must be stateless.
type Check interface {
	// Name returns a short identifier used in error messages and logs,
	// e.g. "structural", "options", "answer-key".
	Name() string

	// Check returns a failure message, or "" when the record passes.
	Check(q RawQuestion) string
}

// ValidationError describes why a batch was rejected.
type ValidationError struct {
	Kind    error  // ErrEmptyBatch or ErrMalformedQuestion
	Index   int    // record index, -1 for batch-level failures
	Check   string // name of the failing check
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s at index %d: check %q: %s", e.Kind, e.Index, e.Check, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// DefaultChecks is the check chain applied by Validate, in order.
var DefaultChecks = []Check{
	StructuralCheck{},
	OptionsCheck{},
	AnswerKeyCheck{},
}

// Validate checks every record and resolves its answer key to an index.
// Questions are returned in input order. The first failing record stops
// validation.
func Validate(batch []RawQuestion) ([]Question, error) {
	return ValidateWith(batch, DefaultChecks)
}

// ValidateWith is Validate with an explicit check chain. The answer key
// is resolved after the chain passes, so a chain without AnswerKeyCheck
// still rejects unresolvable keys.
func ValidateWith(batch []RawQuestion, checks []Check) ([]Question, error) {
	if len(batch) == 0 {
		return nil, &ValidationError{Kind: ErrEmptyBatch, Index: -1}
	}

	out := make([]Question, 0, len(batch))
	for i, raw := range batch {
		for _, c := range checks {
			if msg := c.Check(raw); msg != "" {
				return nil, &ValidationError{
					Kind:    ErrMalformedQuestion,
					Index:   i,
					Check:   c.Name(),
					Message: msg,
				}
			}
		}

		idx, msg := resolveKey(raw)
		if msg != "" {
			return nil, &ValidationError{
				Kind:    ErrMalformedQuestion,
				Index:   i,
				Check:   AnswerKeyCheck{}.Name(),
				Message: msg,
			}
		}

		opts := make([]string, len(raw.Options))
		copy(opts, raw.Options)
		out = append(out, Question{
			Prompt:       raw.Prompt,
			Options:      opts,
			CorrectIndex: idx,
		})
	}
	return out, nil
}

// StructuralCheck requires a prompt and at least two options.
type StructuralCheck struct{}

func (StructuralCheck) Name() string { return "structural" }

func (StructuralCheck) Check(q RawQuestion) string {
	if strings.TrimSpace(q.Prompt) == "" {
		return "prompt is empty"
	}
	if q.Options == nil {
		return "options are missing"
	}
	if len(q.Options) < 2 {
		return fmt.Sprintf("need at least 2 options, got %d", len(q.Options))
	}
	return ""
}

// OptionsCheck requires options to be non-blank and pairwise distinct.
type OptionsCheck struct{}

func (OptionsCheck) Name() string { return "options" }

func (OptionsCheck) Check(q RawQuestion) string {
	seen := make(map[string]int, len(q.Options))
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return fmt.Sprintf("option %d is blank", i)
		}
		if j, dup := seen[o]; dup {
			return fmt.Sprintf("options %d and %d are both %q", j, i, o)
		}
		seen[o] = i
	}
	return ""
}

// AnswerKeyCheck requires the answer key to identify exactly one option.
// Text keys must match an option exactly, including case.
type AnswerKeyCheck struct{}

func (AnswerKeyCheck) Name() string { return "answer-key" }

func (AnswerKeyCheck) Check(q RawQuestion) string {
	_, msg := resolveKey(q)
	return msg
}

func resolveKey(q RawQuestion) (int, string) {
	switch q.Correct.kind {
	case keyIndex:
		if q.Correct.index < 0 || q.Correct.index >= len(q.Options) {
			return 0, fmt.Sprintf("correct index %d out of range [0,%d)", q.Correct.index, len(q.Options))
		}
		return q.Correct.index, ""
	case keyText:
		for i, o := range q.Options {
			if o == q.Correct.text {
				return i, ""
			}
		}
		return 0, fmt.Sprintf("correct answer %q is not one of the options", q.Correct.text)
	default:
		return 0, "correct answer is missing"
	}
}
