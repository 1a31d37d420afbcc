package llm

import "context"

// Purpose labels recorded with each LLM request event. `langmentor llm list
// --purpose` filters on them.
const (
	PurposeQuizGen     = "quiz-gen"
	PurposeTip         = "tip"
	PurposeProficiency = "proficiency"

	purposeUnknown = "unknown"
)

type purposeKey struct{}

// WithPurpose labels the requests made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return purposeUnknown
}
