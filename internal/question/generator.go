package question

import "context"

// Generator produces raw question batches. Output is untrusted and must
// pass Validate before use.
type Generator interface {
	// Generate returns up to req.Count raw questions for the requested
	// language and level.
	Generate(ctx context.Context, req Request) ([]RawQuestion, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) ([]RawQuestion, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) ([]RawQuestion, error) {
	return f(ctx, req)
}
