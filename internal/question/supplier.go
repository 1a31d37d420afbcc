package question

import (
	"context"
	"fmt"
	"log/slog"
)

// Source labels where a batch came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Batch is a validated set of questions ready for a session.
type Batch struct {
	Questions []Question
	Source    Source

	// Err is the generation failure that caused a fallback, if any.
	// It is informational and never shown to the learner.
	Err error
}

// Supplier obtains validated question batches, substituting the static
// bank whenever generation fails or produces unusable output.
type Supplier struct {
	gen    Generator
	bank   *Bank
	config Config
}

// NewSupplier creates a Supplier. gen may be nil, in which case every
// batch comes from the bank.
func NewSupplier(gen Generator, bank *Bank, cfg Config) *Supplier {
	if cfg.Checks == nil {
		cfg.Checks = DefaultChecks
	}
	return &Supplier{gen: gen, bank: bank, config: cfg}
}

// Supply returns a batch of at least req.Count questions when the
// generator succeeds, or the bank's fixed set otherwise. The only error
// is ErrNoFallback, when both sources are exhausted.
func (s *Supplier) Supply(ctx context.Context, req Request) (Batch, error) {
	res := s.tryGenerate(ctx, req)
	if res.batch != nil {
		return Batch{Questions: res.batch, Source: SourceGenerated}, nil
	}

	if res.err != nil {
		slog.Warn("question generation failed, using fallback bank",
			"language", req.Language, "level", req.Level.String(), "error", res.err)
	}

	qs, err := s.bank.Questions(req.Language, req.Level)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Questions: qs, Source: SourceFallback, Err: res.err}, nil
}

type genResult struct {
	batch []Question
	err   error
}

func (s *Supplier) tryGenerate(ctx context.Context, req Request) (res genResult) {
	if s.gen == nil {
		return genResult{}
	}

	defer func() {
		if r := recover(); r != nil {
			res = genResult{err: fmt.Errorf("generator panic: %v", r)}
		}
	}()

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	raw, err := s.gen.Generate(ctx, req)
	if err != nil {
		return genResult{err: err}
	}

	qs, err := ValidateWith(raw, s.config.Checks)
	if err != nil {
		return genResult{err: fmt.Errorf("validate generated batch: %w", err)}
	}
	if req.Count > 0 {
		if len(qs) < req.Count {
			return genResult{err: fmt.Errorf("generated %d questions, need %d", len(qs), req.Count)}
		}
		qs = qs[:req.Count]
	}
	return genResult{batch: qs}
}
