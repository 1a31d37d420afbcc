package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/langmentor/internal/store"
)

// ErrNotConfigured is returned by NewProviderFromEnv when the environment
// names no provider and holds no vendor API key.
var ErrNotConfigured = errors.New("no LLM provider configured")

// NewProvider builds the vendor provider for cfg and wraps it:
// caller → timeout → retry → logging → vendor. A nil eventRepo disables
// event logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropic(cfg)
	case "openai":
		base, err = NewOpenAI(cfg)
	case "gemini":
		base, err = NewGemini(ctx, cfg)
	case "openrouter":
		base, err = NewOpenRouter(cfg)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := base
	if eventRepo != nil {
		p = WithLogging(p, eventRepo)
	}
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout), nil
}

// NewProviderFromEnv uses LANGMENTOR_LLM_PROVIDER when set, otherwise the
// first vendor key found. Callers treat ErrNotConfigured as "run offline".
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, Config, error) {
	cfg := ConfigFromEnv()
	if os.Getenv("LANGMENTOR_LLM_PROVIDER") == "" {
		var ok bool
		if cfg, ok = DiscoverConfig(); !ok {
			return nil, Config{}, ErrNotConfigured
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, cfg, err
	}
	p, err := NewProvider(ctx, cfg, eventRepo)
	if err != nil {
		return nil, cfg, err
	}
	return p, cfg, nil
}
