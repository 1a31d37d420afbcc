package question

import "time"

// Config controls the LLMGenerator and Supplier.
type Config struct {
	// MaxTokens is the token budget for one batch response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// Timeout bounds a single generation call. Zero means no timeout.
	Timeout time.Duration

	// Checks is the validation chain applied to generated batches.
	Checks []Check
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
		Checks:      DefaultChecks,
	}
}
