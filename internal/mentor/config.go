package mentor

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds controller tunables.
type Config struct {
	// QuizSize is the number of questions in a quiz. Level tests always
	// use session.LevelTestSize.
	QuizSize int

	// ExpPerCorrect is the experience awarded per correct quiz answer.
	ExpPerCorrect int

	// GenerationTimeout bounds fetching one question batch, including the
	// fallback.
	GenerationTimeout time.Duration
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{
		QuizSize:          5,
		ExpPerCorrect:     10,
		GenerationTimeout: 30 * time.Second,
	}
}

// ConfigFromEnv applies LANGMENTOR_QUIZ_SIZE and LANGMENTOR_GEN_TIMEOUT on
// top of the defaults. Invalid values are logged and ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("LANGMENTOR_QUIZ_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.QuizSize = n
		} else {
			slog.Warn("ignoring invalid LANGMENTOR_QUIZ_SIZE", "value", v)
		}
	}
	if v := os.Getenv("LANGMENTOR_GEN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.GenerationTimeout = d
		} else {
			slog.Warn("ignoring invalid LANGMENTOR_GEN_TIMEOUT", "value", v)
		}
	}

	return cfg
}
