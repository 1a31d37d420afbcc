package llm

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config selects and configures one LLM vendor.
type Config struct {
	// Provider is "anthropic", "openai", "gemini", "openrouter" or "mock".
	Provider string
	APIKey   string
	Model    string
	BaseURL  string

	Retry RetryConfig

	// Timeout bounds a whole Generate call, retries included.
	Timeout time.Duration
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// vendorSpec describes how a vendor is configured from the environment.
type vendorSpec struct {
	name         string
	defaultModel string
	// standardKey is the vendor's own API key variable, probed when no
	// provider is selected explicitly.
	standardKey string
}

// vendors is in discovery priority order.
var vendors = []vendorSpec{
	{name: "gemini", defaultModel: "gemini-flash", standardKey: "GEMINI_API_KEY"},
	{name: "openai", defaultModel: "gpt-4o-mini", standardKey: "OPENAI_API_KEY"},
	{name: "anthropic", defaultModel: "claude-haiku", standardKey: "ANTHROPIC_API_KEY"},
	{name: "openrouter", defaultModel: "google/gemini-2.0-flash-exp", standardKey: "OPENROUTER_API_KEY"},
}

func lookupVendor(name string) (vendorSpec, bool) {
	for _, v := range vendors {
		if v.name == name {
			return v, true
		}
	}
	return vendorSpec{}, false
}

// envName returns the LANGMENTOR_<VENDOR>_<SUFFIX> variable name.
func (v vendorSpec) envName(suffix string) string {
	return "LANGMENTOR_" + strings.ToUpper(v.name) + "_" + suffix
}

// DefaultConfig returns the Anthropic defaults without a key.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Model:    "claude-haiku",
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv reads LANGMENTOR_LLM_PROVIDER and the selected vendor's
// LANGMENTOR_<VENDOR>_API_KEY, _MODEL and _BASE_URL. The vendor's standard
// key variable is used when its LANGMENTOR_ key is unset.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("LANGMENTOR_LLM_PROVIDER"); p != "" {
		cfg.Provider = strings.ToLower(strings.TrimSpace(p))
	}
	if v, ok := lookupVendor(cfg.Provider); ok {
		cfg.Model = v.defaultModel
		cfg.APIKey = os.Getenv(v.standardKey)
		applyVendorEnv(&cfg, v)
	}
	applyCommonEnv(&cfg)
	return cfg
}

// DiscoverConfig returns a Config for the first vendor whose standard API
// key variable is set.
func DiscoverConfig() (Config, bool) {
	for _, v := range vendors {
		key := os.Getenv(v.standardKey)
		if key == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = v.name
		cfg.Model = v.defaultModel
		cfg.APIKey = key
		applyVendorEnv(&cfg, v)
		applyCommonEnv(&cfg)
		return cfg, true
	}
	return Config{}, false
}

func applyVendorEnv(cfg *Config, v vendorSpec) {
	if k := os.Getenv(v.envName("API_KEY")); k != "" {
		cfg.APIKey = k
	}
	if m := os.Getenv(v.envName("MODEL")); m != "" {
		cfg.Model = m
	}
	if u := os.Getenv(v.envName("BASE_URL")); u != "" {
		cfg.BaseURL = u
	}
}

func applyCommonEnv(cfg *Config) {
	if d, ok := envDuration("LANGMENTOR_LLM_TIMEOUT"); ok {
		cfg.Timeout = d
	}
	if v := os.Getenv("LANGMENTOR_LLM_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		} else {
			slog.Warn("ignoring invalid LANGMENTOR_LLM_MAX_ATTEMPTS", "value", v)
		}
	}
}

// envDuration parses a duration such as "45s". Invalid values are logged
// and ignored.
func envDuration(name string) (time.Duration, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid duration", "var", name, "value", v)
		return 0, false
	}
	return d, true
}

// Validate checks that the provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	v, ok := lookupVendor(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s or %s is required for the %s provider", v.envName("API_KEY"), v.standardKey, v.name)
	}
	return nil
}
