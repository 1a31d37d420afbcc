package question

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/abhisek/langmentor/internal/level"
)

//go:embed bank/*.json
var bankFS embed.FS

// ErrNoFallback is returned when the bank has no set for a language.
var ErrNoFallback = errors.New("no fallback questions for language")

// Tier selects one of the two fixed fallback sets per language.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
)

// TierFor maps a level onto the fallback set used for it.
func TierFor(l level.Level) Tier {
	if l <= level.PreIntermediate {
		return TierBeginner
	}
	return TierIntermediate
}

// Bank is the static question bank used when generation fails.
type Bank struct {
	sets map[string]map[Tier][]Question
}

// LoadBank decodes and validates the embedded bank.
func LoadBank() (*Bank, error) {
	entries, err := bankFS.ReadDir("bank")
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}

	b := &Bank{sets: make(map[string]map[Tier][]Question)}
	for _, e := range entries {
		name := e.Name()
		data, err := bankFS.ReadFile(path.Join("bank", name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var raw map[Tier][]RawQuestion
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}

		lang := strings.TrimSuffix(name, path.Ext(name))
		b.sets[lang] = make(map[Tier][]Question, len(raw))
		for tier, batch := range raw {
			qs, err := Validate(batch)
			if err != nil {
				return nil, fmt.Errorf("bank %s/%s: %w", lang, tier, err)
			}
			b.sets[lang][tier] = qs
		}
	}
	return b, nil
}

// MustLoadBank is LoadBank for the embedded data, which is covered by tests.
func MustLoadBank() *Bank {
	b, err := LoadBank()
	if err != nil {
		panic(err)
	}
	return b
}

// Questions returns a copy of the fixed set for the language and level.
func (b *Bank) Questions(language string, l level.Level) ([]Question, error) {
	tiers, ok := b.sets[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoFallback, language)
	}
	qs, ok := tiers[TierFor(l)]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no %s set", ErrNoFallback, language, TierFor(l))
	}
	out := make([]Question, len(qs))
	copy(out, qs)
	return out, nil
}

// Languages lists the languages the bank covers, sorted.
func (b *Bank) Languages() []string {
	langs := make([]string, 0, len(b.sets))
	for l := range b.sets {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
