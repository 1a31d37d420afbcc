// Package level defines the ordered proficiency scale shared by assessments
// and experience tracking, along with the classifiers that map scores and
// experience points onto it.
package level

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Level is a rank on the unified proficiency scale. Higher values are
// more proficient.
type Level int

const (
	Beginner Level = iota
	PreIntermediate
	Intermediate
	PreAdvanced
	Advanced
	Proficient
	Master
)

// All lists every level from lowest to highest.
var All = []Level{
	Beginner,
	PreIntermediate,
	Intermediate,
	PreAdvanced,
	Advanced,
	Proficient,
	Master,
}

var names = map[Level]string{
	Beginner:        "Beginner",
	PreIntermediate: "Pre-Intermediate",
	Intermediate:    "Intermediate",
	PreAdvanced:     "Pre-Advanced",
	Advanced:        "Advanced",
	Proficient:      "Proficient",
	Master:          "Master",
}

// ErrUnknownLevel is returned by Parse for names outside the scale.
var ErrUnknownLevel = errors.New("unknown proficiency level")

// String returns the display name of the level.
func (l Level) String() string {
	if n, ok := names[l]; ok {
		return n
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Valid reports whether l is on the scale.
func (l Level) Valid() bool {
	return l >= Beginner && l <= Master
}

// Max returns the higher of two levels.
func Max(a, b Level) Level {
	if a > b {
		return a
	}
	return b
}

// Parse converts a display name back to a Level. Matching ignores case,
// hyphens, underscores and spaces, so "pre_intermediate" and
// "Pre Intermediate" both resolve.
func Parse(s string) (Level, error) {
	key := normalize(s)
	for _, l := range All {
		if normalize(names[l]) == key {
			return l, nil
		}
	}
	return Beginner, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

func normalize(s string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// MarshalJSON encodes the level as its display name.
func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("marshal level: %d out of range", int(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a display name.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("level must be a string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
