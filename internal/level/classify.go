package level

import "errors"

// ErrInvalidTotal is returned when a score is classified against a
// non-positive question count.
var ErrInvalidTotal = errors.New("total must be positive")

// scoreBand is a half-open percentage range [min, next band's min).
type scoreBand struct {
	min   float64
	level Level
}

// scoreBands are ordered highest first so the first match wins.
var scoreBands = []scoreBand{
	{95, Master},
	{80, Advanced},
	{60, PreAdvanced},
	{40, Intermediate},
	{20, PreIntermediate},
}

// Percentage returns 100*score/total without truncation.
// Returns 0 for a non-positive total.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(score) / float64(total)
}

// Classify maps an assessment score onto the scale. A percentage sitting
// exactly on a band boundary belongs to the higher band.
func Classify(score, total int) (Level, error) {
	if total <= 0 {
		return Beginner, ErrInvalidTotal
	}
	pct := Percentage(score, total)
	for _, b := range scoreBands {
		if pct >= b.min {
			return b.level, nil
		}
	}
	return Beginner, nil
}

// expBand is a half-open experience range starting at min.
type expBand struct {
	min   int
	level Level
}

var expBands = []expBand{
	{3000, Master},
	{1500, Proficient},
	{500, Advanced},
	{100, Intermediate},
}

// FromExperience derives the level earned by cumulative experience points.
// Negative input is treated as zero.
func FromExperience(exp int) Level {
	for _, b := range expBands {
		if exp >= b.min {
			return b.level
		}
	}
	return Beginner
}

// NextThreshold returns the experience needed for the next experience
// level, or -1 when already at the top.
func NextThreshold(exp int) int {
	next := -1
	for _, b := range expBands {
		if exp < b.min {
			next = b.min
		}
	}
	return next
}

// Progress returns how far exp is between the current experience level
// and the next, in [0, 1]. It is 1 at the top level.
func Progress(exp int) float64 {
	exp = max(exp, 0)
	next := NextThreshold(exp)
	if next < 0 {
		return 1
	}
	floor := 0
	for _, b := range expBands {
		if exp >= b.min {
			floor = b.min
			break
		}
	}
	return float64(exp-floor) / float64(next-floor)
}
