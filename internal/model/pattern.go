package model

import "time"

// Polarity selects how a pattern includes or excludes lines.
type Polarity string

const (
	// PolarityContains keeps lines containing the value.
	PolarityContains Polarity = "contains"
	// PolarityNotContains keeps lines not containing the value.
	PolarityNotContains Polarity = "not-contains"
	// PolarityMatches keeps lines matching the regular expression.
	PolarityMatches Polarity = "matches"
	// PolarityNotMatches keeps lines not matching the regular expression.
	PolarityNotMatches Polarity = "not-matches"
)

// Polarities lists every supported polarity.
func Polarities() []Polarity {
	return []Polarity{PolarityContains, PolarityNotContains, PolarityMatches, PolarityNotMatches}
}

// IsRegexp reports whether the value is a regular expression.
func (p Polarity) IsRegexp() bool {
	return p == PolarityMatches || p == PolarityNotMatches
}

// IsNegated reports whether matching lines are dropped instead of kept.
func (p Polarity) IsNegated() bool {
	return p == PolarityNotContains || p == PolarityNotMatches
}

// Valid reports whether p is a known polarity.
func (p Polarity) Valid() bool {
	for _, known := range Polarities() {
		if p == known {
			return true
		}
	}

	return false
}

// Pattern is what the user typed, before it is turned into a predicate.
type Pattern struct {
	Polarity   Polarity
	Value      string
	IgnoreCase bool
}

// Predicate is a pure test applied to one line, terminator excluded.
type Predicate func(line string) bool

// HistoryEntry is one remembered pattern.
type HistoryEntry struct {
	Polarity   Polarity  `yaml:"polarity"`
	Value      string    `yaml:"value"`
	IgnoreCase bool      `yaml:"ignore_case,omitempty"`
	UsedAt     time.Time `yaml:"used_at"`
}
