package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/filterline/internal/model"
)

func applyAll(t *testing.T, p m.Pattern, lines []string) []string {
	t.Helper()

	pred, err := NewPredicate(p)
	require.NoError(t, err)

	filter, err := NewLineFilter(pred)
	require.NoError(t, err)

	kept := []string{}

	for _, line := range lines {
		if out, ok := filter.Apply(line); ok {
			kept = append(kept, out)
		}
	}

	return kept
}

func TestLineFilter_Polarities(t *testing.T) {
	fruit := []string{"apple\n", "banana\n", "grape\n"}

	tests := []struct {
		name    string
		pattern m.Pattern
		want    []string
	}{
		{"contains", m.Pattern{Polarity: m.PolarityContains, Value: "an"}, []string{"banana\n"}},
		{"not contains", m.Pattern{Polarity: m.PolarityNotContains, Value: "an"}, []string{"apple\n", "grape\n"}},
		{"matches", m.Pattern{Polarity: m.PolarityMatches, Value: "^(a|g)"}, []string{"apple\n", "grape\n"}},
		{"not matches", m.Pattern{Polarity: m.PolarityNotMatches, Value: "e$"}, []string{"banana\n"}},
		{"ignore case contains", m.Pattern{Polarity: m.PolarityContains, Value: "AN", IgnoreCase: true}, []string{"banana\n"}},
		{"case sensitive contains", m.Pattern{Polarity: m.PolarityContains, Value: "AN"}, []string{}},
		{"ignore case matches", m.Pattern{Polarity: m.PolarityMatches, Value: "^GRA", IgnoreCase: true}, []string{"grape\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyAll(t, tt.pattern, fruit))
		})
	}
}

func TestLineFilter_TerminatorExcludedFromPredicate(t *testing.T) {
	lines := []string{"one\r\n", "two\n", "three"}

	got := applyAll(t, m.Pattern{Polarity: m.PolarityMatches, Value: `[eo]$`}, lines)
	assert.Equal(t, []string{"one\r\n", "two\n", "three"}, got)

	got = applyAll(t, m.Pattern{Polarity: m.PolarityContains, Value: "\n"}, lines)
	assert.Empty(t, got)
}

func TestNewPredicate_Invalid(t *testing.T) {
	tests := map[string]m.Pattern{
		"unmatched paren":  {Polarity: m.PolarityMatches, Value: "("},
		"empty value":      {Polarity: m.PolarityContains, Value: ""},
		"unknown polarity": {Polarity: "sounds-like", Value: "x"},
	}

	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			pred, err := NewPredicate(p)
			require.ErrorIs(t, err, ErrInvalidPredicate)
			assert.Nil(t, pred)
		})
	}
}

func TestNewLineFilter_NilPredicate(t *testing.T) {
	_, err := NewLineFilter(nil)
	assert.ErrorIs(t, err, ErrInvalidPredicate)
}

func TestSplitTerminator(t *testing.T) {
	tests := []struct {
		line, content, term string
	}{
		{"a\r\n", "a", "\r\n"},
		{"a\n", "a", "\n"},
		{"a\r", "a\r", ""},
		{"a", "a", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		content, term := SplitTerminator(tt.line)
		assert.Equal(t, tt.content, content, "content of %q", tt.line)
		assert.Equal(t, tt.term, term, "terminator of %q", tt.line)
	}
}
