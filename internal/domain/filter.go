package domain

import (
	"fmt"
	"regexp"
	"strings"

	m "github.com/mouse-blink/filterline/internal/model"
)

// NewPredicate resolves a user pattern into a predicate. Negated polarities
// are folded in here, so the returned predicate is true exactly for the lines
// to keep. Malformed patterns fail with ErrInvalidPredicate.
func NewPredicate(p m.Pattern) (m.Predicate, error) {
	if !p.Polarity.Valid() {
		return nil, fmt.Errorf("%w: unknown polarity %q", ErrInvalidPredicate, p.Polarity)
	}

	if p.Value == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPredicate)
	}

	var match m.Predicate

	if p.Polarity.IsRegexp() {
		expr := p.Value
		if p.IgnoreCase {
			expr = "(?i)" + expr
		}

		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPredicate, err)
		}

		match = re.MatchString
	} else if p.IgnoreCase {
		needle := strings.ToLower(p.Value)
		match = func(line string) bool {
			return strings.Contains(strings.ToLower(line), needle)
		}
	} else {
		needle := p.Value
		match = func(line string) bool {
			return strings.Contains(line, needle)
		}
	}

	if p.Polarity.IsNegated() {
		return func(line string) bool { return !match(line) }, nil
	}

	return match, nil
}

// LineFilter keeps the lines its predicate accepts.
type LineFilter struct {
	keep m.Predicate
}

// NewLineFilter wraps pred. A nil predicate is rejected up front.
func NewLineFilter(pred m.Predicate) (*LineFilter, error) {
	if pred == nil {
		return nil, fmt.Errorf("%w: nil predicate", ErrInvalidPredicate)
	}

	return &LineFilter{keep: pred}, nil
}

// Apply evaluates the predicate on the line content and returns the line,
// terminator included, when it is kept.
func (f *LineFilter) Apply(line string) (string, bool) {
	content, _ := SplitTerminator(line)
	if !f.keep(content) {
		return "", false
	}

	return line, true
}

// SplitTerminator separates a line from its terminator. "\r\n" counts as a
// single terminator; a lone "\r" is content.
func SplitTerminator(line string) (string, string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}

	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}

	return line, ""
}
