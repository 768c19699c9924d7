// Package controller presents filter outcomes to the user.
package controller

import (
	"fmt"

	m "github.com/mouse-blink/filterline/internal/model"
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	quiet   bool
	pattern *m.Pattern
}

// WithQuiet suppresses informational messages. Warnings and errors are
// always shown.
func WithQuiet() StartOption {
	return func(c *StartConfig) {
		c.quiet = true
	}
}

// WithPattern sets the pattern shown in the run summary.
func WithPattern(p m.Pattern) StartOption {
	return func(c *StartConfig) {
		c.pattern = &p
	}
}

// UI is the notification sink for filter runs. Implementations must be safe
// for concurrent use: results arrive from parallel runs.
type UI interface {
	Start(options ...StartOption) error
	Close()
	Info(message string)
	Warn(message string)
	Error(err error)
	DisplayResult(result m.RunResult)
	DisplaySummary(results []m.RunResult)
}

// describePattern renders a pattern for humans, e.g. `lines that contain "an"`.
func describePattern(p m.Pattern) string {
	verb := map[m.Polarity]string{
		m.PolarityContains:    "contain",
		m.PolarityNotContains: "do not contain",
		m.PolarityMatches:     "match",
		m.PolarityNotMatches:  "do not match",
	}[p.Polarity]

	if verb == "" {
		verb = string(p.Polarity)
	}

	suffix := ""
	if p.IgnoreCase {
		suffix = " (ignoring case)"
	}

	return fmt.Sprintf("lines that %s %q%s", verb, p.Value, suffix)
}

// resultMessages turns one run result into the notifications it produces.
func resultMessages(r m.RunResult) (info, warning string, err error) {
	name := r.Source.Name()

	switch {
	case r.Status == m.StatusFailed:
		return "", "", fmt.Errorf("%s: %w", name, r.Err)
	case r.Placement.Partial:
		info = fmt.Sprintf("%s: editor closed before all output was shown; full result kept at %s",
			name, r.Placement.Location)
	case r.Placement.Decision == m.MoveAdjacentToSource:
		info = fmt.Sprintf("%s: kept %d of %d lines, saved to %s", name, r.LinesKept, r.LinesRead, r.Placement.Location)
	default:
		info = fmt.Sprintf("%s: kept %d of %d lines", name, r.LinesKept, r.LinesRead)
	}

	if r.Placement.Warning != "" {
		warning = fmt.Sprintf("%s: %s", name, r.Placement.Warning)
	}

	return info, warning, nil
}

func resultLabel(r m.RunResult) string {
	switch {
	case r.Status == m.StatusFailed:
		return "failed"
	case r.Placement.Partial:
		return "partial"
	default:
		return r.Placement.Decision.String()
	}
}
