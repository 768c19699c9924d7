package controller

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/filterline/internal/model"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// TUI implements UI with lipgloss-styled output for terminals.
type TUI struct {
	mu     sync.Mutex
	output io.Writer
	config StartConfig
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start applies the options.
func (t *TUI) Start(options ...StartOption) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, opt := range options {
		opt(&t.config)
	}

	return nil
}

// Close finalizes the UI.
func (t *TUI) Close() {}

// Info prints a faint informational line unless the UI is quiet.
func (t *TUI) Info(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.config.quiet {
		return
	}

	_, _ = fmt.Fprintln(t.output, infoStyle.Render(message))
}

// Warn prints a highlighted warning.
func (t *TUI) Warn(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = fmt.Fprintln(t.output, warnStyle.Render("⚠ "+message))
}

// Error prints a highlighted error.
func (t *TUI) Error(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = fmt.Fprintln(t.output, errorStyle.Render("✗ "+err.Error()))
}

// DisplayResult reports the outcome of one run.
func (t *TUI) DisplayResult(result m.RunResult) {
	info, warning, err := resultMessages(result)
	if err != nil {
		t.Error(err)
		return
	}

	if warning != "" {
		t.Warn(warning)
	}

	t.Info(info)
}

// DisplaySummary prints the run table with a colored result column.
func (t *TUI) DisplaySummary(results []m.RunResult) {
	if len(results) < 2 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = fmt.Fprintf(t.output, "\n%s", renderSummary(results, t.config.pattern, styledLabel))
}

func styledLabel(r m.RunResult) string {
	label := resultLabel(r)

	switch {
	case r.Status == m.StatusFailed:
		return errorStyle.Render(label)
	case r.Status == m.StatusDoneWithWarning || r.Placement.Partial:
		return warnStyle.Render(label)
	default:
		return successStyle.Render(label)
	}
}
