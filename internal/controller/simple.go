package controller

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/filterline/internal/model"
)

// SimpleUI implements UI with plain text on the command's error stream.
type SimpleUI struct {
	mu     sync.Mutex
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start applies the options.
func (s *SimpleUI) Start(options ...StartOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, opt := range options {
		opt(&s.config)
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {}

// Info prints an informational line unless the UI is quiet.
func (s *SimpleUI) Info(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.quiet {
		return
	}

	s.printf("%s\n", message)
}

// Warn prints a warning line.
func (s *SimpleUI) Warn(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("warning: %s\n", message)
}

// Error prints an error line.
func (s *SimpleUI) Error(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("error: %v\n", err)
}

// DisplayResult reports the outcome of one run.
func (s *SimpleUI) DisplayResult(result m.RunResult) {
	info, warning, err := resultMessages(result)
	if err != nil {
		s.Error(err)
		return
	}

	if warning != "" {
		s.Warn(warning)
	}

	s.Info(info)
}

// DisplaySummary prints a table of all runs when more than one source was
// filtered.
func (s *SimpleUI) DisplaySummary(results []m.RunResult) {
	if len(results) < 2 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.printf("\n%s", renderSummary(results, s.config.pattern, resultLabel))
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}

// renderSummary builds the run summary table. label renders the result
// column so styled UIs can color it.
func renderSummary(results []m.RunResult, pattern *m.Pattern, label func(m.RunResult) string) string {
	var tableBuffer bytes.Buffer

	writeSummary(&tableBuffer, results, label)

	if pattern != nil {
		tableBuffer.WriteString("Filter: " + describePattern(*pattern) + "\n")
	}

	return tableBuffer.String()
}

func writeSummary(w io.Writer, results []m.RunResult, label func(m.RunResult) string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Source", "Read", "Kept", "Bytes", "Result"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	var read, kept, failed int

	var bytesOut int64

	for _, r := range results {
		table.Append([]string{
			r.Source.Name(),
			strconv.Itoa(r.LinesRead),
			strconv.Itoa(r.LinesKept),
			strconv.FormatInt(r.Bytes, 10),
			label(r),
		})

		read += r.LinesRead
		kept += r.LinesKept
		bytesOut += r.Bytes

		if r.Status == m.StatusFailed {
			failed++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Sources %d", len(results)),
		strconv.Itoa(read),
		strconv.Itoa(kept),
		strconv.FormatInt(bytesOut, 10),
		fmt.Sprintf("%d failed", failed),
	})

	table.Render()
}
