package controller

import (
	"github.com/spf13/cobra"
)

// NewUI creates a UI based on whether TTY mode is enabled.
// When useTTY is true, it returns a TUI (lipgloss styled).
// When useTTY is false, it returns a SimpleUI (plain text).
// Both write to the command's error stream; stdout carries filtered output.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.ErrOrStderr())
	}

	return NewSimpleUI(cmd)
}
