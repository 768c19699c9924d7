package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/filterline/internal/model"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or manage remembered patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listHistory(cmd)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List remembered patterns, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return listHistory(cmd)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget every remembered pattern",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := workflow.ClearHistory(); err != nil {
					return err
				}

				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "History cleared")

				return nil
			},
		},
		&cobra.Command{
			Use:   "pick FILE...",
			Short: "Choose a remembered pattern and filter FILEs with it",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return pickAndFilter(cmd, args)
			},
		},
	)

	return cmd
}

func listHistory(cmd *cobra.Command) error {
	entries, err := workflow.History()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No patterns in history")
		return nil
	}

	writeHistory(cmd.OutOrStdout(), entries)

	return nil
}

func writeHistory(w io.Writer, entries []m.HistoryEntry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Polarity", "Pattern", "Case", "Last Used"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, e := range entries {
		usedAt := ""
		if !e.UsedAt.IsZero() {
			usedAt = e.UsedAt.Local().Format("2006-01-02 15:04")
		}

		caseMode := "exact"
		if e.IgnoreCase {
			caseMode = "ignore"
		}

		table.Append([]string{string(e.Polarity), e.Value, caseMode, usedAt})
	}

	table.Render()
}

func pickAndFilter(cmd *cobra.Command, paths []string) error {
	for _, p := range paths {
		if p == stdinArg {
			return errors.New(`history pick reads the terminal; stdin ("-") cannot be filtered`)
		}
	}

	if !isTTY(cmd.InOrStdin()) {
		return errors.New("history pick needs an interactive terminal")
	}

	entries, err := workflow.History()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return errors.New("no patterns in history")
	}

	entry, ok, err := pickHistory(entries, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if !ok {
		return nil
	}

	return runFilter(cmd, m.Pattern{
		Polarity:   entry.Polarity,
		Value:      entry.Value,
		IgnoreCase: entry.IgnoreCase || ignoreCaseFlag,
	}, paths)
}
