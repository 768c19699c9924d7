package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/filterline/internal/domain"
	m "github.com/mouse-blink/filterline/internal/model"
)

const stdinArg = "-"

var errNoInput = errors.New("no input: pass FILE arguments or pipe text on stdin")

type filterCommand struct {
	use      string
	polarity m.Polarity
	short    string
}

var filterCommands = []filterCommand{
	{"contains", m.PolarityContains, "Keep lines containing PATTERN"},
	{"not-contains", m.PolarityNotContains, "Keep lines not containing PATTERN"},
	{"match", m.PolarityMatches, "Keep lines matching the regular expression PATTERN"},
	{"not-match", m.PolarityNotMatches, "Keep lines not matching the regular expression PATTERN"},
}

func newFilterCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(filterCommands))
	for _, fc := range filterCommands {
		cmds = append(cmds, newFilterCmd(fc))
	}

	return cmds
}

func newFilterCmd(fc filterCommand) *cobra.Command {
	return &cobra.Command{
		Use:   fc.use + " PATTERN [FILE|-]...",
		Short: fc.short,
		Long: fc.short + `.

Without FILE arguments, or with "-", text is read from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, m.Pattern{
				Polarity:   fc.polarity,
				Value:      args[0],
				IgnoreCase: ignoreCaseFlag,
			}, args[1:])
		},
	}
}

func runFilter(cmd *cobra.Command, pattern m.Pattern, paths []string) error {
	if parallelFlag < 1 {
		return fmt.Errorf("--parallel must be at least 1, got %d", parallelFlag)
	}

	sources, err := resolveSources(cmd, paths)
	if err != nil {
		return err
	}

	err = workflow.Filter(cmd.Context(), domain.FilterArgs{
		Pattern:  pattern,
		Sources:  sources,
		Parallel: parallelFlag,
		Settings: domain.PlacementSettings{SaveAfterFiltering: cfg.SaveAfterFiltering},
		Quiet:    quietFlag,
	})
	if err != nil {
		return reportedError{err: err}
	}

	return nil
}

// resolveSources turns FILE arguments into sources. Stdin becomes an untitled
// document and may be named once.
func resolveSources(cmd *cobra.Command, paths []string) ([]m.Source, error) {
	if len(paths) == 0 {
		paths = []string{stdinArg}
	}

	sources := make([]m.Source, 0, len(paths))
	stdinUsed := false

	for _, p := range paths {
		if p != stdinArg {
			sources = append(sources, m.FileSource(m.Path(p)))
			continue
		}

		if stdinUsed {
			return nil, errors.New(`stdin ("-") can only be read once`)
		}

		stdinUsed = true

		in := cmd.InOrStdin()
		if isTTY(in) {
			return nil, errNoInput
		}

		sources = append(sources, workspace.OpenUntitled("", in).Source())
	}

	return sources, nil
}
