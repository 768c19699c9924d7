// Package cmd provides the root command and CLI setup for filterline.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/filterline/internal/adapter"
	"github.com/mouse-blink/filterline/internal/config"
	"github.com/mouse-blink/filterline/internal/controller"
	"github.com/mouse-blink/filterline/internal/domain"
	"github.com/mouse-blink/filterline/internal/logging"
)

var cfg *config.Config
var logger *logging.Logger
var workspace *adapter.Workspace
var workflow domain.Workflow

// isTTY and pickHistory are swapped in tests.
var isTTY = adapter.IsTTY
var pickHistory = controller.PickHistory

func init() {
	workspace = adapter.NewWorkspace()
}

var configFlag string
var saveFlag bool
var ignoreCaseFlag bool
var parallelFlag int
var noPagerFlag bool
var logLevelFlag string
var quietFlag bool
var historyFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filterline",
		Short: "Keep or drop lines by pattern",
		Long: `Filterline streams text files (or stdin) through a line predicate and
shows the lines that pass.

Each source is filtered into a temp file first. The result is then paged,
written to stdout, saved next to the source (--save), or kept in the temp
directory when it is too large to show.

Examples:
  filterline contains ERROR app.log
  filterline not-match '^\s*#' config.ini
  kubectl logs pod | filterline match -i 'timeout|refused'`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", "", "config file (default $XDG_CONFIG_HOME/filterline/config.yaml)")
	flags.BoolVar(&saveFlag, "save", false, "save the result next to the source instead of showing it")
	flags.BoolVarP(&ignoreCaseFlag, "ignore-case", "i", false, "match without regard to case")
	flags.IntVarP(&parallelFlag, "parallel", "p", 1, "number of sources filtered at once")
	flags.BoolVar(&noPagerFlag, "no-pager", false, "write results to stdout even on a terminal")
	flags.StringVar(&logLevelFlag, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "only report warnings and errors")
	flags.StringVar(&historyFlag, "history", "", "pattern history file")

	cmd.AddCommand(newFilterCmds()...)
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

// setup loads configuration and wires the workflow unless one is already set.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configFlag, cmd.Flags())
	if err != nil {
		return err
	}

	cfg = loaded
	logger = logging.New(cfg.Log.Level)

	if workflow == nil {
		workflow = newWorkflow(cmd, cfg, logger)
	}

	return nil
}

func newWorkflow(cmd *cobra.Command, cfg *config.Config, logger *logging.Logger) domain.Workflow {
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	out := cmd.OutOrStdout()

	var pagerOptions []tea.ProgramOption
	if !isTTY(cmd.InOrStdin()) {
		pagerOptions = append(pagerOptions, tea.WithInputTTY())
	}

	editor := adapter.NewEditorHost(out, !noPagerFlag && isTTY(out), pagerOptions...)
	ui := controller.NewUI(cmd, isTTY(cmd.ErrOrStderr()))

	return domain.NewWorkflow(
		domain.NewPipeline(fsAdapter, domain.NewSourceReader(fsAdapter, workspace), logger),
		domain.NewPlacer(fsAdapter, editor, logger),
		adapter.NewHistoryStore(cfg.History.Path, cfg.HistorySize),
		ui,
		logger,
	)
}

// reportedError marks an error the UI already showed to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// A closed stdout must surface as EPIPE on write, which the editor host
	// reports as a disposed buffer, instead of killing the process.
	signal.Ignore(syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	if logger != nil {
		_ = logger.Sync()
	}

	stop()

	if err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		}

		os.Exit(1)
	}
}
