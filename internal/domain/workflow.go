package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/filterline/internal/adapter"
	"github.com/mouse-blink/filterline/internal/controller"
	"github.com/mouse-blink/filterline/internal/logging"
	m "github.com/mouse-blink/filterline/internal/model"
)

// FilterArgs describes one filter command.
type FilterArgs struct {
	Pattern  m.Pattern
	Sources  []m.Source
	Parallel int
	Settings PlacementSettings
	Quiet    bool
}

// Workflow runs filter commands and manages pattern history.
type Workflow interface {
	Filter(ctx context.Context, args FilterArgs) error
	History() ([]m.HistoryEntry, error)
	ClearHistory() error
}

type workflow struct {
	pipeline Pipeline
	placer   Placer
	history  adapter.HistoryStore
	ui       controller.UI
	logger   *logging.Logger
	now      func() time.Time
}

// NewWorkflow creates a new Workflow. history may be nil, in which case
// patterns are not remembered.
func NewWorkflow(
	pipeline Pipeline,
	placer Placer,
	history adapter.HistoryStore,
	ui controller.UI,
	logger *logging.Logger,
) Workflow {
	return &workflow{
		pipeline: pipeline,
		placer:   placer,
		history:  history,
		ui:       ui,
		logger:   logger,
		now:      time.Now,
	}
}

// Filter resolves the predicate once, then filters every source with at most
// args.Parallel runs in flight. A failed source does not stop the others; the
// returned error joins every failure.
func (w *workflow) Filter(ctx context.Context, args FilterArgs) error {
	startOpts := []controller.StartOption{controller.WithPattern(args.Pattern)}
	if args.Quiet {
		startOpts = append(startOpts, controller.WithQuiet())
	}

	if err := w.ui.Start(startOpts...); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}
	defer w.ui.Close()

	pred, err := NewPredicate(args.Pattern)
	if err != nil {
		w.ui.Error(err)
		return err
	}

	w.remember(args.Pattern)

	if len(args.Sources) == 0 {
		return nil
	}

	parallel := args.Parallel
	if parallel <= 0 {
		parallel = 1
	}

	results := make([]m.RunResult, len(args.Sources))

	var g errgroup.Group
	g.SetLimit(parallel)

	for i, src := range args.Sources {
		g.Go(func() error {
			results[i] = w.runOne(ctx, src, pred, args.Settings)
			w.ui.DisplayResult(results[i])

			return nil
		})
	}

	_ = g.Wait()

	w.ui.DisplaySummary(results)

	var errs []error

	for _, r := range results {
		if r.Status == m.StatusFailed {
			errs = append(errs, fmt.Errorf("%s: %w", r.Source.Name(), r.Err))
		}
	}

	return errors.Join(errs...)
}

func (w *workflow) runOne(ctx context.Context, src m.Source, pred m.Predicate, settings PlacementSettings) m.RunResult {
	result := m.RunResult{Source: src}

	run, err := w.pipeline.Run(ctx, src, pred)
	if err != nil {
		w.logger.Info("filter run failed", map[string]any{"source": src.Name(), "error": err.Error()})

		result.Status = m.StatusFailed
		result.Err = err

		return result
	}

	result.LinesRead = run.LinesRead
	result.LinesKept = run.LinesKept
	result.Bytes = run.ByteCount
	result.Placement = w.placer.Place(ctx, run, settings)

	result.Status = m.StatusDone
	if result.Placement.Warning != "" {
		result.Status = m.StatusDoneWithWarning
	}

	return result
}

// remember records the pattern in history. Failures are logged only.
func (w *workflow) remember(p m.Pattern) {
	if w.history == nil {
		return
	}

	entry := m.HistoryEntry{Polarity: p.Polarity, Value: p.Value, IgnoreCase: p.IgnoreCase, UsedAt: w.now()}
	if err := w.history.Add(entry); err != nil {
		w.logger.Warn("failed to record pattern history", map[string]any{"error": err.Error()})
	}
}

// History returns remembered patterns, newest first.
func (w *workflow) History() ([]m.HistoryEntry, error) {
	if w.history == nil {
		return []m.HistoryEntry{}, nil
	}

	return w.history.Load()
}

// ClearHistory forgets every remembered pattern.
func (w *workflow) ClearHistory() error {
	if w.history == nil {
		return nil
	}

	return w.history.Clear()
}
