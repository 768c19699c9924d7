package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/mouse-blink/filterline/internal/adapter"
	"github.com/mouse-blink/filterline/internal/logging"
	m "github.com/mouse-blink/filterline/internal/model"
)

// PlacementSettings are the configuration values placement depends on.
type PlacementSettings struct {
	SaveAfterFiltering bool
	// Threshold overrides m.LargeFileThreshold when positive.
	Threshold int64
}

func (s PlacementSettings) threshold() int64 {
	if s.Threshold > 0 {
		return s.Threshold
	}

	return m.LargeFileThreshold
}

// Placer decides where a finished temp output ends up. Placement never fails
// a run: problems degrade to keeping the temp file and reporting a warning.
type Placer interface {
	Place(ctx context.Context, run m.FilterRun, settings PlacementSettings) m.Placement
}

type placer struct {
	fsAdapter adapter.SourceFSAdapter
	editor    adapter.EditorHost
	logger    *logging.Logger
	chunkSize int
}

// NewPlacer constructs a Placer moving files through fsAdapter and streaming
// into buffers created by editor.
func NewPlacer(fsAdapter adapter.SourceFSAdapter, editor adapter.EditorHost, logger *logging.Logger) Placer {
	return &placer{
		fsAdapter: fsAdapter,
		editor:    editor,
		logger:    logger,
		chunkSize: m.EditorChunkSize,
	}
}

func (p *placer) Place(ctx context.Context, run m.FilterRun, settings PlacementSettings) m.Placement {
	logger := p.logger.WithRun(run.ID, run.Source.Name())

	size := run.ByteCount
	if info, err := p.fsAdapter.FileInfo(run.TempOutputPath); err == nil {
		size = info.Size()
	}

	diskPath, hasDiskPath := run.Source.DiskPath()
	decision := m.DecidePlacement(settings.SaveAfterFiltering, hasDiskPath, size, settings.threshold())

	logger.Debug("placing output", map[string]any{
		"decision": decision.String(),
		"bytes":    size,
	})

	switch decision {
	case m.MoveAdjacentToSource:
		return p.moveAdjacent(ctx, logger, run, diskPath)
	case m.StreamIntoEditor:
		return p.streamIntoEditor(ctx, logger, run)
	default:
		if settings.SaveAfterFiltering {
			return keepTemp(run, fmt.Sprintf("%s has no directory to save into; filtered output kept at %s",
				run.Source.Name(), run.TempOutputPath))
		}

		return keepTemp(run, fmt.Sprintf("filtered output is %s, too large to open; kept at %s",
			humanSize(size), run.TempOutputPath))
	}
}

func (p *placer) moveAdjacent(ctx context.Context, logger *logging.Logger, run m.FilterRun, diskPath m.Path) m.Placement {
	dest := p.fsAdapter.JoinPath(filepath.Dir(string(diskPath)), filepath.Base(string(run.TempOutputPath)))

	if moveErr := p.fsAdapter.Move(run.TempOutputPath, dest); moveErr != nil {
		err := fmt.Errorf("%w: %w", ErrPlacementMove, moveErr)
		logger.Info("falling back to temp output", map[string]any{"error": err.Error(), "dest": string(dest)})

		return keepTemp(run, fmt.Sprintf("could not save next to %s (%v); filtered output kept at %s",
			diskPath, moveErr, run.TempOutputPath))
	}

	placement := m.Placement{Decision: m.MoveAdjacentToSource, Location: dest}

	if err := p.editor.OpenFile(ctx, dest); err != nil {
		placement.Warning = fmt.Sprintf("saved %s but could not open it: %v", dest, err)
	}

	return placement
}

// streamIntoEditor copies the temp output into a new buffer in fixed-size
// chunks, checking that the buffer is still live before each one. The temp
// file is deleted only once everything was appended.
func (p *placer) streamIntoEditor(ctx context.Context, logger *logging.Logger, run m.FilterRun) m.Placement {
	buf, err := p.editor.CreateBuffer(ctx)
	if err != nil {
		return keepTemp(run, fmt.Sprintf("could not open an editor buffer (%v); filtered output kept at %s",
			err, run.TempOutputPath))
	}

	defer func() {
		if err := buf.Close(); err != nil {
			logger.Warn("editor buffer closed with error", map[string]any{"error": err.Error()})
		}
	}()

	f, err := p.fsAdapter.Open(run.TempOutputPath)
	if err != nil {
		return keepTemp(run, fmt.Sprintf("could not read filtered output (%v); kept at %s", err, run.TempOutputPath))
	}

	streamErr := p.copyToBuffer(ctx, f, buf)
	_ = f.Close()

	switch {
	case errors.Is(streamErr, adapter.ErrBufferDisposed):
		logger.Info("editor buffer disposed mid-stream", map[string]any{"temp": string(run.TempOutputPath)})

		return m.Placement{Decision: m.StreamIntoEditor, Location: run.TempOutputPath, Partial: true}

	case streamErr != nil:
		return keepTemp(run, fmt.Sprintf("streaming into the editor failed (%v); filtered output kept at %s",
			streamErr, run.TempOutputPath))
	}

	if err := p.fsAdapter.Remove(run.TempOutputPath); err != nil {
		logger.Warn("failed to remove temp output", map[string]any{"error": err.Error()})

		return m.Placement{
			Decision: m.StreamIntoEditor,
			Location: run.TempOutputPath,
			Warning:  fmt.Sprintf("could not delete temp output %s: %v", run.TempOutputPath, err),
		}
	}

	return m.Placement{Decision: m.StreamIntoEditor}
}

func (p *placer) copyToBuffer(ctx context.Context, r io.Reader, buf adapter.Buffer) error {
	chunk := make([]byte, p.chunkSize)

	for {
		if !buf.Live() {
			return adapter.ErrBufferDisposed
		}

		n, err := io.ReadFull(r, chunk)
		if n > 0 {
			if appendErr := buf.Append(ctx, string(chunk[:n])); appendErr != nil {
				return appendErr
			}
		}

		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}

		if err != nil {
			return err
		}
	}
}

func keepTemp(run m.FilterRun, warning string) m.Placement {
	return m.Placement{Decision: m.KeepTemp, Location: run.TempOutputPath, Warning: warning}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
