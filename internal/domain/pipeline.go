package domain

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mouse-blink/filterline/internal/adapter"
	"github.com/mouse-blink/filterline/internal/logging"
	m "github.com/mouse-blink/filterline/internal/model"
)

// OutputMarker separates the source name from the timestamp in temp output
// names: <base>.filterline-<epoch-millis><ext>.
const OutputMarker = ".filterline-"

// Pipeline filters one source into a fresh temp file.
type Pipeline interface {
	Run(ctx context.Context, src m.Source, pred m.Predicate) (m.FilterRun, error)
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*pipeline)

// WithClock overrides the time source used for temp output names.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *pipeline) {
		p.now = now
	}
}

// WithChunkSize overrides the read and write buffer size.
func WithChunkSize(size int) PipelineOption {
	return func(p *pipeline) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

type pipeline struct {
	fsAdapter adapter.SourceFSAdapter
	reader    SourceReader
	logger    *logging.Logger
	now       func() time.Time
	chunkSize int
}

// NewPipeline constructs a Pipeline reading through reader and writing temp
// outputs through fsAdapter.
func NewPipeline(fsAdapter adapter.SourceFSAdapter, reader SourceReader, logger *logging.Logger, opts ...PipelineOption) Pipeline {
	p := &pipeline{
		fsAdapter: fsAdapter,
		reader:    reader,
		logger:    logger,
		now:       time.Now,
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run streams src through the predicate into a new temp file. On any failure
// the partial temp file is removed and no run is returned.
func (p *pipeline) Run(ctx context.Context, src m.Source, pred m.Predicate) (m.FilterRun, error) {
	filter, err := NewLineFilter(pred)
	if err != nil {
		return m.FilterRun{}, err
	}

	run := m.FilterRun{
		ID:        uuid.NewString(),
		Source:    src,
		Predicate: pred,
	}
	run.TempOutputPath = p.fsAdapter.JoinPath(string(p.fsAdapter.TempDir()), TempOutputName(src, stamps.next(p.now())))

	logger := p.logger.WithRun(run.ID, src.Name())

	in, err := p.reader.Open(ctx, src)
	if err != nil {
		return m.FilterRun{}, err
	}

	defer func() { _ = in.Close() }()

	out, err := p.fsAdapter.CreateExclusive(run.TempOutputPath)
	if err != nil {
		return m.FilterRun{}, fmt.Errorf("%w: create %s: %w", ErrPipelineIO, run.TempOutputPath, err)
	}

	err = p.copyLines(ctx, in, out, filter, &run)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: close %s: %w", ErrPipelineIO, run.TempOutputPath, closeErr)
	}

	if err != nil {
		p.discard(logger, run.TempOutputPath)
		return m.FilterRun{}, err
	}

	logger.Debug("temp output complete", map[string]any{
		"temp":       string(run.TempOutputPath),
		"bytes":      run.ByteCount,
		"lines_read": run.LinesRead,
		"lines_kept": run.LinesKept,
	})

	return run, nil
}

// copyLines pulls one chunk at a time and writes kept lines before reading
// further, so the source is never read ahead of the output.
func (p *pipeline) copyLines(ctx context.Context, in io.Reader, out io.Writer, filter *LineFilter, run *m.FilterRun) error {
	bw := bufio.NewWriterSize(out, p.chunkSize)

	for line, err := range SplitLines(ReadChunks(ctx, in, p.chunkSize)) {
		if err != nil {
			return fmt.Errorf("%w: read: %w", ErrPipelineIO, err)
		}

		run.LinesRead++

		kept, ok := filter.Apply(line)
		if !ok {
			continue
		}

		n, err := bw.WriteString(kept)
		run.ByteCount += int64(n)

		if err != nil {
			return fmt.Errorf("%w: write: %w", ErrPipelineIO, err)
		}

		run.LinesKept++
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrPipelineIO, err)
	}

	return nil
}

// discard removes a partially written temp file, logging if that fails.
func (p *pipeline) discard(logger *logging.Logger, tmp m.Path) {
	if err := p.fsAdapter.Remove(tmp); err != nil {
		logger.Warn("failed to remove partial temp output", map[string]any{
			"temp":  string(tmp),
			"error": err.Error(),
		})
	}
}

// TempOutputName derives the temp output file name for src. Disk sources use
// their base name without extension; other sources use the raw last segment
// of their handle. The extension is kept, defaulting to ".txt" for sources
// that are not plain files.
func TempOutputName(src m.Source, stamp int64) string {
	var base, ext string

	if diskPath, ok := src.DiskPath(); ok {
		file := filepath.Base(string(diskPath))
		ext = filepath.Ext(file)
		base = strings.TrimSuffix(file, ext)
	} else {
		base = src.Handle.Segment()
		ext = path.Ext(base)
	}

	if ext == "" && !src.IsPlainFile() {
		ext = ".txt"
	}

	return base + OutputMarker + strconv.FormatInt(stamp, 10) + ext
}

// stampSource hands out strictly increasing millisecond stamps so runs
// started in the same millisecond never share a temp name.
type stampSource struct {
	mu   sync.Mutex
	last int64
}

var stamps = &stampSource{}

func (s *stampSource) next(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}

	s.last = ms

	return ms
}
