package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	m "github.com/mouse-blink/filterline/internal/model"
)

// WriterEditor streams buffers straight into an io.Writer, typically stdout.
// A broken pipe on the writer is reported as the buffer being disposed.
type WriterEditor struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriterEditor creates a WriterEditor writing to out.
func NewWriterEditor(out io.Writer) *WriterEditor {
	return &WriterEditor{out: out}
}

// CreateBuffer returns a buffer appending to the shared writer. Buffers are
// written one at a time so concurrent runs never interleave output.
func (e *WriterEditor) CreateBuffer(ctx context.Context) (Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()

	return &writerBuffer{editor: e, live: true}, nil
}

// OpenFile prints the path of a file that is ready for viewing.
func (e *WriterEditor) OpenFile(_ context.Context, path m.Path) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := fmt.Fprintln(e.out, path)

	return err
}

type writerBuffer struct {
	editor *WriterEditor
	live   bool
	closed bool
}

func (b *writerBuffer) Append(ctx context.Context, text string) error {
	if !b.live {
		return ErrBufferDisposed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := io.WriteString(b.editor.out, text); err != nil {
		if isBrokenPipe(err) {
			b.live = false

			return fmt.Errorf("%w: %w", ErrBufferDisposed, err)
		}

		return err
	}

	return nil
}

func (b *writerBuffer) Live() bool {
	return b.live
}

func (b *writerBuffer) Close() error {
	if b.closed {
		return nil
	}

	b.closed = true
	b.editor.mu.Unlock()

	return nil
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}
