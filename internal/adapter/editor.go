package adapter

import (
	"context"
	"errors"

	m "github.com/mouse-blink/filterline/internal/model"
)

// ErrBufferDisposed is returned by Buffer.Append once the host tore the
// buffer down (pager closed, output pipe gone).
var ErrBufferDisposed = errors.New("editor buffer disposed")

// EditorHost is the surface filtered output is shown on.
type EditorHost interface {
	// CreateBuffer opens a fresh, empty, editable buffer.
	CreateBuffer(ctx context.Context) (Buffer, error)
	// OpenFile shows an existing file for viewing.
	OpenFile(ctx context.Context, path m.Path) error
}

// Buffer is an append-only view of one editor buffer.
type Buffer interface {
	// Append inserts text at the current end of the document.
	Append(ctx context.Context, text string) error
	// Live reports whether the host still accepts insertions.
	Live() bool
	// Close marks the end of the stream. Hosts may block until the user
	// dismisses the buffer.
	Close() error
}
