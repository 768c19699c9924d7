package domain

import (
	"context"
	"fmt"
	"io"

	"github.com/mouse-blink/filterline/internal/adapter"
	m "github.com/mouse-blink/filterline/internal/model"
)

// SourceReader opens the text of a source as a stream.
type SourceReader interface {
	Open(ctx context.Context, src m.Source) (io.ReadCloser, error)
}

type sourceReader struct {
	fsAdapter adapter.SourceFSAdapter
	documents adapter.DocumentStore
}

// NewSourceReader constructs a SourceReader. documents may be nil when no
// live documents exist.
func NewSourceReader(fsAdapter adapter.SourceFSAdapter, documents adapter.DocumentStore) SourceReader {
	return &sourceReader{fsAdapter: fsAdapter, documents: documents}
}

// Open streams what the user currently sees: a dirty in-memory document wins
// over its file on disk.
func (r *sourceReader) Open(ctx context.Context, src m.Source) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch src.Kind {
	case m.SourceFilePath:
		if doc, ok := r.findByPath(src.Path); ok && doc.Dirty {
			return io.NopCloser(doc.Reader()), nil
		}

		return r.openDisk(src.Path)

	case m.SourceLiveDocument:
		doc, ok := r.lookup(src.Handle)
		if !ok {
			return nil, fmt.Errorf("%w: document %s is not open", ErrSourceNotFound, src.Handle)
		}

		if doc.Path != "" && !doc.Dirty {
			return r.openDisk(doc.Path)
		}

		return io.NopCloser(doc.Reader()), nil

	default:
		return nil, fmt.Errorf("%w: unsupported source kind %s", ErrSourceNotFound, src.Kind)
	}
}

func (r *sourceReader) openDisk(path m.Path) (io.ReadCloser, error) {
	rc, err := r.fsAdapter.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	return rc, nil
}

func (r *sourceReader) findByPath(path m.Path) (adapter.Document, bool) {
	if r.documents == nil {
		return adapter.Document{}, false
	}

	return r.documents.FindByPath(path)
}

func (r *sourceReader) lookup(handle m.DocumentHandle) (adapter.Document, bool) {
	if r.documents == nil {
		return adapter.Document{}, false
	}

	return r.documents.Lookup(handle)
}
