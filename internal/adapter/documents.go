package adapter

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	m "github.com/mouse-blink/filterline/internal/model"
)

// UntitledScheme prefixes handles of documents with no disk path.
const UntitledScheme = "untitled:"

// ErrDocumentConsumed is returned when a streamed document is read twice.
var ErrDocumentConsumed = errors.New("document stream already consumed")

// Document is a snapshot of a live in-memory document.
type Document struct {
	Handle m.DocumentHandle
	// Path is empty for untitled documents.
	Path    m.Path
	Dirty   bool
	content string
	stream  *oneShot
}

// Reader streams the document content as of the snapshot. A document opened
// from a stream hands out that stream once; later readers fail with
// ErrDocumentConsumed.
func (d Document) Reader() io.Reader {
	if d.stream != nil {
		return d.stream.take()
	}

	return strings.NewReader(d.content)
}

// oneShot hands its reader to the first caller only.
type oneShot struct {
	mu sync.Mutex
	r  io.Reader
}

func (o *oneShot) take() io.Reader {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.r == nil {
		return consumedReader{}
	}

	r := o.r
	o.r = nil

	return r
}

type consumedReader struct{}

func (consumedReader) Read([]byte) (int, error) {
	return 0, ErrDocumentConsumed
}

// Source returns the filter source describing this document.
func (d Document) Source() m.Source {
	return m.DocumentSource(d.Handle, d.Path, d.Dirty)
}

// DocumentStore resolves live documents by handle or by disk path.
type DocumentStore interface {
	Lookup(handle m.DocumentHandle) (Document, bool)
	FindByPath(path m.Path) (Document, bool)
}

// Workspace is an in-memory DocumentStore. It is safe for concurrent use.
type Workspace struct {
	mu       sync.RWMutex
	docs     map[m.DocumentHandle]Document
	untitled int
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{docs: make(map[m.DocumentHandle]Document)}
}

// Open registers a clean document backed by path with the given content.
func (w *Workspace) Open(path m.Path, content string) Document {
	abs := absPath(path)
	doc := Document{Handle: m.DocumentHandle("file:" + string(abs)), Path: abs, content: content}

	w.mu.Lock()
	w.docs[doc.Handle] = doc
	w.mu.Unlock()

	return doc
}

// OpenUntitled registers a document with no disk path whose content is
// streamed from r when the document is first read. Nothing is read here. An
// empty name gets the next "Untitled-N".
func (w *Workspace) OpenUntitled(name string, r io.Reader) Document {
	w.mu.Lock()
	defer w.mu.Unlock()

	if name == "" {
		w.untitled++
		name = fmt.Sprintf("Untitled-%d", w.untitled)
	}

	doc := Document{Handle: m.DocumentHandle(UntitledScheme + name), Dirty: true, stream: &oneShot{r: r}}
	w.docs[doc.Handle] = doc

	return doc
}

// Edit replaces the content of a document and marks it dirty.
func (w *Workspace) Edit(handle m.DocumentHandle, content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.docs[handle]
	if !ok {
		return fmt.Errorf("document %s is not open", handle)
	}

	doc.content = content
	doc.stream = nil
	doc.Dirty = true
	w.docs[handle] = doc

	return nil
}

// MarkSaved clears the dirty flag of a document.
func (w *Workspace) MarkSaved(handle m.DocumentHandle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if doc, ok := w.docs[handle]; ok && doc.Path != "" {
		doc.Dirty = false
		w.docs[handle] = doc
	}
}

// Close forgets a document.
func (w *Workspace) Close(handle m.DocumentHandle) {
	w.mu.Lock()
	delete(w.docs, handle)
	w.mu.Unlock()
}

// Lookup returns the document registered under handle.
func (w *Workspace) Lookup(handle m.DocumentHandle) (Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	doc, ok := w.docs[handle]

	return doc, ok
}

// FindByPath returns the document backed by path, if one is open.
func (w *Workspace) FindByPath(path m.Path) (Document, bool) {
	if path == "" {
		return Document{}, false
	}

	abs := absPath(path)

	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, doc := range w.docs {
		if doc.Path == abs {
			return doc, true
		}
	}

	return Document{}, false
}

func absPath(path m.Path) m.Path {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return m.Path(filepath.Clean(string(path)))
	}

	return m.Path(abs)
}
