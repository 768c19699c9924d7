package adapter

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/filterline/internal/model"
)

func TestWorkspace_OpenAndFindByPath(t *testing.T) {
	ws := NewWorkspace()
	path := filepath.Join(t.TempDir(), "notes.txt")

	doc := ws.Open(m.Path(path), "apple\n")
	assert.False(t, doc.Dirty)
	assert.Equal(t, m.Path(path), doc.Path)

	found, ok := ws.FindByPath(m.Path(path))
	require.True(t, ok)
	assert.Equal(t, doc.Handle, found.Handle)

	_, ok = ws.FindByPath("")
	assert.False(t, ok)
}

func TestWorkspace_EditMarksDirty(t *testing.T) {
	ws := NewWorkspace()
	doc := ws.Open(m.Path(filepath.Join(t.TempDir(), "a.txt")), "old\n")

	require.NoError(t, ws.Edit(doc.Handle, "new\n"))

	got, ok := ws.Lookup(doc.Handle)
	require.True(t, ok)
	assert.True(t, got.Dirty)
	assert.Equal(t, "new\n", readAll(t, got.Reader()))
	assert.Equal(t, "new\n", readAll(t, got.Reader()), "edited content can be read again")

	ws.MarkSaved(doc.Handle)

	got, _ = ws.Lookup(doc.Handle)
	assert.False(t, got.Dirty)

	assert.Error(t, ws.Edit("file:/nope", "x"))
}

func TestWorkspace_OpenUntitled(t *testing.T) {
	ws := NewWorkspace()

	first := ws.OpenUntitled("", strings.NewReader("one\n"))
	second := ws.OpenUntitled("", strings.NewReader("two\n"))
	named := ws.OpenUntitled("stdin", strings.NewReader("three\n"))

	assert.Equal(t, m.DocumentHandle("untitled:Untitled-1"), first.Handle)
	assert.Equal(t, m.DocumentHandle("untitled:Untitled-2"), second.Handle)
	assert.Equal(t, m.DocumentHandle("untitled:stdin"), named.Handle)
	assert.Empty(t, named.Path)

	src := named.Source()
	assert.Equal(t, m.SourceLiveDocument, src.Kind)
	_, hasDisk := src.DiskPath()
	assert.False(t, hasDisk)

	ws.MarkSaved(named.Handle)
	got, _ := ws.Lookup(named.Handle)
	assert.True(t, got.Dirty, "untitled documents stay dirty")

	ws.Close(named.Handle)
	_, ok := ws.Lookup(named.Handle)
	assert.False(t, ok)
}

func TestWorkspace_OpenUntitledStreamsOnce(t *testing.T) {
	ws := NewWorkspace()
	src := &countingReader{r: strings.NewReader("alpha\nbeta\n")}

	doc := ws.OpenUntitled("", src)
	assert.Zero(t, src.reads, "opening must not read the stream")

	looked, ok := ws.Lookup(doc.Handle)
	require.True(t, ok)
	assert.Equal(t, "alpha\nbeta\n", readAll(t, looked.Reader()))
	assert.Positive(t, src.reads)

	_, err := io.ReadAll(doc.Reader())
	require.ErrorIs(t, err, ErrDocumentConsumed)
}

func TestWorkspace_OpenUntitledReadErrorSurfacesOnRead(t *testing.T) {
	ws := NewWorkspace()

	doc := ws.OpenUntitled("broken", failingReader{})

	_, err := io.ReadAll(doc.Reader())
	require.Error(t, err)
}

func TestWorkspace_EditReplacesStream(t *testing.T) {
	ws := NewWorkspace()
	doc := ws.OpenUntitled("", failingReader{})

	require.NoError(t, ws.Edit(doc.Handle, "typed\n"))

	got, _ := ws.Lookup(doc.Handle)
	assert.Equal(t, "typed\n", readAll(t, got.Reader()))
}

type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(data)
}
