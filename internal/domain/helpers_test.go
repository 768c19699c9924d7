package domain

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/filterline/internal/adapter"
	m "github.com/mouse-blink/filterline/internal/model"
)

const testTempDir = "/tmp"

func newMemAdapter() (afero.Fs, *adapter.LocalSourceFSAdapter) {
	fs := afero.NewMemMapFs()
	return fs, adapter.NewSourceFSAdapter(fs, testTempDir)
}

func writeMemFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func readMemFile(t *testing.T, fs afero.Fs, path m.Path) string {
	t.Helper()

	data, err := afero.ReadFile(fs, string(path))
	require.NoError(t, err)

	return string(data)
}

func tempFiles(t *testing.T, fs afero.Fs) []string {
	t.Helper()

	entries, err := afero.ReadDir(fs, testTempDir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names
}

// fakeEditor records buffers and opened files.
type fakeEditor struct {
	mu          sync.Mutex
	buffers     []*fakeBuffer
	opened      []m.Path
	createErr   error
	disposeAt   int
	openFileErr error
}

func (e *fakeEditor) CreateBuffer(_ context.Context) (adapter.Buffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.createErr != nil {
		return nil, e.createErr
	}

	b := &fakeBuffer{live: true, disposeAt: e.disposeAt}
	e.buffers = append(e.buffers, b)

	return b, nil
}

func (e *fakeEditor) OpenFile(_ context.Context, path m.Path) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opened = append(e.opened, path)

	return e.openFileErr
}

// fakeBuffer goes dead after disposeAt appends when disposeAt is positive.
type fakeBuffer struct {
	chunks    []string
	live      bool
	closed    bool
	disposeAt int
}

func (b *fakeBuffer) Append(_ context.Context, text string) error {
	if !b.live {
		return adapter.ErrBufferDisposed
	}

	b.chunks = append(b.chunks, text)
	if b.disposeAt > 0 && len(b.chunks) >= b.disposeAt {
		b.live = false
	}

	return nil
}

func (b *fakeBuffer) Live() bool { return b.live }

func (b *fakeBuffer) Close() error {
	b.closed = true
	return nil
}

func (b *fakeBuffer) text() string {
	return strings.Join(b.chunks, "")
}

// errAfterReader returns data, then fails.
type errAfterReader struct {
	data string
	err  error
	done bool
}

func (r *errAfterReader) Read(p []byte) (int, error) {
	if r.done || r.data == "" {
		return 0, r.err
	}

	r.done = true

	return copy(p, r.data), nil
}

var errBoom = errors.New("boom")
