package adapter

import (
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/filterline/internal/model"
)

func TestLocalSourceFSAdapter_OpenReadsFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "notes.txt")
	writeTestFile(t, path, "apple\nbanana\n")

	rc, err := adapter.Open(m.Path(path))
	require.NoError(t, err)

	defer func() { _ = rc.Close() }()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "apple\nbanana\n", string(got))
}

func TestLocalSourceFSAdapter_OpenMissingFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	_, err := adapter.Open(m.Path(filepath.Join(t.TempDir(), "missing.txt")))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocalSourceFSAdapter_CreateExclusive(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "out.txt")

	w, err := adapter.CreateExclusive(m.Path(path))
	require.NoError(t, err)
	_, err = io.WriteString(w, "first\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	t.Run("refuses to reuse an existing path", func(t *testing.T) {
		_, err := adapter.CreateExclusive(m.Path(path))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrExist)
		assert.Equal(t, "first\n", readFile(t, path))
	})
}

func TestLocalSourceFSAdapter_MoveRenames(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	src := filepath.Join(root, "a.txt")
	dstDir := filepath.Join(root, "dest")
	mustMkdir(t, dstDir)
	dst := filepath.Join(dstDir, "a.txt")
	writeTestFile(t, src, "payload")

	require.NoError(t, adapter.Move(m.Path(src), m.Path(dst)))

	assert.NoFileExists(t, src)
	assert.Equal(t, "payload", readFile(t, dst))
}

func TestLocalSourceFSAdapter_MoveCopiesAcrossDevices(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/tmp/a.txt", []byte("payload"), 0o644))
	require.NoError(t, base.MkdirAll("/data", 0o755))

	adapter := NewSourceFSAdapter(crossDeviceFs{Fs: base}, "/tmp")

	require.NoError(t, adapter.Move("/tmp/a.txt", "/data/a.txt"))

	exists, err := afero.Exists(base, "/tmp/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := afero.ReadFile(base, "/data/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestLocalSourceFSAdapter_MoveFailsWithoutCopyOnOtherErrors(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	src := filepath.Join(root, "a.txt")
	writeTestFile(t, src, "payload")

	err := adapter.Move(m.Path(src), m.Path(filepath.Join(root, "missing-dir", "a.txt")))
	require.Error(t, err)

	assert.FileExists(t, src, "source must survive a failed move")
}

func TestLocalSourceFSAdapter_RemoveAndFileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "gone.txt")
	writeTestFile(t, path, "x")

	info, err := adapter.FileInfo(m.Path(path))
	require.NoError(t, err)
	assert.EqualValues(t, 1, info.Size())

	require.NoError(t, adapter.Remove(m.Path(path)))
	assert.NoFileExists(t, path)
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewSourceFSAdapter(afero.NewMemMapFs(), "/scratch")

	assert.Equal(t, m.Path("/scratch"), adapter.TempDir())
	assert.Equal(t, m.Path(filepath.Join("a", "b", "c.txt")), adapter.JoinPath("a", "b", "c.txt"))
	assert.Equal(t, m.Path(os.TempDir()), NewLocalSourceFSAdapter().TempDir())
}

// crossDeviceFs fails every rename the way the kernel does across mounts.
type crossDeviceFs struct {
	afero.Fs
}

func (c crossDeviceFs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EXDEV}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}

	return string(data)
}
