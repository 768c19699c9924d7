// Package adapter contains filesystem, document and editor adapters for the
// filterline CLI.
package adapter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"

	m "github.com/mouse-blink/filterline/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations the domain layer relies
// on while filtering. It hides direct `os` access so pipeline and placement
// logic can be tested against an in-memory or failing filesystem.
type SourceFSAdapter interface {
	// Open opens a file for streaming reads.
	Open(path m.Path) (io.ReadCloser, error)

	// CreateExclusive creates a new file for writing. It fails when the path
	// already exists.
	CreateExclusive(path m.Path) (io.WriteCloser, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Move relocates src to dst. A rename is tried first; across devices the
	// content is copied and src removed.
	Move(src, dst m.Path) error

	// Remove deletes a single file.
	Remove(path m.Path) error

	// TempDir returns the directory temp outputs are written to.
	TempDir() m.Path

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter implements SourceFSAdapter on top of an afero.Fs.
type LocalSourceFSAdapter struct {
	fs      afero.Fs
	tempDir string
}

// NewLocalSourceFSAdapter constructs an adapter over the OS filesystem and
// the OS temp directory.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return NewSourceFSAdapter(afero.NewOsFs(), os.TempDir())
}

// NewSourceFSAdapter constructs an adapter over fs, writing temp outputs to
// tempDir.
func NewSourceFSAdapter(fs afero.Fs, tempDir string) *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{fs: fs, tempDir: tempDir}
}

// Open opens path for reading.
func (a *LocalSourceFSAdapter) Open(path m.Path) (io.ReadCloser, error) {
	return a.fs.Open(string(path))
}

// CreateExclusive creates path, failing if it exists.
func (a *LocalSourceFSAdapter) CreateExclusive(path m.Path) (io.WriteCloser, error) {
	return a.fs.OpenFile(string(path), os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_TRUNC, 0o644)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return a.fs.Stat(string(path))
}

// Move renames src to dst, copying across devices.
func (a *LocalSourceFSAdapter) Move(src, dst m.Path) error {
	err := a.fs.Rename(string(src), string(dst))
	if err == nil {
		return nil
	}

	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := a.copyFile(string(src), string(dst)); err != nil {
		return fmt.Errorf("copy across devices: %w", err)
	}

	return a.fs.Remove(string(src))
}

// Remove deletes path.
func (a *LocalSourceFSAdapter) Remove(path m.Path) error {
	return a.fs.Remove(string(path))
}

// TempDir returns the configured temp directory.
func (a *LocalSourceFSAdapter) TempDir() m.Path {
	return m.Path(a.tempDir)
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// copyFile copies a single file, refusing to overwrite dst.
func (a *LocalSourceFSAdapter) copyFile(src, dst string) error {
	sourceFile, err := a.fs.Open(src)
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	destFile, err := a.fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		_ = a.fs.Remove(dst)

		return err
	}

	if err := destFile.Close(); err != nil {
		_ = a.fs.Remove(dst)

		return err
	}

	return nil
}
