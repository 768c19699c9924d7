// Package model defines the data structures shared by the filter pipeline.
package model

import (
	"path"
	"strings"
)

// Path represents a file system path.
type Path string

// DocumentHandle identifies a live in-memory document, e.g. "untitled:Untitled-1".
type DocumentHandle string

// SourceKind tells which variant of Source is active.
type SourceKind int

const (
	// SourceFilePath is a text file read from disk.
	SourceFilePath SourceKind = iota
	// SourceLiveDocument is an in-memory document that may have no disk
	// counterpart, or a stale one.
	SourceLiveDocument
)

func (k SourceKind) String() string {
	switch k {
	case SourceFilePath:
		return "file"
	case SourceLiveDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Source is the text being filtered. Exactly one kind is active per run.
type Source struct {
	Kind SourceKind
	// Path is the on-disk location. Always set for SourceFilePath; optional
	// for SourceLiveDocument (empty for untitled buffers).
	Path Path
	// Handle is set for SourceLiveDocument only.
	Handle DocumentHandle
	// Dirty reports unsaved edits in the live document.
	Dirty bool
}

// FileSource builds a SourceFilePath source.
func FileSource(p Path) Source {
	return Source{Kind: SourceFilePath, Path: p}
}

// DocumentSource builds a SourceLiveDocument source. diskPath may be empty.
func DocumentSource(handle DocumentHandle, diskPath Path, dirty bool) Source {
	return Source{Kind: SourceLiveDocument, Handle: handle, Path: diskPath, Dirty: dirty}
}

// DiskPath returns the backing file path, if any.
func (s Source) DiskPath() (Path, bool) {
	if s.Path == "" {
		return "", false
	}

	return s.Path, true
}

// IsPlainFile reports whether the source is a file read straight from disk.
func (s Source) IsPlainFile() bool {
	return s.Kind == SourceFilePath
}

// Name returns a human readable label for logs and summaries.
func (s Source) Name() string {
	if s.Path != "" {
		return string(s.Path)
	}

	return string(s.Handle)
}

// Segment returns the last path segment of the handle, without any scheme:
// "untitled:notes/Untitled-1" yields "Untitled-1".
func (h DocumentHandle) Segment() string {
	raw := string(h)
	if i := strings.Index(raw, ":"); i >= 0 {
		raw = raw[i+1:]
	}

	return path.Base(raw)
}
