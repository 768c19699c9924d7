package domain

import "errors"

// Fatal run errors. Any of these aborts a run before its output is placed.
var (
	// ErrSourceNotFound means a live document could not be resolved.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceUnreadable means the source file could not be opened.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrInvalidPredicate means the pattern could not be turned into a
	// predicate. It is raised before any stream is opened.
	ErrInvalidPredicate = errors.New("invalid predicate")
	// ErrPipelineIO means a read, write or open failed mid-run.
	ErrPipelineIO = errors.New("pipeline i/o failure")
)

// ErrPlacementMove is logged when moving the output next to its source
// fails. The run still completes with the temp output kept.
var ErrPlacementMove = errors.New("placement move failed")
