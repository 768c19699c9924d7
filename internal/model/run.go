package model

// LargeFileThreshold is the output size above which results are never
// streamed into an editor buffer.
const LargeFileThreshold int64 = 30 * 1024 * 1024

// EditorChunkSize is the size of each insertion when streaming into a buffer.
const EditorChunkSize = 100 * 1024

// FilterRun captures one filter invocation. It is owned by a single run.
type FilterRun struct {
	ID             string
	Source         Source
	Predicate      Predicate
	TempOutputPath Path
	ByteCount      int64
	LinesRead      int
	LinesKept      int
}

// PlacementDecision says where the filtered output ends up.
type PlacementDecision int

const (
	// MoveAdjacentToSource moves the temp output next to the source file.
	MoveAdjacentToSource PlacementDecision = iota
	// KeepTemp leaves the output in the temp directory.
	KeepTemp
	// StreamIntoEditor copies the output into a fresh editor buffer.
	StreamIntoEditor
)

func (d PlacementDecision) String() string {
	switch d {
	case MoveAdjacentToSource:
		return "moved"
	case KeepTemp:
		return "kept-temp"
	case StreamIntoEditor:
		return "editor"
	default:
		return "unknown"
	}
}

// DecidePlacement evaluates the placement table in order.
func DecidePlacement(save, hasDiskPath bool, size, threshold int64) PlacementDecision {
	switch {
	case save && hasDiskPath:
		return MoveAdjacentToSource
	case save:
		return KeepTemp
	case size > threshold:
		return KeepTemp
	default:
		return StreamIntoEditor
	}
}

// Placement is the outcome of placing one run's output.
type Placement struct {
	Decision PlacementDecision
	// Location is where the content lives now. Empty when fully streamed
	// into an editor buffer.
	Location Path
	// Warning is set when the run completed with a caveat.
	Warning string
	// Partial is set when the editor buffer was torn down mid-stream.
	Partial bool
}

// RunStatus is the terminal state of one run.
type RunStatus string

const (
	// StatusDone means the run completed without caveats.
	StatusDone RunStatus = "done"
	// StatusDoneWithWarning means the run completed and surfaced a warning.
	StatusDoneWithWarning RunStatus = "warning"
	// StatusFailed means the run aborted before the temp output was complete.
	StatusFailed RunStatus = "failed"
)

// RunResult is reported to the UI for each source.
type RunResult struct {
	Source    Source
	Status    RunStatus
	LinesRead int
	LinesKept int
	Bytes     int64
	Placement Placement
	Err       error
}
