package adapter

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// NewEditorHost creates an EditorHost based on whether the pager is wanted.
// When usePager is true, it returns a PagerEditor (Bubble Tea).
// When usePager is false, it returns a WriterEditor streaming to out.
// options are passed to the pager's Bubble Tea programs.
func NewEditorHost(out io.Writer, usePager bool, options ...tea.ProgramOption) EditorHost {
	if usePager {
		return NewPagerEditor(out, options...)
	}

	return NewWriterEditor(out)
}

// IsTTY checks if the given reader or writer is a terminal.
// Returns false when it is redirected to a file or pipe.
func IsTTY(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
