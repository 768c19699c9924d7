package adapter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEditorHost(t *testing.T) {
	var out bytes.Buffer

	assert.IsType(t, &PagerEditor{}, NewEditorHost(&out, true))
	assert.IsType(t, &WriterEditor{}, NewEditorHost(&out, false))
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}), "buffers are never terminals")

	f, err := os.Create(filepath.Join(t.TempDir(), "plain.txt"))
	require.NoError(t, err)

	defer func() { _ = f.Close() }()

	assert.False(t, IsTTY(f), "regular files are not terminals")
}
