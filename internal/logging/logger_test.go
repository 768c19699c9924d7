package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("bogus"))
}

func TestLogger_WithRunAddsContext(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, "debug").WithRun("run-1", "notes.txt")
	logger.Info("pipeline complete", map[string]any{"lines_kept": 3})

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "pipeline complete", entry["message"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "notes.txt", entry["source"])

	fields, ok := entry["fields"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, fields["lines_kept"])
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, "warn")
	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	logger.Warn("shown", nil)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("nothing", map[string]any{"a": 1})
	assert.NotNil(t, logger.With(map[string]any{"b": 2}))
}
