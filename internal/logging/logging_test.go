package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "info", Format: FormatJSON}, &buf)

	logger.Info().Str("key", "value").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "value", entry["key"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriterConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "debug", Format: FormatConsole}, &buf)

	logger.Debug().Msg("console entry")

	assert.Contains(t, buf.String(), "console entry")
}

func TestNewWithWriterLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "warn", Format: FormatJSON}, &buf)

	logger.Debug().Msg("dropped")
	logger.Info().Msg("dropped too")
	logger.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewWithWriterInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "shouting", Format: FormatJSON}, &buf)

	logger.Debug().Msg("below default")
	logger.Info().Msg("at default")

	assert.NotContains(t, buf.String(), "below default")
	assert.Contains(t, buf.String(), "at default")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photofetch.log")
	result := New(Config{Level: "info", Format: FormatJSON, Output: OutputFile, File: path})

	result.Logger.Info().Msg("to file")
	require.NoError(t, result.Close())

	assert.True(t, result.UsingFile)
	assert.Equal(t, path, result.FilePath)
	assert.False(t, result.FallbackUsed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewFallsBackToStderrOnUnopenableFile(t *testing.T) {
	// A directory path cannot be opened for writing.
	path := t.TempDir()
	result := New(Config{Level: "info", Format: FormatJSON, Output: OutputFile, File: path})

	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.Contains(t, result.FallbackReason, path)
	assert.NoError(t, result.Close())

	// The fallback logger must still be usable.
	result.Logger.Info().Msg("still logging")
}

func TestNewStderrResultHasNoFileHandle(t *testing.T) {
	result := New(Config{Level: "info", Format: FormatJSON, Output: OutputStderr})

	assert.False(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.NoError(t, result.Close())
}

func TestPrintFallbackWarning(t *testing.T) {
	var buf bytes.Buffer
	PrintFallbackWarning(&buf, "could not open log file /var/log/photofetch.log: permission denied")

	assert.Equal(t,
		"Warning: could not open log file /var/log/photofetch.log: permission denied, logging to stderr\n",
		buf.String())
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(Config{Level: "info", Format: FormatJSON}, &buf)
	logger := ComponentLogger(base, "fetch")

	logger.Info().Msg("tagged")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetch", entry["component"])
}

func TestFromContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "info", Format: FormatJSON}, &buf)
	ctx := logger.WithContext(context.Background())

	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("via context")

	assert.Contains(t, buf.String(), "via context")
}

func TestFromContextMissingLoggerIsDisabled(t *testing.T) {
	logger := FromContext(context.Background())

	// Must not panic; the returned logger simply discards events.
	logger.Info().Msg("nowhere")
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}

func TestRunIDContextRoundTrip(t *testing.T) {
	ctx := ContextWithRunID(context.Background(), "01JX0000000000000000000000")

	assert.Equal(t, "01JX0000000000000000000000", RunIDFromContext(ctx))
	assert.Empty(t, RunIDFromContext(context.Background()))
}
