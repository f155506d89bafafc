package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cacases/internal/config"
)

func resetLogger(t *testing.T) {
	t.Helper()
	previous := slog.Default()
	ResetLoggerForTesting()
	t.Cleanup(func() {
		ResetLoggerForTesting()
		slog.SetDefault(previous)
	})
}

func decodeLines(t *testing.T, data []byte) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestInitializeLoggerFile(t *testing.T) {
	resetLogger(t)

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("test message", "key", "value")
	logger.Debug("hidden")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entries := decodeLines(t, content)
	require.Len(t, entries, 1)
	assert.Equal(t, "test message", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Contains(t, entries[0], "source")
}

func TestInitializeLoggerOnce(t *testing.T) {
	resetLogger(t)

	dir := t.TempDir()
	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: filepath.Join(dir, "a.log")})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: filepath.Join(dir, "b.log")})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NoFileExists(t, filepath.Join(dir, "b.log"))
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug")

	ctx := WithTraceID(context.Background(), "run-123")
	logger.InfoContext(ctx, "with trace")
	logger.With("component", "converter").DebugContext(ctx, "nested")
	logger.Info("without trace")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 3)
	assert.Equal(t, "run-123", entries[0]["trace_id"])
	assert.Equal(t, "run-123", entries[1]["trace_id"])
	assert.Equal(t, "converter", entries[1]["component"])
	assert.NotContains(t, entries[2], "trace_id")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestTraceContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	id := GenerateTraceID()
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, GenerateTraceID())

	ctx = WithTraceID(ctx, id)
	assert.Equal(t, id, GetTraceID(ctx))
}

func TestWithComponentAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	WithError(WithComponent(logger, "exporter"), os.ErrNotExist).Info("failed write")
	WithError(logger, nil).Info("fine")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, "exporter", entries[0]["component"])
	assert.Equal(t, os.ErrNotExist.Error(), entries[0]["error"])
	assert.NotContains(t, entries[1], "error")

	assert.NotNil(t, WithComponent(nil, "anything"))
}
