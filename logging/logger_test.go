package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLevel("warn"))
	assert.Equal(t, LogLevelError, ParseLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLevel("info"))
	assert.Equal(t, LogLevelInfo, ParseLevel("banana"))
}

func TestLogLevel_Leveler(t *testing.T) {
	var _ slog.Leveler = LogLevelInfo

	assert.Equal(t, slog.LevelDebug, LogLevelDebug.Level())
	assert.Equal(t, slog.LevelError, LogLevelError.Level())
}

func newBufferLogger(level LogLevel, format string) (*PromptDeskLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(&LoggerConfig{Level: level, Format: format, Output: &buf}), &buf
}

func TestPromptDeskLogger_KeyValueArgs(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelDebug, "text")

	logger.Info("retention sweeper started", "ttl", "30m0s", "interval", "1m0s")

	out := buf.String()
	assert.Contains(t, out, "msg=\"retention sweeper started\"")
	assert.Contains(t, out, "ttl=30m0s")
	assert.Contains(t, out, "interval=1m0s")
	assert.NotContains(t, out, "EXTRA", "key/value args must not be treated as format args")
}

func TestPromptDeskLogger_ContextAttrs(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelInfo, "json")
	logger = logger.WithComponent("sweeper").WithSession("s1").WithContext("region", "eu")

	logger.Info("sweep done", "removed", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sweep done", entry["msg"])
	assert.Equal(t, "sweeper", entry["component"])
	assert.Equal(t, "s1", entry["session_id"])
	assert.Equal(t, "eu", entry["region"])
	assert.Equal(t, float64(3), entry["removed"])
}

func TestPromptDeskLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelWarn, "text")

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("visible warning")
	logger.Error("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible warning")
	assert.Contains(t, out, "visible error")
}

func TestPromptDeskLogger_ErrorWithStack(t *testing.T) {
	logger, buf := newBufferLogger(LogLevelError, "json")

	logger.ErrorWithStack(fmt.Errorf("boom"), "operation failed", "key", "k1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "operation failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "k1", entry["key"])
	assert.NotEmpty(t, entry["stack_trace"])
}
