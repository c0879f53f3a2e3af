package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"trace", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"invalid", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("sessionkit")

	assert.Equal(t, "sessionkit", cfg.ServiceName)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestNewLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{ServiceName: "extract", Level: "debug", Format: "json", Output: &buf})

	logger.WithField("run_id", "abc").Info("records split", Fields{"count": 3})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "records split", entries[0]["message"])
	assert.Equal(t, "extract", entries[0]["logger"])
	assert.Equal(t, "abc", entries[0]["run_id"])
	assert.EqualValues(t, 3, entries[0]["count"])
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "warn", Format: "json", Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown", Fields{"err": errors.New("boom")})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["message"])
	assert.Equal(t, "boom", entries[0]["err"])
	assert.False(t, logger.Enabled(LevelInfo))

	logger.SetLevel(LevelDebug)
	assert.True(t, logger.Enabled(LevelDebug))
}

func TestLogger_MergesFieldSets(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Format: "json", Output: &buf})

	logger.Info("merged", Fields{"a": 1}, Fields{"b": 2})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1, entries[0]["a"])
	assert.EqualValues(t, 2, entries[0]["b"])
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Info("discarded", Fields{"k": "v"})
	assert.NoError(t, logger.WithField("x", 1).Sync())
}

func TestKV(t *testing.T) {
	assert.Nil(t, KV())

	fields := KV("key1", "value1", "key2", 42)
	assert.Equal(t, "value1", fields["key1"])
	assert.Equal(t, 42, fields["key2"])

	assert.Empty(t, KV(123, "value"))
	assert.Len(t, KV("a", 1, "orphan"), 1)
}
