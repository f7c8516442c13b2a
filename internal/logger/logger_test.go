package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn and returns everything it wrote to stdout
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(out)
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		silenced []string
	}{
		{
			level:    LevelDebug,
			expected: []string{"debug msg", "info msg", "warn msg", "error msg"},
		},
		{
			level:    LevelInfo,
			expected: []string{"info msg", "warn msg", "error msg"},
			silenced: []string{"debug msg"},
		},
		{
			level:    LevelError,
			expected: []string{"error msg"},
			silenced: []string{"debug msg", "info msg", "warn msg"},
		},
		{
			// Unknown levels fall back to info
			level:    "whatever",
			expected: []string{"info msg"},
			silenced: []string{"debug msg"},
		},
	}

	for _, tc := range tests {
		t.Run("level "+tc.level, func(t *testing.T) {
			out := captureStdout(t, func() {
				l := NewLogger(tc.level)
				l.Debug("debug msg")
				l.Info("info msg")
				l.Warn("warn msg")
				l.Error("error msg")
			})

			for _, msg := range tc.expected {
				assert.Contains(t, out, msg)
			}
			for _, msg := range tc.silenced {
				assert.NotContains(t, out, msg)
			}
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	out := captureStdout(t, func() {
		l := NewJSONLogger(LevelInfo)
		l.Info("something happened", "key", "value", "count", 2)
	})

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &record), "output should be one json record: %s", out)

	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "something happened", record["msg"])
	assert.Equal(t, "value", record["key"])
	assert.EqualValues(t, 2, record["count"])
}

func TestLogger_SourceIsCaller(t *testing.T) {
	out := captureStdout(t, func() {
		NewJSONLogger(LevelInfo).Info("check the source")
	})

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &record))

	source, ok := record["source"].(map[string]any)
	require.True(t, ok, "record should carry a source attr: %s", out)
	assert.Equal(t, "logger_test.go", source["file"], "source should point at the caller, not the wrapper")
}

func TestLogger_With(t *testing.T) {
	out := captureStdout(t, func() {
		l := NewJSONLogger(LevelInfo).With("request_id", "abc123")
		l.Info("handled")
	})

	assert.Contains(t, out, "abc123")
}

func TestNew(t *testing.T) {
	t.Run("dev environment", func(t *testing.T) {
		out := captureStdout(t, func() {
			l, err := New(EnvDevelopment, LevelInfo)
			require.NoError(t, err)
			l.Info("text please")
		})

		assert.Contains(t, out, "text please")
		assert.False(t, strings.HasPrefix(out, "{"), "dev logger should not write json")
	})

	t.Run("prod environment", func(t *testing.T) {
		out := captureStdout(t, func() {
			l, err := New(EnvProduction, LevelInfo)
			require.NoError(t, err)
			l.Info("json please")
		})

		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &record), "prod logger should write json: %s", out)
	})

	t.Run("unknown environment", func(t *testing.T) {
		_, err := New("staging", LevelInfo)

		require.Error(t, err)
		require.ErrorContains(t, err, "staging")
	})
}

func TestNoOpLogger(t *testing.T) {
	out := captureStdout(t, func() {
		l := NewNoOpLogger()
		l.Error("should go nowhere")
	})

	assert.Empty(t, out)
}

func TestParseLevelString(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevelString("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevelString("WARN"), "should not be case sensitive")
	assert.Equal(t, slog.LevelInfo, parseLevelString(""), "empty level should default to info")
}
