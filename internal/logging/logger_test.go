package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	logger, err := NewLogger(Config{Component: "api", Level: "DEBUG"})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(Config{})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = NewLogger(Config{Level: "loud"})
	require.Error(t, err)
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Component: "invite-tracker", Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	logger.Warn("ensure schema", zap.String("bot_prefix", "ABCD"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "WARN", entry["severity"])
	require.Equal(t, "ensure schema", entry["message"])
	require.Equal(t, "invite-tracker", entry["component"])
	require.Equal(t, "ABCD", entry["bot_prefix"])
	require.Contains(t, entry, "timestamp")
	require.Contains(t, entry, "caller")
}

func TestNewLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Format: FormatConsole, Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	logger.Info("server started", zap.String("addr", ":8080"))
	require.NoError(t, logger.Sync())

	line := buf.String()
	require.Contains(t, line, "server started")
	require.Contains(t, line, `{"addr": ":8080"}`)
	require.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNewLoggerUnknownFormat(t *testing.T) {
	_, err := NewLogger(Config{Format: "xml"})
	require.ErrorContains(t, err, "unknown log format")
}
