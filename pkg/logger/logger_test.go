package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BMMUGOMBA/terminal-pulse/pkg/logger"
)

func TestHandler_AddsContextAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := logger.NewWithWriter(&buf, slog.LevelInfo)

	ctx := logger.SetRequestID(context.Background(), "req-1")
	ctx = logger.SetWorkspace(ctx, "tab-a")
	ctx = logger.SetLogType(ctx, logger.LogTypeSecurity)

	l.With("component", "session").InfoContext(ctx, "Login failed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	require.Equal(t, "req-1", record["request_id"])
	require.Equal(t, "tab-a", record["workspace"])
	require.Equal(t, logger.LogTypeSecurity, record["log_type"])
	require.Equal(t, "session", record["component"])
	require.Equal(t, "terminal-pulse", record["origin_service"])
	require.Contains(t, record, "user_id")
	require.Nil(t, record["user_id"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, logger.ParseLevel("warn"))
	require.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel("verbose"))
}
