// Package logger_test contains tests for the logger package
package logger_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/studygraph/internal/config"
	"github.com/phrazzld/studygraph/internal/platform/logger"
)

// silenceStdout redirects stdout for the duration of the test.
func silenceStdout(t *testing.T) {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = orig
		_ = w.Close()
		_, _ = io.Copy(io.Discard, r)
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	})
}

// TestSetup is a basic test that ensures the Setup function works without errors
func TestSetup(t *testing.T) {
	silenceStdout(t)

	l, err := logger.Setup(config.ServerConfig{LogLevel: "info", Port: 8080})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Same(t, l, slog.Default())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"DEBUG", slog.LevelDebug, true},
		{"Info", slog.LevelInfo, true},
		{"invalid_level", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tc := range testCases {
		got, ok := logger.ParseLevel(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

// TestNewFiltersByLevel checks that the configured level filters output.
func TestNewFiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.New(&buf, "warn")

	l.Info("info test message")
	l.Warn("warn test message")
	l.Error("error test message")

	out := buf.String()
	assert.NotContains(t, out, "info test message")
	assert.Contains(t, out, "warn test message")
	assert.Contains(t, out, "error test message")
	assert.True(t, strings.HasPrefix(out, "{"), "output should be JSON")
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	stored, storedBuf := logger.GetTestLogger(t)
	fallback, fallbackBuf := logger.GetTestLogger(t)

	ctx := logger.WithLogger(context.Background(), stored)
	logger.FromContextOrDefault(ctx, fallback).Info("to stored")
	logger.AssertLogContains(t, storedBuf, "to stored")
	assert.Empty(t, fallbackBuf.String())

	ctx = logger.WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", logger.RequestID(ctx))
	logger.FromContextOrDefault(ctx, fallback).Info("to fallback")
	logger.AssertLogField(t, fallbackBuf, "request_id", "req-42")

	assert.NotNil(t, logger.FromContext(context.Background()))
	assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
	assert.Equal(t, "", logger.RequestID(context.Background()))
}
