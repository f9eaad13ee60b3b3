package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/planboard/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, parseLogLevel(in))
		})
	}
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "info", Format: "json"})
	logger.Info("saved", "id", "abc")
	assert.Contains(t, buf.String(), `"msg":"saved"`)

	buf.Reset()
	logger = newLogger(&buf, config.LogConfig{Level: "warn", Format: "text"})
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestLogOutput_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "planboard.log")
	out := logOutput(config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1})

	logger := newLogger(out, config.LogConfig{Level: "debug", Format: "json"})
	logger.Debug("save failed", "correlation_id", "01J")
	require.NoError(t, out.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"correlation_id":"01J"`)
}

func TestLogOutput_DefaultsToStderr(t *testing.T) {
	out := logOutput(config.LogConfig{})
	assert.Equal(t, nopCloser{os.Stderr}, out)
	assert.NoError(t, out.Close())
}
