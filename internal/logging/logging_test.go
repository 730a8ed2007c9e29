package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery/internal/config"
	"gallery/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(config.LogConfig{Level: "info", Format: "json"}, &buf)

	l.Info("gallerySync.Upload: upload successful", "id", "x1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gallerySync.Upload: upload successful", entry["msg"])
	assert.Equal(t, "x1", entry["id"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(config.LogConfig{Level: "error", Format: "console"}, &buf)

	l.Info("dropped")
	assert.Empty(t, buf.String())

	l.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}
