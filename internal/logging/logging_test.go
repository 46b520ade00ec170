package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitravaani/internal/config"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("generation failed", "query_id", "q1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "generation failed", line["msg"])
	assert.Equal(t, "q1", line["query_id"])
	assert.Equal(t, "WARN", line["level"])
}

func TestTextLoggerDefaults(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, config.LogConfig{})
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("corpus indexed", "records", 2)
	assert.Contains(t, buf.String(), "msg=\"corpus indexed\" records=2")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)

	_, err = NewWithWriter(&bytes.Buffer{}, config.LogConfig{Format: "xml"})
	assert.Error(t, err)
}

func TestNewForUIWithoutFileDiscards(t *testing.T) {
	log, closeLog, err := NewForUI(config.LogConfig{Level: "debug"})
	require.NoError(t, err)
	defer closeLog()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))

	_, _, err = NewForUI(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNewForUIWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chitravaani.log")
	log, closeLog, err := NewForUI(config.LogConfig{Level: "info", Format: "text", File: path})
	require.NoError(t, err)
	log.Info("answered", "citations", 2)
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=answered citations=2")
}
