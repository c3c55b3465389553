package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/postit/internal/config"
)

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Writers: writers(&buf)})
	require.NoError(t, err)
	defer closer.Close()

	NewComponentLogger(logger, "storage").Info("data saved", "tasks", 3, "note", "two words")
	logger.Debug("hidden")

	line := strings.TrimSpace(buf.String())
	assert.Regexp(t, regexp.MustCompile(`^\[INFO\] \d{2}:\d{2}:\d{2} - storage: data saved tasks=3 note="two words"$`), line)
}

func TestConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "warn", Writers: writers(&buf)})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("skipped")
	logger.Warn("careful")
	logger.Error("broken", Error(errors.New("disk full")))

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, `[ERROR]`)
	assert.Contains(t, out, `error="disk full"`)
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Format: "json", Writers: writers(&buf)})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("hello", "id", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "info", rec["level"])
	assert.Contains(t, rec, "ts")
	assert.EqualValues(t, 7, rec["id"])
}

func TestUnsupportedFormat(t *testing.T) {
	_, _, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewFromConfigInteractiveWritesFileOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, closer, err := NewFromConfig(&cfg, true)
	require.NoError(t, err)
	logger.Info("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "started")
	assert.NotContains(t, string(data), "session=", "session is tagged but not printed on the console")
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()
	logger.Error("nothing happens")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func writers(w ...io.Writer) []io.Writer {
	return w
}
