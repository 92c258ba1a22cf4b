package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	info, err := New(false)
	require.NoError(t, err)
	assert.False(t, info.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, info.Core().Enabled(zapcore.InfoLevel))

	debug, err := New(true)
	require.NoError(t, err)
	assert.True(t, debug.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_WritesToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syncpush.log")

	log, err := newWithOutput(false, path)
	require.NoError(t, err)
	log.Info("fetching remote")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fetching remote")
}

func TestNewWithFile_WritesJSONWithRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "syncpush.log")

	log, closer, err := NewWithFile(false, path)
	require.NoError(t, err)
	log.Debug("hidden at info level")
	log.Info("pushing", zap.String("remote", "origin"))
	_ = log.Sync()
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "pushing", record["msg"])
	assert.Equal(t, "origin", record["remote"])
	assert.NotEmpty(t, record["run_id"])
}
