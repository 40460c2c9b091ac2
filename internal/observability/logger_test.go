package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChicagoDave/showthr/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	assert.NotNil(t, GetLogger())
}

func TestInitializeJSON(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.Log{Level: "debug", Format: "json"}, zapcore.AddSync(&buf))
	GetLogger().Debug("waypoint reached", zap.Int("line", 12))
	Sync()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "showthr", entry["logger"])
	assert.Equal(t, "waypoint reached", entry["msg"])
	assert.Equal(t, float64(12), entry["line"])
}

func TestInitializeOnlyOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(config.Log{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.Log{Level: "info", Format: "json"}, zapcore.AddSync(&second))
	GetLogger().Info("hello")

	assert.NotZero(t, first.Len())
	assert.Zero(t, second.Len())
}

func TestNewLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.Log{Level: "warn", Format: "console"}, zapcore.AddSync(&buf))
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.Log{Level: "loud", Format: "json"}, zapcore.AddSync(&buf))
	l.Debug("hidden")
	l.Info("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestNewWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showthr.log")
	var console bytes.Buffer
	l := New(config.Log{Level: "info", Format: "console", File: path, MaxSizeMB: 1}, zapcore.AddSync(&console))
	l.Info("rendered", zap.String("output", "sand.png"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"output":"sand.png"`)
}
