package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scvsar/incidentharvest/internal/config"
)

func TestNew_DefaultLogger(t *testing.T) {
	_, err := New(config.NewDefaultLogConfig())
	require.NoError(t, err)
}

func TestBuilder_JSONConsoleIncludesRunID(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewDefaultLogConfig()
	cfg.LogFormat = "json"

	l, err := NewLoggerBuilder().
		WithConfig(cfg).
		WithRunID("run-123").
		WithConsoleOutput(&buf).
		Build()
	require.NoError(t, err)

	l.GetZerolog().Info().Msg("hello")

	assert.Contains(t, buf.String(), `"run_id":"run-123"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
	assert.Equal(t, FormatJSON, l.Config().Format)
	assert.Equal(t, "run-123", l.Config().RunID)
}

func TestConvertConfig_Fallbacks(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogLevel = "verbose"
	cfg.MaxLogSizeMB = 0
	cfg.MaxLogBackups = -1
	cfg.LogFile = "logs/harvest.log"

	resolved := ConvertConfig(cfg)
	assert.Equal(t, zerolog.InfoLevel, resolved.Level)
	assert.Equal(t, config.DefaultMaxLogSizeMB, resolved.MaxSizeMB)
	assert.Equal(t, config.DefaultMaxLogBackups, resolved.MaxBackups)
	assert.True(t, resolved.EnableFile)
}

func TestBuilder_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewDefaultLogConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	l, err := NewLoggerBuilder().WithConfig(cfg).WithConsoleOutput(&buf).Build()
	require.NoError(t, err)

	l.GetZerolog().Info().Msg("dropped")
	l.GetZerolog().Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestBuilder_FileWriterUsesRunSubdir(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = filepath.Join(dir, "harvest.log")
	cfg.LogFormat = "json"
	cfg.UseRunSubdirs = true

	l, err := NewLoggerBuilder().
		WithConfig(cfg).
		WithRunID("abc").
		WithConsoleOutput(&bytes.Buffer{}).
		Build()
	require.NoError(t, err)
	l.GetZerolog().Info().Msg("to file")

	data, err := os.ReadFile(filepath.Join(dir, "runs", "abc", "harvest.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	level, err = ParseLevel("nonsense")
	assert.Error(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatText, ParseFormat("TEXT"))
	assert.Equal(t, FormatConsole, ParseFormat("unknown"))
}
