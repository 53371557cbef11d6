package logger

import (
	"github.com/rs/zerolog"

	"github.com/scvsar/incidentharvest/internal/config"
)

// LogFormat selects how events are rendered.
type LogFormat string

const (
	FormatJSON    LogFormat = "json"
	FormatConsole LogFormat = "console"
	FormatText    LogFormat = "text"
)

// LoggerConfig is the resolved form of config.LogConfig.
type LoggerConfig struct {
	Level         zerolog.Level
	Format        LogFormat
	EnableConsole bool
	EnableFile    bool
	FilePath      string
	MaxSizeMB     int
	MaxBackups    int
	RunID         string
	UseSubdirs    bool
}

// DefaultLoggerConfig resolves the default log section.
func DefaultLoggerConfig() LoggerConfig {
	return ConvertConfig(config.NewDefaultLogConfig())
}

// ConvertConfig resolves cfg. Invalid levels fall back to info and
// non-positive rotation limits to their defaults.
func ConvertConfig(cfg config.LogConfig) LoggerConfig {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return LoggerConfig{
		Level:         level,
		Format:        ParseFormat(cfg.LogFormat),
		EnableConsole: true,
		EnableFile:    cfg.LogFile != "",
		FilePath:      cfg.LogFile,
		MaxSizeMB:     positiveOr(cfg.MaxLogSizeMB, config.DefaultMaxLogSizeMB),
		MaxBackups:    positiveOr(cfg.MaxLogBackups, config.DefaultMaxLogBackups),
		UseSubdirs:    cfg.UseRunSubdirs,
	}
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
