package logger

import (
	"github.com/rs/zerolog"

	"github.com/scvsar/incidentharvest/internal/config"
)

// Logger is a built zerolog logger together with the settings it was built from.
type Logger struct {
	zerolog zerolog.Logger
	config  LoggerConfig
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// Config returns the resolved settings.
func (l *Logger) Config() LoggerConfig {
	return l.config
}

// New builds a logger from the log section of the configuration.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewWithRunID(cfg, "")
}

// NewWithRunID builds a logger whose events carry runID. With
// use_run_subdirs set, the log file lands in runs/<runID>/.
func NewWithRunID(cfg config.LogConfig, runID string) (zerolog.Logger, error) {
	logger, err := NewLoggerBuilder().
		WithConfig(cfg).
		WithRunID(runID).
		Build()
	if err != nil {
		return zerolog.Logger{}, err
	}
	return *logger.GetZerolog(), nil
}
