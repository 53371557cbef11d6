package logger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ParseLevel parses a level name, falling back to info on error.
func ParseLevel(levelStr string) (zerolog.Level, error) {
	if levelStr == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}

// ParseFormat parses a format name; unknown names map to console.
func ParseFormat(formatStr string) LogFormat {
	switch f := LogFormat(strings.ToLower(formatStr)); f {
	case FormatJSON, FormatText:
		return f
	default:
		return FormatConsole
	}
}
