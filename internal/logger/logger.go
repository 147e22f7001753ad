// Package logger configures the process-wide zerolog logger.
//
// Logs always go to stderr (or the writer passed to Init); stdout is reserved
// for the stable key: value command output.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bioscout/bioscout-setup/internal/config"
)

// Logger is the configured logger. It discards everything until Init runs.
var Logger = zerolog.Nop()

// Init configures Logger from settings, writing to w.
func Init(settings config.Settings, w io.Writer) error {
	level, err := zerolog.ParseLevel(strings.ToLower(settings.LogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", settings.LogLevel, err)
	}
	// ParseLevel("") yields NoLevel, which would log everything
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	output := w
	if settings.LogFormat == "console" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	Logger = zerolog.New(output).Level(level).With().
		Timestamp().
		Logger()

	Logger.Debug().
		Str("level", level.String()).
		Str("format", settings.LogFormat).
		Msg("logger initialized")

	return nil
}

// Get returns a pointer to the configured logger.
func Get() *zerolog.Logger {
	return &Logger
}
