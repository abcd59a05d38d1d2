// Package logging configures the zerolog logger used across thisismy.
// Diagnostics go to stderr; stdout is left to command output.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rcliao/thisismy/internal/config"
)

// Setup sets the global level and output and returns the configured
// logger. A nil w writes to stderr. An unknown level falls back to info.
func Setup(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return log.Logger
}

// Verbose lowers the global level to debug.
func Verbose() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}
