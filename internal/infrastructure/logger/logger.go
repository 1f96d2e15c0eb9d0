package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultService tags lines from the API server.
const DefaultService = "gowallet"

// Config holds logger configuration.
type Config struct {
	Level  string // trace, debug, info, warn, error
	Format string // json, console

	// Service is stamped on every line; defaults to DefaultService.
	Service string

	// Output defaults to os.Stdout.
	Output io.Writer
}

// New builds the process logger. Unknown levels fall back to info.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if strings.EqualFold(cfg.Format, "console") {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	service := cfg.Service
	if service == "" {
		service = DefaultService
	}

	return zerolog.New(output).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}
