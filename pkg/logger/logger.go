package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init builds the service logger and installs it as the global zerolog logger.
// Development output is human readable, everything else is JSON.
func Init(serviceName string, isDevelopment bool, level string) zerolog.Logger {
	return InitWithWriter(os.Stdout, serviceName, isDevelopment, level)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(out io.Writer, serviceName string, isDevelopment bool, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if isDevelopment {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}
	}

	l := zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	log.Logger = l
	return l
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
