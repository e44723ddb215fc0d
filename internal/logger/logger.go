package logger

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New reads LOG_LEVEL (debug, info, warn, ...) and falls back to info. The
// logger is built before config, so .env is loaded here as well.
func New() zerolog.Logger {
	_ = godotenv.Load()

	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return WithLevel(level)
}

func WithLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", "mkworld-overlay").
		Caller().
		Logger()
}

var Module = fx.Provide(New)
