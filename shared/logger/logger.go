package logger

import (
	"io"
	"os"
	"time"

	"sporti/config"
	"sporti/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger starts with a human-readable console writer; SetLogLevel may swap it
// for JSON once the environment is known.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies the configured level and, outside development, switches
// to JSON lines tagged with the service name so the collector can index them.
func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)

	if config.Server.Env == constant.ServerEnvProduction {
		Structured(os.Stdout, config.App.Name)
	}
}

// Structured replaces the global logger with a JSON writer to w.
func Structured(w io.Writer, service string) {
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", service).Logger()
}
