package logx

import (
	"os"

	"github.com/Chative-restaurant-poc/server/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment  string `envconfig:"ENVIRONMENT" default:"development"`
	Debug        bool   `envconfig:"LOG_DEBUG" default:"false"`
	PrettyFormat bool   `envconfig:"LOG_PRETTY_FORMAT" default:"true"`
}

var DefaultConfig = &Config{
	Environment:  core.Development.String(),
	Debug:        true,
	PrettyFormat: true,
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

func Init(opts ...Config) {
	conf := safe(opts...)
	env := core.ParseEnvironment(conf.Environment)

	if conf.PrettyFormat && !env.IsProduction() {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	if conf.Debug || env == core.Development {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
