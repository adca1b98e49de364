package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Level        string `split_words:"true"`
	Service      string `split_words:"true" default:"promo-agent"`
}

var DefaultConfig = &Config{
	Service: "promo-agent",
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// Init replaces the global zerolog logger.
func Init(opts ...Config) {
	conf := safe(opts...)
	log.Logger = New(os.Stdout, *conf)
}

func New(out io.Writer, conf Config) zerolog.Logger {
	if conf.PrettyFormat {
		out = zerolog.ConsoleWriter{Out: out}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if conf.Service != "" {
		ctx = ctx.Str("service", conf.Service)
	}
	logger := ctx.Logger().Level(resolveLevel(conf))
	if logger.GetLevel() <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger.With().Stack().Logger()
}

func resolveLevel(conf Config) zerolog.Level {
	if lvl := strings.TrimSpace(conf.Level); lvl != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(lvl)); err == nil {
			return parsed
		}
	}
	if conf.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
