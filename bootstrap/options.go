package bootstrap

import (
	"time"

	"github.com/kbukum/callanalyzer/logger"
)

// Option overrides an App setting that would otherwise come from config.
type Option func(*settings)

type settings struct {
	log   *logger.Logger
	grace time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{grace: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger replaces the logger built from the Logging section. The global
// logger is left untouched.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds how long shutdown may take. Non-positive
// values keep the default.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.grace = d
		}
	}
}
