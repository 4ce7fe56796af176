package jpegstego

import (
	"log/slog"

	"github.com/mkrautz/jpegstego/config"
	"github.com/mkrautz/jpegstego/internal/logging"
)

// Option adjusts one Encode or Decode call.
type Option func(*options)

type options struct {
	logger *slog.Logger
	cfg    config.Config
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		cfg:    config.Load(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithLogger routes the call's diagnostic events to l instead of
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLogFile routes diagnostic events to a rotating JSON log file at
// path.
func WithLogFile(path string) Option {
	return func(o *options) {
		o.logger = logging.Logger(logging.Rotating(path), slog.LevelDebug)
	}
}

// WithConfig overrides the environment-derived obfuscation settings for
// this call.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}
