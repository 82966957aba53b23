package parallel

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/parallel/metrics"
)

// DefaultMaxConcurrency is the cap on in-flight transforms when WithMaxConcurrency is not given.
const DefaultMaxConcurrency = 16

// config holds Stage configuration.
type config struct {
	// MaxConcurrency caps the number of transforms running at the same time.
	// It is fixed for the lifetime of a Stage.
	// Default: 16.
	MaxConcurrency uint

	// Ordered selects the order-preserving emission policy: results leave the stage
	// in the order their items arrived. Otherwise results are emitted as they complete.
	// Default: false.
	Ordered bool

	// Flush runs once per run, after input is exhausted and every admitted item completed.
	// Default: no-op.
	Flush FlushFunc

	// OutputBufferSize defines the size of the results channel buffer.
	// Default: 0 (unbuffered).
	OutputBufferSize uint

	// ErrorTagging wraps transform errors with the input index of the failing item.
	// Default: false.
	ErrorTagging bool

	// Name identifies the stage in log events and metric attributes.
	// Default: "parallel".
	Name string

	Logger  zerolog.Logger
	Metrics metrics.Provider
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		MaxConcurrency:   DefaultMaxConcurrency,
		Ordered:          false,
		Flush:            nil, // treated as no-op
		OutputBufferSize: 0,
		ErrorTagging:     false,
		Name:             Namespace,
		Logger:           zerolog.Nop(),
		Metrics:          metrics.NewNoopProvider(),
	}
}

// validateConfig checks invariants options cannot enforce on their own,
// e.g. a zero cap assembled without going through WithMaxConcurrency.
func validateConfig(cfg *config) error {
	if cfg.MaxConcurrency == 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("MaxConcurrency", "must be > 0"))
	}
	if cfg.Metrics == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("Metrics", "provider must not be nil"))
	}
	return nil
}

// Option configures a Stage. Invalid input is reported as an error wrapping ErrInvalidConfig.
type Option func(*config) error

// WithMaxConcurrency sets the maximum number of transforms in flight (must be > 0, default 16).
func WithMaxConcurrency(n uint) Option {
	return func(cfg *config) error {
		if n == 0 {
			return errorc.With(
				ErrInvalidConfig,
				errorc.String("WithMaxConcurrency", "requires n > 0, got "+strconv.FormatUint(uint64(n), 10)),
			)
		}
		cfg.MaxConcurrency = n
		return nil
	}
}

// WithOrdered makes the stage emit results in input arrival order.
// Completed results wait for every earlier item, which may reduce throughput.
func WithOrdered() Option {
	return func(cfg *config) error { cfg.Ordered = true; return nil }
}

// WithFlush sets the hook run once after input is exhausted and all items completed.
func WithFlush(fn FlushFunc) Option {
	return func(cfg *config) error {
		if fn == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("WithFlush", "flush function must not be nil"))
		}
		cfg.Flush = fn
		return nil
	}
}

// WithOutputBuffer sets the size of the results channel buffer (default 0).
func WithOutputBuffer(size uint) Option {
	return func(cfg *config) error { cfg.OutputBufferSize = size; return nil }
}

// WithErrorTagging wraps transform errors with the failing item's input index.
func WithErrorTagging() Option {
	return func(cfg *config) error { cfg.ErrorTagging = true; return nil }
}

// WithName sets the stage name used in logs.
func WithName(name string) Option {
	return func(cfg *config) error {
		if name == "" {
			return errorc.With(ErrInvalidConfig, errorc.String("WithName", "name must not be empty"))
		}
		cfg.Name = name
		return nil
	}
}

// WithLogger sets the logger used for run events. The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *config) error { cfg.Logger = l; return nil }
}

// WithMetrics sets the metrics provider used to record run instruments.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("WithMetrics", "provider must not be nil"))
		}
		cfg.Metrics = p
		return nil
	}
}
