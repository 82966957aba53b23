package parallel

import (
	"context"
	"reflect"

	"github.com/ygrebnov/errorc"
)

// Stage applies a transform to every item of an input stream with bounded concurrency.
// A Stage is an immutable definition: every Run gets its own scheduler state, so one
// Stage may serve several independent runs at the same time.
type Stage[T, R any] struct {
	config    *config
	transform Transform[T, R]
}

// New creates a Stage from transform and functional options.
// A nil transform passes items through unchanged; this requires T and R to be the same type.
func New[T, R any](transform Transform[T, R], opts ...Option) (*Stage[T, R], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	if transform == nil {
		id, err := identityFor[T, R]()
		if err != nil {
			return nil, err
		}
		transform = id
	}

	return &Stage[T, R]{config: &cfg, transform: transform}, nil
}

func identityFor[T, R any]() (Transform[T, R], error) {
	if reflect.TypeFor[T]() != reflect.TypeFor[R]() {
		return nil, errorc.With(
			ErrInvalidConfig,
			errorc.String("transform", "nil transform requires identical input and output types"),
		)
	}
	return func(_ context.Context, v T) (R, error) {
		r, _ := any(v).(R) // nil interface values fall back to the zero R, which is also nil
		return r, nil
	}, nil
}

// Run starts processing items received from in and returns the results and errors channels.
//
// Semantics:
//   - Items are read from in only while fewer than MaxConcurrency transforms are running;
//     otherwise the run stops receiving until capacity frees up (back-pressure).
//   - Closing in signals end of input. Once every admitted item completed, the flush hook
//     runs and the run ends.
//   - Results are emitted in completion order, or in input order WithOrdered.
//   - The first transform error, flush error or ctx cancellation ends the run. That error is
//     the only value ever sent on the errors channel. Later completions are discarded and
//     flush is not called.
//   - Both channels are closed when the run ends, after every started transform returned.
//
// The caller must drain the results channel (or cancel ctx); an unread results channel blocks the run.
func (s *Stage[T, R]) Run(ctx context.Context, in <-chan T) (<-chan R, <-chan error) {
	r := newRun(ctx, s, in)
	go r.loop()
	return r.out, r.errs
}

// MaxConcurrency returns the configured cap on in-flight transforms.
func (s *Stage[T, R]) MaxConcurrency() int { return int(s.config.MaxConcurrency) }

// Ordered reports whether the stage preserves input order.
func (s *Stage[T, R]) Ordered() bool { return s.config.Ordered }
