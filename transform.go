package parallel

import (
	"context"
	"fmt"
)

// Transform is applied to every item admitted by a Stage. It may block; the stage runs
// each call in its own goroutine and counts it against the concurrency cap until it returns.
//
// A transform that never returns stalls the stage: neither admission nor flush can make progress.
// The context is canceled once the stage fails, so well-behaved transforms return early.
type Transform[T, R any] func(context.Context, T) (R, error)

// TransformFunc adapts func(ctx, T) (R, error) to Transform[T, R].
func TransformFunc[T, R any](fn func(context.Context, T) (R, error)) Transform[T, R] {
	return Transform[T, R](fn)
}

// TransformValue adapts a transform that cannot fail.
func TransformValue[T, R any](fn func(context.Context, T) R) Transform[T, R] {
	return func(ctx context.Context, v T) (R, error) { return fn(ctx, v), nil }
}

// Identity passes every item through unchanged.
func Identity[T any]() Transform[T, T] {
	return func(_ context.Context, v T) (T, error) { return v, nil }
}

// FlushFunc finalizes a run. It is called at most once, after input is exhausted and every
// admitted item has completed, and never after a failure.
type FlushFunc func(context.Context) error

// execTransform calls fn and converts a panic into an error wrapping ErrTransformPanicked.
func execTransform[T, R any](ctx context.Context, fn Transform[T, R], v T) (result R, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero R
			result, err = zero, fmt.Errorf("%w: %v", ErrTransformPanicked, p)
		}
	}()
	return fn(ctx, v)
}

// execFlush calls fn, treating nil as a successful no-op.
func execFlush(ctx context.Context, fn FlushFunc) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrFlushPanicked, p)
		}
	}()
	return fn(ctx)
}
