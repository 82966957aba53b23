package parallel

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMap_Ordered(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}
	got, err := Map(context.Background(), items, func(_ context.Context, v int) (int, error) {
		time.Sleep(time.Duration(v) * time.Millisecond)
		return v * v, nil
	}, WithOrdered(), WithMaxConcurrency(3))

	require.NoError(t, err)
	require.Equal(t, []int{25, 1, 16, 4, 9}, got)
}

func TestMap_Unordered(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	got, err := Map(context.Background(), items, TransformValue(func(_ context.Context, v int) int { return -v }))

	require.NoError(t, err)
	sort.Ints(got)
	require.Equal(t, []int{-8, -7, -6, -5, -4, -3, -2, -1}, got)
}

func TestMap_EmptyInputFlushes(t *testing.T) {
	var flushes atomic.Int32
	got, err := Map(context.Background(), nil, Identity[string](), WithFlush(func(context.Context) error {
		flushes.Add(1)
		return nil
	}))

	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
	require.Equal(t, int32(1), flushes.Load())
}

func TestMap_ErrorReturnsPartialResults(t *testing.T) {
	errBoom := errors.New("boom")
	items := []int{0, 1, 2, 3}

	got, err := Map(context.Background(), items, func(_ context.Context, v int) (int, error) {
		if v == 2 {
			return 0, errBoom
		}
		return v, nil
	}, WithOrdered(), WithMaxConcurrency(1))

	require.ErrorIs(t, err, errBoom)
	require.Equal(t, []int{0, 1}, got)
}

func TestMap_InvalidOptions(t *testing.T) {
	got, err := Map(context.Background(), []int{1}, Identity[int](), WithMaxConcurrency(0))
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Nil(t, got)
}

func TestMap_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Map(ctx, []int{1, 2, 3}, func(ctx context.Context, v int) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
}
