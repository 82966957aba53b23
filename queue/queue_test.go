package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueue_EnqueueDequeue_TableDriven(t *testing.T) {
	tests := []struct {
		name  string
		input []int
	}{
		{name: "empty input", input: []int{}},
		{name: "single value", input: []int{1}},
		{name: "two values", input: []int{1, 2}},
		{name: "many values", input: []int{5, 4, 3, 2, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Queue[int]{}
			for _, v := range tt.input {
				q.Enqueue(v)
			}
			require.Equal(t, len(tt.input), q.Len())

			for i := range tt.input {
				got, ok := q.Dequeue()
				require.True(t, ok)
				require.Equal(t, tt.input[i], got)
			}

			_, ok := q.Dequeue()
			require.False(t, ok, "dequeue on empty queue must report false")
			require.Equal(t, 0, q.Len())
		})
	}
}

func TestQueue_New_InitialValues(t *testing.T) {
	q := New("a", "b", "c")
	require.Equal(t, 3, q.Len())
	require.Equal(t, []string{"a", "b", "c"}, q.Values())
}

func TestQueue_Peek(t *testing.T) {
	q := New[int]()

	_, ok := q.Peek()
	require.False(t, ok)

	q.Enqueue(7)
	q.Enqueue(8)

	v, ok := q.Peek()
	require.True(t, ok)
	require.Equal(t, 7, v)
	require.Equal(t, 2, q.Len(), "peek must not remove the head")

	_, _ = q.Dequeue()
	v, ok = q.Peek()
	require.True(t, ok)
	require.Equal(t, 8, v)
}

func TestQueue_ReuseAfterDrain(t *testing.T) {
	q := New(1)
	_, _ = q.Dequeue()

	// tail must be reset once the queue drains, otherwise this append is lost
	q.Enqueue(2)
	q.Enqueue(3)
	require.Equal(t, []int{2, 3}, q.Values())
}

func TestQueue_All_DoesNotMutate(t *testing.T) {
	q := New(1, 2, 3)

	var seen []int
	for v := range q.All() {
		seen = append(seen, v)
	}
	require.Equal(t, []int{1, 2, 3}, seen)
	require.Equal(t, 3, q.Len())

	// early break
	seen = seen[:0]
	for v := range q.All() {
		seen = append(seen, v)
		if v == 2 {
			break
		}
	}
	require.Equal(t, []int{1, 2}, seen)
}

func TestQueue_Values_EmptyIsNonNil(t *testing.T) {
	var q Queue[int]
	vals := q.Values()
	require.NotNil(t, vals)
	require.Empty(t, vals)
}
