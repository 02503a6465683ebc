package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePushPopOrder(t *testing.T) {
	q := NewQueue[int](4)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.TryPush(i))
	}
	assert.Equal(t, 3, q.Len())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		v, err := q.Pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

func TestQueueFullDrops(t *testing.T) {
	q := NewQueue[int](1)
	require.NoError(t, q.TryPush(1))
	assert.ErrorIs(t, q.TryPush(2), ErrQueueFull)
	assert.ErrorIs(t, q.TryPush(3), ErrQueueFull)
	assert.Equal(t, uint64(2), q.Dropped())
}

func TestQueueCloseDrainsThenFails(t *testing.T) {
	q := NewQueue[string](2)
	require.NoError(t, q.TryPush("a"))
	q.Close()
	q.Close()

	assert.ErrorIs(t, q.TryPush("b"), ErrQueueClosed)

	v, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	_, err = q.Pop(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueuePopContextDone(t *testing.T) {
	q := NewQueue[int](1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
