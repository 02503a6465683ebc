package util

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var ErrQueueClosed = errors.New("queue closed")
var ErrQueueFull = errors.New("queue full")

// Queue is a bounded, thread-safe FIFO based on chan.
// 生产者（音频回调线程）不允许阻塞，满了直接丢弃并计数
type Queue[T any] struct {
	mu      sync.RWMutex
	ch      chan T
	closed  bool
	dropped atomic.Uint64
}

// NewQueue creates a new Queue with the given capacity.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue[T]{
		ch: make(chan T, capacity),
	}
}

// TryPush adds an item without blocking. Returns ErrQueueFull when the
// buffer is full and ErrQueueClosed after Close.
func (q *Queue[T]) TryPush(val T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ch <- val:
		return nil
	default:
		q.dropped.Add(1)
		return ErrQueueFull
	}
}

// Pop blocks until an item is available, the queue is closed (ErrQueueClosed
// once drained) or ctx is done (ctx.Err()).
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-q.ch:
		if !ok {
			return zero, ErrQueueClosed
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Len 当前排队的元素数
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Dropped 因队列满被丢弃的元素数
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}

// Close closes the queue permanently. Items already queued can still be popped.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()
}
