package events

import (
	"context"
	"errors"
)

// Queue decouples event producers (HTTP mutation handlers) from the
// fan-out dispatcher. Publish must never block a request for long;
// Consume blocks until an event arrives or ctx is done.
type Queue interface {
	Publish(ctx context.Context, ev Event) error
	Consume(ctx context.Context) (Event, error)
}

var ErrQueueFull = errors.New("event queue is full")

// MemoryQueue is a channel-backed Queue for tests and single-node
// deployments without Redis.
type MemoryQueue struct {
	ch chan Event
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 64
	}
	return &MemoryQueue{ch: make(chan Event, size)}
}

func (q *MemoryQueue) Publish(_ context.Context, ev Event) error {
	select {
	case q.ch <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Consume(ctx context.Context) (Event, error) {
	select {
	case ev := <-q.ch:
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}
