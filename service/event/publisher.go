package event

import (
	"context"

	"github.com/viant/scheduler/service/messaging"
)

// Publisher writes events to a queue.
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

// NewPublisher creates a publisher over queue.
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// TryPublish enqueues event without blocking; a full queue yields messaging.ErrFull.
func (p *Publisher[T]) TryPublish(event *Event[T]) error {
	return p.queue.TryPublish(event)
}

// Consume returns the next queued event message. The caller must Ack or Nack it.
func (p *Publisher[T]) Consume(ctx context.Context) (messaging.Message[Event[T]], error) {
	return p.queue.Consume(ctx)
}

// Pending returns the number of queued events.
func (p *Publisher[T]) Pending() int {
	return p.queue.Size()
}

// DeadLetters returns the number of events whose delivery was given up.
func (p *Publisher[T]) DeadLetters() int {
	return p.queue.DLQSize()
}
