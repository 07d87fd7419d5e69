package messaging

import (
	"context"
	"errors"
)

// ErrFull is returned by TryPublish when the queue cannot accept a message
// without blocking.
var ErrFull = errors.New("messaging: queue full")

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// TryPublish adds a message only if that does not block.
	TryPublish(t *T) error

	// Consume retrieves a single message from the queue
	Consume(ctx context.Context) (Message[T], error)

	// Size returns the number of messages waiting.
	Size() int

	// DLQSize returns the number of messages that exhausted their retries.
	DLQSize() int
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message; the queue decides
	// whether to redeliver or dead-letter it.
	Nack(err error) error
}
