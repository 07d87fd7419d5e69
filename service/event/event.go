// Package event carries launch lifecycle notifications from the launcher to
// interested listeners through a messaging queue.
package event

import (
	"time"

	"github.com/viant/scheduler/internal/clock"
)

// Type names a lifecycle transition.
type Type string

const (
	// TypeStarted is published once a child was spawned.
	TypeStarted Type = "started"
	// TypeCompleted is published once a spawned child was reaped.
	TypeCompleted Type = "completed"
	// TypeFailed is published when no child could be spawned.
	TypeFailed Type = "failed"
)

// Context identifies the origin of an event.
type Context struct {
	RunID     string `json:"runID"`
	Handle    int    `json:"handle"`
	EventType Type   `json:"eventType"`
	Service   string `json:"service"`
	Error     string `json:"error,omitempty"`
}

// Event wraps a payload with its context.
type Event[T any] struct {
	Context   *Context  `json:"context"`
	CreatedAt time.Time `json:"createdAt"`
	Data      T         `json:"data"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Data:      data,
	}
}
