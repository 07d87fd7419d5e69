// Package queue holds the ready queue: an ordered list of registry handles
// owned by the dispatcher.
package queue

import "sort"

// Ready is an ordered sequence of record handles. It is not safe for
// concurrent use; only the dispatcher touches it.
type Ready struct {
	handles []int
}

// NewReady creates an empty queue sized for capacity handles.
func NewReady(capacity int) *Ready {
	if capacity < 0 {
		capacity = 0
	}
	return &Ready{handles: make([]int, 0, capacity)}
}

// Push appends handle at the back.
func (q *Ready) Push(handle int) {
	q.handles = append(q.handles, handle)
}

// Len returns the number of queued handles.
func (q *Ready) Len() int {
	return len(q.handles)
}

// Handles returns a copy of the queue in order.
func (q *Ready) Handles() []int {
	return append([]int(nil), q.handles...)
}

// Sort reorders the whole queue with a stable sort; equal keys keep their
// relative order.
func (q *Ready) Sort(less func(a, b int) bool) {
	sort.SliceStable(q.handles, func(i, j int) bool {
		return less(q.handles[i], q.handles[j])
	})
}

// Head returns a copy of the first min(n, Len) handles.
func (q *Ready) Head(n int) []int {
	if n > len(q.handles) {
		n = len(q.handles)
	}
	if n <= 0 {
		return nil
	}
	return append([]int(nil), q.handles[:n]...)
}

// Advance removes exactly one handle from the front.
func (q *Ready) Advance() (int, bool) {
	if len(q.handles) == 0 {
		return -1, false
	}
	handle := q.handles[0]
	q.handles = q.handles[1:]
	return handle, true
}
