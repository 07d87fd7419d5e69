// Package capture holds the fixed size buffer that keeps a child's standard
// output. The buffer never grows: writes beyond capacity-1 bytes are
// discarded and the byte after the captured data is always zero.
package capture

import "sync"

// DefaultCapacity matches the output size used when none is configured.
const DefaultCapacity = 1000

// Buffer is a bounded, zero terminated byte buffer. It implements io.Writer;
// Write never fails so that a producer can always drain its source.
type Buffer struct {
	mu   sync.Mutex
	data []byte
	n    int
}

// NewBuffer returns a buffer holding at most capacity-1 bytes. Capacities
// below 1 fall back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Write appends as much of p as still fits and reports len(p) as written.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	room := len(b.data) - 1 - b.n
	if room > 0 {
		if len(p) < room {
			room = len(p)
		}
		b.n += copy(b.data[b.n:], p[:room])
		b.data[b.n] = 0
	}
	return len(p), nil
}

// Reset clears captured content.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.n = 0
	b.data[0] = 0
}

// Len returns the number of captured bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

// Cap returns the buffer capacity including the terminator.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Bytes returns a copy of the captured bytes.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data[:b.n]...)
}

// Terminated returns a copy of the captured bytes followed by the terminator.
func (b *Buffer) Terminated() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data[:b.n+1]...)
}

func (b *Buffer) String() string {
	return string(b.Bytes())
}
