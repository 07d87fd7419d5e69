// Package dispatcher drains the ready queue in rounds. Each round sorts the
// queue by priority, launches the first Concurrency handles concurrently,
// waits for exactly that many completions and then removes one handle from
// the front of the queue.
package dispatcher
