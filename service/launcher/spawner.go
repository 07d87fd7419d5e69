package launcher

import (
	"context"
	"os"
)

// Child is a spawned program.
type Child interface {
	// PID returns the process id, or 0 while it is not yet known.
	PID() int
	// Wait blocks until the program exits; a non-zero exit is reported as an error.
	Wait() error
}

// Spawner starts the program called name without arguments, with its
// standard output connected to stdout. Spawn must not retain stdout past
// Wait; the caller closes its own copy right after Spawn returns.
type Spawner interface {
	Spawn(ctx context.Context, name string, stdout *os.File) (Child, error)
}

// PipeFunc creates a connected read/write file pair.
type PipeFunc func() (reader, writer *os.File, err error)
