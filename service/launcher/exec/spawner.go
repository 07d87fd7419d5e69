// Package exec spawns programs directly with os/exec.
package exec

import (
	"context"
	"os"
	osexec "os/exec"

	"github.com/viant/scheduler/service/launcher"
)

// Spawner starts programs as direct children of the scheduler. The child
// inherits the scheduler's environment and standard error.
type Spawner struct{}

// New creates an exec spawner.
func New() *Spawner {
	return &Spawner{}
}

// Spawn starts name. A program that cannot be resolved or executed fails
// here rather than after the fork. The context is not bound to the child.
func (s *Spawner) Spawn(_ context.Context, name string, stdout *os.File) (launcher.Child, error) {
	cmd := osexec.Command(name)
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &child{cmd: cmd}, nil
}

type child struct {
	cmd *osexec.Cmd
}

func (c *child) PID() int {
	return c.cmd.Process.Pid
}

func (c *child) Wait() error {
	return c.cmd.Wait()
}

var _ launcher.Spawner = (*Spawner)(nil)
