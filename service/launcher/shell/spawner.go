// Package shell spawns programs through a local gosh bash session. Each launch
// gets its own session so that concurrent launches never share shell state.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	"github.com/viant/scheduler/service/launcher"
)

// DefaultTimeout bounds a single program run.
const DefaultTimeout = 10 * time.Minute

// Spawner runs programs with `bash -c 'exec 2>/dev/null; echo $$; exec "$0"' <name>`:
// the first output line is the pid of the exec'd program, the rest its
// standard output. Standard error, including bash's own lookup failure, is
// discarded so that only stdout reaches the capture.
type Spawner struct {
	env     map[string]string
	timeout time.Duration
}

// Option configures the shell spawner.
type Option func(*Spawner)

// WithEnvironment sets extra environment variables of every session.
func WithEnvironment(env map[string]string) Option {
	return func(s *Spawner) {
		s.env = env
	}
}

// WithTimeout sets the run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Spawner) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// New creates a shell spawner.
func New(options ...Option) *Spawner {
	s := &Spawner{timeout: DefaultTimeout}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Spawn opens a session and keeps a duplicate of stdout for the output. The
// program itself runs in Wait, detached from ctx cancellation.
func (s *Spawner) Spawn(ctx context.Context, name string, stdout *os.File) (launcher.Child, error) {
	out, err := dup(stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate output: %w", err)
	}
	ctx = context.WithoutCancel(ctx)
	var envOptions []runner.Option
	if len(s.env) > 0 {
		envOptions = append(envOptions, runner.WithEnvironment(s.env))
	}
	service, err := gosh.New(ctx, local.New(envOptions...))
	if err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return &child{
		ctx:     ctx,
		name:    name,
		service: service,
		stdout:  out,
		timeout: s.timeout,
	}, nil
}

type child struct {
	ctx     context.Context
	name    string
	service *gosh.Service
	stdout  *os.File
	timeout time.Duration
	pid     atomic.Int64
}

func (c *child) PID() int {
	return int(c.pid.Load())
}

func (c *child) Wait() error {
	defer c.service.Close()
	defer c.stdout.Close()
	output, status, err := c.service.Run(c.ctx, Command(c.name), runner.WithTimeout(int(c.timeout.Milliseconds())))
	pid, rest := SplitPID(output)
	c.pid.Store(int64(pid))
	if rest != "" {
		if _, wErr := io.WriteString(c.stdout, rest); wErr != nil && err == nil {
			err = wErr
		}
	}
	if err != nil {
		return err
	}
	if status != 0 {
		return fmt.Errorf("%v exited with status %d", c.name, status)
	}
	return nil
}

// Command returns the bash command line that reports its pid before
// replacing itself with name. Stderr is redirected before the exec.
func Command(name string) string {
	return `bash -c 'exec 2>/dev/null; echo $$; exec "$0"' ` + quote(name)
}

func quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// SplitPID separates the leading pid line from the program output. Output
// without a leading pid yields 0 and the output unchanged.
func SplitPID(output string) (int, string) {
	line, rest, found := strings.Cut(output, "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, output
	}
	if !found {
		return pid, ""
	}
	return pid, rest
}

var _ launcher.Spawner = (*Spawner)(nil)
