// Command scheduler reads `submit <program> [priority]` and `history` lines
// from standard input. On SIGINT, SIGTERM or end of input it runs every
// submitted program in priority order and prints a per-process summary.
//
//	scheduler <concurrencyLimit> <timeSliceMillis>
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/viant/scheduler"
	"github.com/viant/scheduler/model/process"
	"github.com/viant/scheduler/service/command"
	"github.com/viant/scheduler/service/dao"
	"github.com/viant/scheduler/service/event"
	"go.uber.org/zap"
)

const (
	configEnvKey = "SCHEDULER_CONFIG"
	prompt       = "scheduler:~$ "
	usageHint    = "commands: submit <program> [priority] | history"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	concurrency, timeSliceMs, err := parseArgs(args[1:])
	if err != nil {
		fmt.Fprintf(stderr, "Usage: %s <concurrencyLimit> <timeSliceMillis>\n", args[0])
		return 1
	}
	config, err := loadConfig(os.Getenv(configEnvKey))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	config.Scheduler.Concurrency = concurrency
	config.Scheduler.TimeSliceMs = timeSliceMs
	if err = config.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	out := &syncWriter{w: stdout}
	srv, err := scheduler.New(
		scheduler.WithConfig(config),
		scheduler.WithEventListener(func(e *event.Event[process.Snapshot]) {
			if e.Context.EventType == event.TypeStarted {
				fmt.Fprintf(out, "Running Command '%s' (PID: %d) with Priority: %d\n", e.Data.Name, e.Data.PID, e.Data.Priority)
			}
		}),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	interact(ctx, srv, stdin, out)
	stop()

	summary, err := srv.Drain(context.Background())
	if summary == nil {
		srv.Logger().Error("drain failed", zap.Error(err))
		return 1
	}
	if err != nil {
		srv.Logger().Warn("report export failed", zap.Error(err))
	}
	fmt.Fprint(out, srv.Report(context.Background()))
	return 0
}

// interact processes input lines until ctx is done or input ends.
func interact(ctx context.Context, srv *scheduler.Service, stdin io.Reader, out io.Writer) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	for {
		fmt.Fprint(out, prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return
			}
			handle(ctx, srv, line, out)
		}
	}
}

func handle(ctx context.Context, srv *scheduler.Service, line string, out io.Writer) {
	cmd, err := command.Parse(line)
	if err != nil {
		if errors.Is(err, command.ErrMissingProgram) {
			fmt.Fprintln(out, "Usage: submit <program> [priority]")
			return
		}
		fmt.Fprintln(out, usageHint)
		return
	}
	switch cmd.Kind {
	case command.KindHistory:
		fmt.Fprint(out, srv.HistoryTable(ctx))
	case command.KindSubmit:
		if cmd.Adjusted {
			fmt.Fprintln(out, "Priority must be between 1 and 4. Defaulting to 1.")
		}
		if _, err = srv.Submit(ctx, cmd.Program, int(cmd.Priority)); err != nil {
			if errors.Is(err, dao.ErrCapacity) {
				fmt.Fprintln(out, "Command history limit reached.")
				return
			}
			fmt.Fprintln(out, err)
		}
	}
}

// parseArgs returns the concurrency limit and time slice; both must be integers.
func parseArgs(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	concurrency, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid concurrency limit %q: %w", args[0], err)
	}
	timeSliceMs, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time slice %q: %w", args[1], err)
	}
	return concurrency, timeSliceMs, nil
}

func loadConfig(URL string) (*scheduler.Config, error) {
	if URL == "" {
		return scheduler.DefaultConfig(), nil
	}
	return scheduler.LoadConfig(context.Background(), nil, URL)
}

// syncWriter serialises writes from the prompt loop and the event listener.
type syncWriter struct {
	mux sync.Mutex
	w   io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.w.Write(p)
}
