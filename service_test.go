package scheduler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/scheduler/model/process"
	"github.com/viant/scheduler/progress"
	"github.com/viant/scheduler/service/dao"
	"github.com/viant/scheduler/service/event"
	"github.com/viant/scheduler/service/launcher"
	"github.com/viant/scheduler/service/report"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// echoSpawner prints the program name and reports an exited child.
type echoSpawner struct {
	mux   sync.Mutex
	order []string
}

type exitedChild struct{ pid int }

func (c exitedChild) PID() int    { return c.pid }
func (c exitedChild) Wait() error { return nil }

func (e *echoSpawner) Spawn(_ context.Context, name string, stdout *os.File) (launcher.Child, error) {
	e.mux.Lock()
	e.order = append(e.order, name)
	pid := 500 + len(e.order)
	e.mux.Unlock()
	if _, err := stdout.WriteString(name + "\n"); err != nil {
		return nil, err
	}
	return exitedChild{pid: pid}, nil
}

func newTestService(t *testing.T, config *Config, options ...Option) (*Service, *echoSpawner, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	spawner := &echoSpawner{}
	options = append([]Option{WithConfig(config), WithLogger(zap.New(core)), WithSpawner(spawner)}, options...)
	srv, err := New(options...)
	require.NoError(t, err)
	return srv, spawner, logs
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()
	config := DefaultConfig()
	config.Scheduler.Capacity = 2
	srv, _, logs := newTestService(t, config)

	submission, err := srv.Submit(ctx, "date", 3)
	require.NoError(t, err)
	assert.Equal(t, &Submission{Handle: 0, Priority: 3}, submission)

	submission, err = srv.Submit(ctx, "ls", 9)
	require.NoError(t, err)
	assert.True(t, submission.Adjusted)
	assert.Equal(t, process.DefaultPriority, submission.Priority)
	assert.Equal(t, 1, logs.FilterMessage("priority out of range, using default").Len())

	_, err = srv.Submit(ctx, "uname", 1)
	assert.ErrorIs(t, err, dao.ErrCapacity)
	assert.Equal(t, 2, srv.ready.Len())

	history := srv.History(ctx)
	require.Len(t, history, 2)
	assert.Equal(t, "date", history[0].Name)
	assert.Equal(t, 1, history[1].Priority)
	assert.Contains(t, srv.HistoryTable(ctx), "date")
}

func TestService_Drain(t *testing.T) {
	ctx := context.Background()
	config := DefaultConfig()
	config.Report.URL = filepath.Join(t.TempDir(), "summary.json")

	var mux sync.Mutex
	var notices []string
	var last progress.Progress
	srv, spawner, _ := newTestService(t, config, WithEventListener(func(e *event.Event[process.Snapshot]) {
		if e.Context.EventType != event.TypeStarted {
			return
		}
		mux.Lock()
		notices = append(notices, e.Data.Name)
		mux.Unlock()
	}), WithProgressListener(func(p progress.Progress) {
		mux.Lock()
		if p.Rounds >= last.Rounds {
			last = p
		}
		mux.Unlock()
	}))

	for _, item := range []struct {
		name     string
		priority int
	}{{"low", 4}, {"high", 1}, {"mid", 2}} {
		_, err := srv.Submit(ctx, item.name, item.priority)
		require.NoError(t, err)
	}

	summary, err := srv.Drain(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Rounds, 3)
	assert.Equal(t, []string{"high", "mid", "low"}, spawner.order)
	assert.Equal(t, []string{"high", "mid", "low"}, notices)
	assert.Same(t, summary, srv.Summary())
	assert.Equal(t, summary.RunID, last.RunID)
	assert.Equal(t, 3, last.Rounds)
	assert.Equal(t, 3, last.Completed)

	waiting, err := srv.Records(ctx, process.StateWaiting)
	require.NoError(t, err)
	assert.Len(t, waiting, 3)
	ready, err := srv.Records(ctx, process.StateReady)
	require.NoError(t, err)
	assert.Empty(t, ready)

	out := srv.Report(ctx)
	assert.Contains(t, out, "** Process #3 **")
	assert.Contains(t, out, "Name:            mid")

	data, err := afs.New().DownloadWithURL(ctx, config.Report.URL)
	require.NoError(t, err)
	doc := &report.Document{}
	require.NoError(t, json.Unmarshal(data, doc))
	assert.Equal(t, summary.RunID, doc.Summary.RunID)
	require.Len(t, doc.Processes, 3)
	assert.Equal(t, "low\n", doc.Processes[0].Output)

	_, err = srv.Submit(ctx, "late", 1)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = srv.Drain(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, srv.Close())
}

func TestService_DrainHandlerPanic(t *testing.T) {
	var testCases = []struct {
		description       string
		maxRetries        int
		expectNotices     int
		expectDeadLetters bool
	}{
		{description: "redelivered", maxRetries: 1, expectNotices: 2},
		{description: "dead-lettered", maxRetries: 0, expectNotices: 1, expectDeadLetters: true},
	}
	for _, testCase := range testCases {
		ctx := context.Background()
		config := DefaultConfig()
		config.Events.MaxRetries = testCase.maxRetries
		panicked := false
		var notices []string
		srv, _, logs := newTestService(t, config, WithEventListener(func(e *event.Event[process.Snapshot]) {
			if e.Context.EventType != event.TypeStarted {
				return
			}
			if e.Data.Name == "first" && !panicked {
				panicked = true
				panic("handler failure")
			}
			notices = append(notices, e.Data.Name)
		}))
		for _, name := range []string{"first", "second"} {
			_, err := srv.Submit(ctx, name, 1)
			require.NoError(t, err, testCase.description)
		}
		_, err := srv.Drain(ctx)
		require.NoError(t, err, testCase.description)

		assert.Len(t, notices, testCase.expectNotices, testCase.description)
		assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len(), testCase.description)
		assert.Equal(t, testCase.expectDeadLetters, logs.FilterMessage("events dead-lettered").Len() == 1, testCase.description)
	}
}

func TestService_DrainExec(t *testing.T) {
	ctx := context.Background()
	config := DefaultConfig()
	config.Scheduler.Concurrency = 2
	config.Scheduler.OutputSize = 4
	srv, err := New(WithConfig(config), WithLogger(zap.NewNop()))
	require.NoError(t, err)

	for _, name := range []string{"uname", "true", "no-such-program-for-scheduler"} {
		_, err = srv.Submit(ctx, name, 1)
		require.NoError(t, err)
	}
	summary, err := srv.Drain(ctx)
	require.NoError(t, err)

	var batches [][]int
	for _, round := range summary.Rounds {
		batches = append(batches, round.Batch)
		assert.Equal(t, len(round.Batch), round.Completions)
	}
	assert.Equal(t, [][]int{{0, 1}, {1, 2}, {2}}, batches)

	history := srv.History(ctx)
	assert.LessOrEqual(t, len(history[0].Output), 3)
	assert.NotEmpty(t, strings.TrimSpace(history[0].Output))
	for _, snapshot := range history {
		assert.True(t, snapshot.Completed, snapshot.Name)
		assert.GreaterOrEqual(t, snapshot.ElapsedMs, int64(0), snapshot.Name)
	}
	assert.Equal(t, "", history[2].Output)
	assert.Equal(t, 0, history[2].PID)
}

func TestNew_InvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.Scheduler.Concurrency = 0
	_, err := New(WithConfig(config))
	assert.Error(t, err)
}
