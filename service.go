package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/scheduler/internal/idgen"
	"github.com/viant/scheduler/internal/logging"
	"github.com/viant/scheduler/model/process"
	"github.com/viant/scheduler/progress"
	"github.com/viant/scheduler/service/dao"
	"github.com/viant/scheduler/service/dao/criteria"
	"github.com/viant/scheduler/service/dao/registry"
	"github.com/viant/scheduler/service/dispatcher"
	"github.com/viant/scheduler/service/event"
	"github.com/viant/scheduler/service/launcher"
	"github.com/viant/scheduler/service/launcher/exec"
	"github.com/viant/scheduler/service/launcher/shell"
	"github.com/viant/scheduler/service/messaging/memory"
	"github.com/viant/scheduler/service/queue"
	"github.com/viant/scheduler/service/report"
	"github.com/viant/scheduler/tracing"
	"go.uber.org/zap"
)

// Name and Version identify the scheduler in traces.
const (
	Name    = "scheduler"
	Version = "0.1.0"
)

// ErrClosed is returned by Submit and Drain once a drain has begun.
var ErrClosed = errors.New("scheduler: submissions closed")

// Submission describes an accepted program.
type Submission struct {
	Handle   int
	Priority process.Priority
	// Adjusted is set when the requested priority was out of range and
	// replaced by process.DefaultPriority.
	Adjusted bool
}

// Service ties the registry, ready queue, launcher and dispatcher together.
type Service struct {
	config     *Config
	logger     *zap.Logger
	fs         afs.Service
	spawner    launcher.Spawner
	handlers   []func(*event.Event[process.Snapshot])
	observers  []func(progress.Progress)
	tracingErr error

	registry   *registry.Service
	ready      *queue.Ready
	dispatcher *dispatcher.Service
	exporter   *report.Exporter
	listener   *event.Listener[process.Snapshot]

	mux     sync.Mutex
	closed  bool
	summary *dispatcher.Summary
}

// New creates a Service.
func New(options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) init() error {
	if s.logger == nil {
		logger, err := logging.New(s.config.Logging.Level)
		if err != nil {
			return err
		}
		s.logger = logger
	}
	if s.tracingErr == nil && s.config.Tracing.Enabled {
		s.tracingErr = tracing.Init(Name, Version, s.config.Tracing.File)
	}
	if s.tracingErr != nil {
		s.logger.Warn("tracing disabled", zap.Error(s.tracingErr))
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.spawner == nil {
		s.spawner = s.newSpawner()
	}

	s.registry = registry.New(registry.Config{
		Capacity:   s.config.Scheduler.Capacity,
		OutputSize: s.config.Scheduler.OutputSize,
	})
	s.ready = queue.NewReady(s.config.Scheduler.Capacity)
	s.exporter = report.NewExporter(s.fs)

	launcherOptions := []launcher.Option{launcher.WithLogger(s.logger)}
	if len(s.handlers) > 0 {
		publisher := event.NewPublisher[process.Snapshot](memory.NewQueue[event.Event[process.Snapshot]](memory.Config{
			MaxRetries:  s.config.Events.MaxRetries,
			DeadLetter:  true,
			QueueBuffer: 4 * s.config.Scheduler.Capacity,
		}))
		handlers := s.handlers
		s.listener = event.NewListener[process.Snapshot](publisher, func(e *event.Event[process.Snapshot]) {
			for _, handler := range handlers {
				handler(e)
			}
		}, s.logger)
		s.listener.Start()
		launcherOptions = append(launcherOptions, launcher.WithPublisher(publisher))
	}
	aLauncher, err := launcher.New(s.registry, s.spawner, launcherOptions...)
	if err != nil {
		return err
	}
	s.dispatcher, err = dispatcher.New(s.ready, s.registry, aLauncher,
		dispatcher.WithConfig(s.config.dispatcherConfig()),
		dispatcher.WithLogger(s.logger))
	return err
}

func (s *Service) newSpawner() launcher.Spawner {
	if s.config.Launcher.Backend == BackendShell {
		return shell.New(
			shell.WithEnvironment(s.config.Launcher.Env),
			shell.WithTimeout(time.Duration(s.config.Launcher.TimeoutMs)*time.Millisecond))
	}
	return exec.New()
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Submit registers name with priority and queues it. Out of range
// priorities become process.DefaultPriority. A full registry yields
// dao.ErrCapacity and leaves the queue untouched.
func (s *Service) Submit(ctx context.Context, name string, priority int) (*Submission, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	normalized, adjusted := process.NormalizePriority(priority)
	if adjusted {
		s.logger.Warn("priority out of range, using default",
			zap.String("name", name), zap.Int("priority", priority), zap.Int("default", int(normalized)))
	}
	handle, err := s.registry.Submit(ctx, name, normalized)
	if err != nil {
		if errors.Is(err, dao.ErrCapacity) {
			s.logger.Warn("registry full", zap.String("name", name), zap.Int("capacity", s.registry.Cap()))
		}
		return nil, err
	}
	s.ready.Push(handle)
	s.logger.Debug("submitted", zap.Int("handle", handle), zap.String("name", name), zap.Int("priority", int(normalized)))
	return &Submission{Handle: handle, Priority: normalized, Adjusted: adjusted}, nil
}

// History returns a snapshot of every submitted program in submission order.
func (s *Service) History(ctx context.Context) []process.Snapshot {
	records, _ := s.registry.List(ctx)
	ret := make([]process.Snapshot, 0, len(records))
	for _, record := range records {
		ret = append(ret, record.Snapshot())
	}
	return ret
}

// Records returns snapshots of programs in any of states; no state means all.
func (s *Service) Records(ctx context.Context, states ...process.State) ([]process.Snapshot, error) {
	values := make([]string, 0, len(states))
	for _, state := range states {
		values = append(values, state.String())
	}
	var parameters []*dao.Parameter
	if len(values) > 0 {
		parameters = append(parameters, dao.NewParameter(criteria.StateParameter, values...))
	}
	records, err := s.registry.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	ret := make([]process.Snapshot, 0, len(records))
	for _, record := range records {
		ret = append(ret, record.Snapshot())
	}
	return ret, nil
}

// Drain closes submissions and dispatches every queued program. It runs to
// completion even if ctx is cancelled. Event handlers have seen every event
// by the time Drain returns. When Report.URL is configured the summary is
// exported; an export failure is returned together with the summary.
func (s *Service) Drain(ctx context.Context) (*dispatcher.Summary, error) {
	s.mux.Lock()
	if s.closed {
		s.mux.Unlock()
		return nil, ErrClosed
	}
	s.closed = true
	s.mux.Unlock()

	ctx, _ = progress.WithNewTracker(ctx, idgen.New(), s.onProgress)
	summary, err := s.dispatcher.Drain(ctx)
	if s.listener != nil {
		s.listener.Stop()
	}
	if err != nil {
		return nil, err
	}
	s.mux.Lock()
	s.summary = summary
	s.mux.Unlock()

	if URL := s.config.Report.URL; URL != "" {
		if err = s.Export(ctx, URL); err != nil {
			return summary, err
		}
		s.logger.Info("report exported", zap.String("url", URL))
	}
	return summary, nil
}

func (s *Service) onProgress(snapshot progress.Progress) {
	s.logger.Debug("progress",
		zap.String("runID", snapshot.RunID), zap.Int("rounds", snapshot.Rounds),
		zap.Int("running", snapshot.Running), zap.Int("completed", snapshot.Completed),
		zap.Int("failed", snapshot.Failed))
	for _, observer := range s.observers {
		observer(snapshot)
	}
}

// Summary returns the result of the last Drain, or nil.
func (s *Service) Summary() *dispatcher.Summary {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.summary
}

// Report renders the per-process summary.
func (s *Service) Report(ctx context.Context) string {
	return report.Summary(s.History(ctx))
}

// HistoryTable renders the submitted programs.
func (s *Service) HistoryTable(ctx context.Context) string {
	return report.History(s.History(ctx))
}

// Export writes the drain summary and process snapshots as JSON to URL.
func (s *Service) Export(ctx context.Context, URL string) error {
	doc := &report.Document{Summary: s.Summary(), Processes: s.History(ctx)}
	if err := s.exporter.Export(ctx, URL, doc); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}

// Close stops the event listener when Drain was never called and flushes
// the logger.
func (s *Service) Close() error {
	if s.listener != nil {
		s.listener.Stop()
	}
	_ = s.logger.Sync()
	return nil
}
