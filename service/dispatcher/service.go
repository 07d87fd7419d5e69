package dispatcher

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/viant/scheduler/internal/clock"
	"github.com/viant/scheduler/internal/idgen"
	"github.com/viant/scheduler/internal/logging"
	"github.com/viant/scheduler/model/process"
	"github.com/viant/scheduler/progress"
	"github.com/viant/scheduler/service/launcher"
	"github.com/viant/scheduler/service/queue"
	"github.com/viant/scheduler/tracing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config represents dispatcher configuration
type Config struct {
	// Concurrency is the maximum number of launches per round.
	Concurrency int
	// TimeSlice is reported in the summary only; rounds are never preempted.
	TimeSlice time.Duration
}

// DefaultConfig returns the default dispatcher configuration
func DefaultConfig() Config {
	return Config{
		Concurrency: 1,
		TimeSlice:   time.Second,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.TimeSlice < 0 {
		return fmt.Errorf("time slice cannot be negative, got %v", c.TimeSlice)
	}
	return nil
}

// Launcher runs one handle and sends exactly one completion on done.
type Launcher interface {
	Launch(ctx context.Context, handle int, done chan<- launcher.Completion)
}

// Priorities resolves the priority of a handle.
type Priorities interface {
	Priority(handle int) process.Priority
}

// Round describes one dispatch round.
type Round struct {
	Index       int   `json:"index"`
	Batch       []int `json:"batch"`
	Completions int   `json:"completions"`
	// Removed is the handle taken off the front after the barrier.
	Removed int `json:"removed"`
}

// Summary describes a whole drain.
type Summary struct {
	RunID       string            `json:"runID"`
	Concurrency int               `json:"concurrency"`
	TimeSliceMs int64             `json:"timeSliceMs"`
	StartedAt   time.Time         `json:"startedAt"`
	FinishedAt  time.Time         `json:"finishedAt"`
	Rounds      []Round           `json:"rounds"`
	Progress    progress.Progress `json:"progress"`
}

// Service dispatches queued handles to a launcher.
type Service struct {
	config     Config
	queue      *queue.Ready
	priorities Priorities
	launcher   Launcher
	logger     *zap.Logger
}

// New creates a dispatcher over ready.
func New(ready *queue.Ready, priorities Priorities, launcher Launcher, options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		queue:      ready,
		priorities: priorities,
		launcher:   launcher,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.queue == nil {
		return nil, fmt.Errorf("ready queue is required")
	}
	if s.priorities == nil {
		return nil, fmt.Errorf("priorities are required")
	}
	if s.launcher == nil {
		return nil, fmt.Errorf("launcher is required")
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	s.logger = logging.OrNop(s.logger)
	return s, nil
}

// Drain runs rounds until the queue is empty. Launched children are never
// cancelled, so Drain ignores cancellation of ctx and always finishes.
func (s *Service) Drain(ctx context.Context) (summary *Summary, err error) {
	ctx = context.WithoutCancel(ctx)
	tracker, ok := progress.FromContext(ctx)
	if !ok {
		ctx, tracker = progress.WithNewTracker(ctx, idgen.New(), nil)
	}
	ctx, span := tracing.StartSpan(ctx, "dispatcher.Drain", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{
		"run.id":      tracker.RunID,
		"concurrency": strconv.Itoa(s.config.Concurrency),
	})

	summary = &Summary{
		RunID:       tracker.RunID,
		Concurrency: s.config.Concurrency,
		TimeSliceMs: s.config.TimeSlice.Milliseconds(),
		StartedAt:   clock.Now(),
	}
	s.logger.Info("drain started",
		zap.String("runID", tracker.RunID), zap.Int("queued", s.queue.Len()),
		zap.Int("concurrency", s.config.Concurrency))

	for s.queue.Len() > 0 {
		s.queue.Sort(s.less)
		batch := s.queue.Head(s.config.Concurrency)
		round := Round{Index: len(summary.Rounds), Batch: batch}
		round.Completions = s.round(ctx, round.Index, batch)
		round.Removed, _ = s.queue.Advance()
		progress.UpdateCtx(ctx, progress.Delta{Rounds: 1})
		s.logger.Debug("round finished",
			zap.Int("round", round.Index), zap.Ints("batch", batch), zap.Int("removed", round.Removed))
		summary.Rounds = append(summary.Rounds, round)
	}

	summary.FinishedAt = clock.Now()
	summary.Progress = tracker.Snapshot()
	s.logger.Info("drain finished",
		zap.String("runID", tracker.RunID), zap.Int("rounds", len(summary.Rounds)))
	return summary, nil
}

// round launches batch and blocks until every launch reported completion.
func (s *Service) round(ctx context.Context, index int, batch []int) int {
	ctx, span := tracing.StartSpan(ctx, "dispatcher.Round", "INTERNAL")
	defer tracing.EndSpan(span, nil)
	span.WithAttributes(map[string]string{
		"round.index": strconv.Itoa(index),
		"round.batch": strconv.Itoa(len(batch)),
	})

	done := make(chan launcher.Completion, len(batch))
	var group errgroup.Group
	for _, handle := range batch {
		handle := handle
		group.Go(func() error {
			s.launcher.Launch(ctx, handle, done)
			return nil
		})
	}
	received := 0
	for received < len(batch) {
		<-done
		received++
	}
	_ = group.Wait()
	return received
}

func (s *Service) less(a, b int) bool {
	return s.priorities.Priority(a) < s.priorities.Priority(b)
}
