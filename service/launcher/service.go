package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/viant/scheduler/internal/clock"
	"github.com/viant/scheduler/internal/logging"
	"github.com/viant/scheduler/model/process"
	"github.com/viant/scheduler/progress"
	"github.com/viant/scheduler/service/event"
	"github.com/viant/scheduler/tracing"
	"go.uber.org/zap"
)

// Records resolves a handle into the live record the launcher mutates.
type Records interface {
	Record(handle int) (*process.Record, error)
}

// Completion is sent once per Launch.
type Completion struct {
	Handle int
	PID    int
	// Spawned is false when no child was started.
	Spawned bool
	// Err holds the pipe, spawn or exit error; informational only.
	Err error
}

// Service launches programs for registered records.
type Service struct {
	records   Records
	spawner   Spawner
	newPipe   PipeFunc
	publisher *event.Publisher[process.Snapshot]
	logger    *zap.Logger
}

// New creates a launcher.
func New(records Records, spawner Spawner, options ...Option) (*Service, error) {
	if records == nil {
		return nil, fmt.Errorf("records are required")
	}
	if spawner == nil {
		return nil, fmt.Errorf("spawner is required")
	}
	s := &Service{
		records: records,
		spawner: spawner,
		newPipe: os.Pipe,
	}
	for _, opt := range options {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s, nil
}

// Launch runs the program of handle to completion and sends exactly one
// Completion on done. Failures are absorbed: the record is marked completed
// and the error travels in the Completion only.
func (s *Service) Launch(ctx context.Context, handle int, done chan<- Completion) {
	completion := Completion{Handle: handle}
	ctx, span := tracing.StartSpan(ctx, "launcher.Launch", "INTERNAL")
	defer func() {
		tracing.EndSpan(span, completion.Err)
		done <- completion
	}()
	span.WithAttributes(map[string]string{"process.handle": strconv.Itoa(handle)})

	record, err := s.records.Record(handle)
	if err != nil {
		completion.Err = err
		s.logger.Warn("unknown process handle", zap.Int("handle", handle), zap.Error(err))
		return
	}
	span.WithAttributes(map[string]string{"process.name": record.Name})
	record.Output.Reset()

	reader, writer, err := s.newPipe()
	if err != nil {
		completion.Err = fmt.Errorf("failed to create pipe for %v: %w", record.Name, err)
		s.abort(ctx, record, completion.Err)
		return
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		s.drain(record, reader)
	}()

	child, err := s.spawner.Spawn(ctx, record.Name, writer)
	_ = writer.Close()
	if err != nil {
		<-drained
		completion.Err = fmt.Errorf("failed to spawn %v: %w", record.Name, err)
		s.abort(ctx, record, completion.Err)
		return
	}

	record.Spawned(child.PID(), clock.Now())
	completion.Spawned = true
	progress.UpdateCtx(ctx, progress.Delta{Launched: 1, Running: 1})
	s.publish(ctx, event.TypeStarted, record, nil)
	s.logger.Debug("process started",
		zap.Int("handle", handle), zap.String("name", record.Name), zap.Int("pid", record.PID))

	waitErr := child.Wait()
	<-drained
	if record.PID == 0 {
		record.PID = child.PID()
	}
	record.Finished(clock.Now())
	completion.PID = record.PID
	completion.Err = waitErr
	progress.UpdateCtx(ctx, progress.Delta{Running: -1, Completed: 1})
	if waitErr != nil {
		s.logger.Info("process exited with error",
			zap.String("name", record.Name), zap.Int("pid", record.PID), zap.Error(waitErr))
	}
	s.publish(ctx, event.TypeCompleted, record, waitErr)
}

// drain copies the child's output into the record buffer until EOF so that
// the child never blocks on a full pipe. Bytes beyond the buffer are discarded.
func (s *Service) drain(record *process.Record, reader *os.File) {
	defer reader.Close()
	if _, err := io.Copy(record.Output, reader); err != nil {
		s.logger.Debug("partial output read", zap.String("name", record.Name), zap.Error(err))
	}
}

func (s *Service) abort(ctx context.Context, record *process.Record, err error) {
	record.Aborted()
	progress.UpdateCtx(ctx, progress.Delta{Failed: 1})
	s.logger.Warn("launch failed", zap.String("name", record.Name), zap.Error(err))
	s.publish(ctx, event.TypeFailed, record, err)
}

func (s *Service) publish(ctx context.Context, eventType event.Type, record *process.Record, err error) {
	if s.publisher == nil {
		return
	}
	eventContext := &event.Context{
		Handle:    record.Index,
		EventType: eventType,
		Service:   "launcher",
	}
	if tracker, ok := progress.FromContext(ctx); ok {
		eventContext.RunID = tracker.RunID
	}
	if err != nil {
		eventContext.Error = err.Error()
	}
	if pErr := s.publisher.TryPublish(event.NewEvent(eventContext, record.Snapshot())); pErr != nil {
		s.logger.Debug("dropped launch event", zap.String("type", string(eventType)), zap.Error(pErr))
	}
}
