package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/viant/scheduler/internal/logging"
	"github.com/viant/scheduler/service/messaging"
	"go.uber.org/zap"
)

// Listener delivers events from a publisher to handler on its own goroutine.
// A handler panic nacks the event, so the queue redelivers or dead-letters it.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    *zap.Logger
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mux       sync.Mutex
}

// NewListener creates a stopped listener.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger *zap.Logger) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logging.OrNop(logger),
	}
}

// Start begins consuming; calling Start on a running listener is a no-op.
func (l *Listener[T]) Start() {
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			msg, err := l.publisher.Consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				l.logger.Warn("failed to consume event", zap.Error(err))
				continue
			}
			l.deliver(msg)
		}
	}()
}

// Stop halts the consuming goroutine and then delivers every event still
// queued, so nothing published before Stop is lost.
func (l *Listener[T]) Stop() {
	l.mux.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mux.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	l.wg.Wait()
	for l.publisher.Pending() > 0 {
		msg, err := l.publisher.Consume(context.Background())
		if err != nil {
			l.logger.Warn("failed to flush event", zap.Error(err))
			continue
		}
		l.deliver(msg)
	}
	if count := l.publisher.DeadLetters(); count > 0 {
		l.logger.Warn("events dead-lettered", zap.Int("count", count))
	}
}

func (l *Listener[T]) deliver(msg messaging.Message[Event[T]]) {
	if msg == nil {
		return
	}
	if err := l.handle(msg.T()); err != nil {
		l.logger.Warn("event handler failed", zap.Error(err))
		if nErr := msg.Nack(err); nErr != nil {
			l.logger.Warn("failed to nack event", zap.Error(nErr))
		}
		return
	}
	if err := msg.Ack(); err != nil {
		l.logger.Warn("failed to ack event", zap.Error(err))
	}
}

func (l *Listener[T]) handle(event *Event[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
		}
	}()
	l.handler(event)
	return nil
}
