package launcher

import (
	"github.com/viant/scheduler/model/process"
	"github.com/viant/scheduler/service/event"
	"go.uber.org/zap"
)

// Option configures the launcher.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPipe replaces os.Pipe.
func WithPipe(fn PipeFunc) Option {
	return func(s *Service) {
		s.newPipe = fn
	}
}

// WithPublisher publishes launch lifecycle events.
func WithPublisher(publisher *event.Publisher[process.Snapshot]) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}
