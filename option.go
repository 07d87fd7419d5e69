package scheduler

import (
	"github.com/viant/afs"
	"github.com/viant/scheduler/model/process"
	"github.com/viant/scheduler/progress"
	"github.com/viant/scheduler/service/event"
	"github.com/viant/scheduler/service/launcher"
	"github.com/viant/scheduler/tracing"
	"go.uber.org/zap"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures the Service.
type Option func(s *Service)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLogger sets the logger; otherwise one is built from Logging.Level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithSpawner overrides the spawner selected by Launcher.Backend.
func WithSpawner(spawner launcher.Spawner) Option {
	return func(s *Service) {
		s.spawner = spawner
	}
}

// WithEventListener registers a handler for launch lifecycle events. Handlers
// run on a single listener goroutine in publication order.
func WithEventListener(handler func(*event.Event[process.Snapshot])) Option {
	return func(s *Service) {
		if handler != nil {
			s.handlers = append(s.handlers, handler)
		}
	}
}

// WithProgressListener registers a callback receiving drain counters after
// every change. Callbacks run on the goroutine that applied the change and
// must be safe for concurrent use.
func WithProgressListener(listener func(progress.Progress)) Option {
	return func(s *Service) {
		if listener != nil {
			s.observers = append(s.observers, listener)
		}
	}
}

// WithFileSystem sets the afs service used for report export.
func WithFileSystem(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithTracing configures OpenTelemetry with the stdout exporter, or a file
// when outputFile is set. The first initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.tracingErr = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry with a custom SpanExporter.
// The first initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracingErr = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
