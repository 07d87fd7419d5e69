package dispatcher

import "go.uber.org/zap"

// Option configures the dispatcher.
type Option func(*Service)

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithConcurrency sets the batch size.
func WithConcurrency(count int) Option {
	return func(s *Service) {
		s.config.Concurrency = count
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
