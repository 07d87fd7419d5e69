package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/scheduler/internal/env"
	"github.com/viant/scheduler/internal/logging"
	"github.com/viant/scheduler/model/capture"
	"github.com/viant/scheduler/service/dao/registry"
	"github.com/viant/scheduler/service/dispatcher"
	"github.com/viant/scheduler/service/messaging/memory"
	"gopkg.in/yaml.v3"
)

const (
	// BackendExec spawns programs with os/exec.
	BackendExec = "exec"
	// BackendShell spawns programs through a local gosh bash session.
	BackendShell = "shell"
)

// Config is the serialisable scheduler configuration. Zero fields of a
// decoded document keep their defaults.
type Config struct {
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Launcher  LauncherConfig  `json:"launcher" yaml:"launcher"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
	Tracing   TracingConfig   `json:"tracing" yaml:"tracing"`
	Report    ReportConfig    `json:"report" yaml:"report"`
	Events    EventsConfig    `json:"events" yaml:"events"`
}

type SchedulerConfig struct {
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// TimeSliceMs is accepted and reported but does not affect dispatch.
	TimeSliceMs int `json:"timeSliceMs" yaml:"timeSliceMs"`
	Capacity    int `json:"capacity" yaml:"capacity"`
	OutputSize  int `json:"outputSize" yaml:"outputSize"`
}

type LauncherConfig struct {
	Backend string `json:"backend" yaml:"backend"`
	// Env is passed to shell sessions only.
	Env       map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	TimeoutMs int               `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
}

type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

type TracingConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// File receives spans; empty means stdout.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

type ReportConfig struct {
	// URL is any afs location; empty disables the export after Drain.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

type EventsConfig struct {
	// MaxRetries is how often an event whose handler panicked is redelivered
	// before it is dead-lettered.
	MaxRetries int `json:"maxRetries" yaml:"maxRetries"`
}

// DefaultConfig returns a Config populated with package defaults.
func DefaultConfig() *Config {
	dispatcherConfig := dispatcher.DefaultConfig()
	return &Config{
		Scheduler: SchedulerConfig{
			Concurrency: dispatcherConfig.Concurrency,
			TimeSliceMs: int(dispatcherConfig.TimeSlice.Milliseconds()),
			Capacity:    registry.DefaultCapacity,
			OutputSize:  capture.DefaultCapacity,
		},
		Launcher: LauncherConfig{Backend: BackendExec},
		Logging:  LoggingConfig{Level: logging.DefaultLevel},
		Events:   EventsConfig{MaxRetries: memory.DefaultConfig().MaxRetries},
	}
}

// Validate returns an error describing the first invalid setting.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config was nil")
	}
	if c.Scheduler.Concurrency <= 0 {
		return fmt.Errorf("scheduler.concurrency must be > 0, got %d", c.Scheduler.Concurrency)
	}
	if c.Scheduler.TimeSliceMs < 0 {
		return fmt.Errorf("scheduler.timeSliceMs must be >= 0, got %d", c.Scheduler.TimeSliceMs)
	}
	if c.Scheduler.Capacity <= 0 {
		return fmt.Errorf("scheduler.capacity must be > 0, got %d", c.Scheduler.Capacity)
	}
	if c.Scheduler.OutputSize <= 1 {
		return fmt.Errorf("scheduler.outputSize must be > 1, got %d", c.Scheduler.OutputSize)
	}
	switch c.Launcher.Backend {
	case BackendExec, BackendShell:
	default:
		return fmt.Errorf("launcher.backend must be %q or %q, got %q", BackendExec, BackendShell, c.Launcher.Backend)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Events.MaxRetries < 0 {
		return fmt.Errorf("events.maxRetries must be >= 0, got %d", c.Events.MaxRetries)
	}
	return nil
}

func (c *Config) dispatcherConfig() dispatcher.Config {
	return dispatcher.Config{
		Concurrency: c.Scheduler.Concurrency,
		TimeSlice:   time.Duration(c.Scheduler.TimeSliceMs) * time.Millisecond,
	}
}

// LoadConfig downloads a YAML document from URL, expands ${env.KEY}
// expressions and decodes it on top of DefaultConfig. A nil fs uses afs.New().
func LoadConfig(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal([]byte(env.Expand(string(data))), ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
