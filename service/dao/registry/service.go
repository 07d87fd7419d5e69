// Package registry implements the capacity-bounded arena of process records.
// Records are appended at submission, addressed by a stable integer handle
// and never removed.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/scheduler/model/capture"
	"github.com/viant/scheduler/model/process"
	"github.com/viant/scheduler/service/dao"
	"github.com/viant/scheduler/service/dao/criteria"
)

// DefaultCapacity is the maximum number of records kept when none is configured.
const DefaultCapacity = 100

// Config represents registry configuration
type Config struct {
	// Capacity caps the number of records.
	Capacity int
	// OutputSize is the capture buffer size of every record, terminator included.
	OutputSize int
}

// DefaultConfig returns the default registry configuration
func DefaultConfig() Config {
	return Config{
		Capacity:   DefaultCapacity,
		OutputSize: capture.DefaultCapacity,
	}
}

// Service stores records by handle. The slice is guarded by mux; the
// records themselves are mutated in place by their launcher.
type Service struct {
	config  Config
	records []*process.Record
	mux     sync.RWMutex
}

var _ dao.Service[int, process.Record] = (*Service)(nil)

// New creates a registry; non-positive settings fall back to defaults.
func New(config Config) *Service {
	defaults := DefaultConfig()
	if config.Capacity <= 0 {
		config.Capacity = defaults.Capacity
	}
	if config.OutputSize <= 0 {
		config.OutputSize = defaults.OutputSize
	}
	return &Service{
		config:  config,
		records: make([]*process.Record, 0, config.Capacity),
	}
}

// Submit appends a READY record and returns its handle. It returns -1 and
// dao.ErrCapacity when the registry is full.
func (s *Service) Submit(_ context.Context, name string, priority process.Priority) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1, fmt.Errorf("program name cannot be empty")
	}
	if !priority.IsValid() {
		priority = process.DefaultPriority
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if len(s.records) >= s.config.Capacity {
		return -1, dao.ErrCapacity
	}
	index := len(s.records)
	s.records = append(s.records, process.NewRecord(index, name, priority, s.config.OutputSize))
	return index, nil
}

// Record returns the live record for handle.
func (s *Service) Record(handle int) (*process.Record, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	if handle < 0 || handle >= len(s.records) {
		return nil, fmt.Errorf("%w: %d", dao.ErrNotFound, handle)
	}
	return s.records[handle], nil
}

// Priority returns the priority of handle, or process.LowestPriority+1 for an
// unknown handle so that it sorts last.
func (s *Service) Priority(handle int) process.Priority {
	record, err := s.Record(handle)
	if err != nil {
		return process.LowestPriority + 1
	}
	return record.Priority
}

// Save replaces the record stored under r.Index; handles are only issued by Submit.
func (s *Service) Save(_ context.Context, r *process.Record) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if r.Index < 0 || r.Index >= len(s.records) {
		return fmt.Errorf("%w: %d", dao.ErrInvalidID, r.Index)
	}
	s.records[r.Index] = r
	return nil
}

// Load returns the record for handle.
func (s *Service) Load(_ context.Context, handle int) (*process.Record, error) {
	return s.Record(handle)
}

// Delete always fails: records live as long as the registry.
func (s *Service) Delete(_ context.Context, _ int) error {
	return dao.ErrImmutable
}

// List returns records in submission order, optionally filtered by State.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*process.Record, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	out := make([]*process.Record, 0, len(s.records))
	for _, r := range s.records {
		if !criteria.FilterByState(r.State.String(), parameters) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *Service) Len() int {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return len(s.records)
}

// Cap returns the configured capacity.
func (s *Service) Cap() int {
	return s.config.Capacity
}
