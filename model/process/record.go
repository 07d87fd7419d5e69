package process

import (
	"time"

	"github.com/viant/scheduler/internal/clock"
	"github.com/viant/scheduler/model/capture"
)

// Record describes one submitted program. It is created READY by the
// registry and mutated in place by exactly one launcher at a time.
type Record struct {
	Index     int
	Name      string
	PID       int
	Priority  Priority
	StartTime time.Time
	EndTime   time.Time
	// Elapsed is the total run time in whole milliseconds.
	Elapsed   int64
	Output    *capture.Buffer
	Completed bool
	State     State
	// Launches counts successful spawns; above one when the dispatcher
	// selected the record again after it already ran.
	Launches int
}

// NewRecord returns a READY record with an output buffer of outputSize bytes.
func NewRecord(index int, name string, priority Priority, outputSize int) *Record {
	return &Record{
		Index:    index,
		Name:     name,
		Priority: priority,
		Output:   capture.NewBuffer(outputSize),
		State:    StateReady,
	}
}

// Spawned records the child pid and start stamp and moves a READY record to
// RUNNING. Records that already left READY keep their state.
func (r *Record) Spawned(pid int, at time.Time) {
	r.PID = pid
	r.StartTime = clock.Micro(at)
	r.EndTime = time.Time{}
	r.Elapsed = 0
	r.Launches++
	r.moveTo(StateRunning)
}

// Finished stamps the end of a run and moves the record to WAITING.
func (r *Record) Finished(at time.Time) {
	r.EndTime = clock.Micro(at)
	r.Elapsed = clock.ElapsedMs(r.StartTime, r.EndTime)
	r.Completed = true
	r.moveTo(StateWaiting)
}

// Aborted marks a launch that never spawned a child as completed.
func (r *Record) Aborted() {
	r.Completed = true
}

func (r *Record) moveTo(state State) {
	if r.State.CanMoveTo(state) {
		r.State = state
	}
}

// Snapshot returns an immutable copy suitable for reporting and events.
func (r *Record) Snapshot() Snapshot {
	ret := Snapshot{
		Index:     r.Index,
		Name:      r.Name,
		PID:       r.PID,
		Priority:  int(r.Priority),
		State:     r.State,
		Completed: r.Completed,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		ElapsedMs: r.Elapsed,
		Launches:  r.Launches,
	}
	if r.Output != nil {
		ret.Output = r.Output.String()
	}
	return ret
}

// Snapshot is a point in time copy of a Record.
type Snapshot struct {
	Index     int       `json:"index" yaml:"index"`
	Name      string    `json:"name" yaml:"name"`
	PID       int       `json:"pid" yaml:"pid"`
	Priority  int       `json:"priority" yaml:"priority"`
	State     State     `json:"state" yaml:"state"`
	Completed bool      `json:"completed" yaml:"completed"`
	StartTime time.Time `json:"startTime" yaml:"startTime"`
	EndTime   time.Time `json:"endTime" yaml:"endTime"`
	ElapsedMs int64     `json:"elapsedMs" yaml:"elapsedMs"`
	Launches  int       `json:"launches,omitempty" yaml:"launches,omitempty"`
	Output    string    `json:"output,omitempty" yaml:"output,omitempty"`
}
