package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/scheduler/internal/clock"
)

// Delta represents an incremental counter change emitted by the dispatcher
// or a launcher. Fields are signed.
type Delta struct {
	Launched  int
	Running   int
	Completed int
	Failed    int
	Rounds    int
}

// Progress is a point in time view of the counters of one drain.
type Progress struct {
	RunID     string    `json:"runID"`
	StartedAt time.Time `json:"startedAt"`

	Launched  int `json:"launched"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Rounds    int `json:"rounds"`
}

// Tracker aggregates counters for one drain. It is safe for concurrent use.
type Tracker struct {
	RunID     string
	StartedAt time.Time

	mux      sync.Mutex
	counters Delta
	onChange func(Progress)
}

// Update applies d. The onChange callback, if any, receives a snapshot
// outside the critical section.
func (t *Tracker) Update(d Delta) {
	if t == nil {
		return
	}
	t.mux.Lock()
	t.counters.Launched += d.Launched
	t.counters.Running += d.Running
	t.counters.Completed += d.Completed
	t.counters.Failed += d.Failed
	t.counters.Rounds += d.Rounds
	snapshot := t.snapshot()
	cb := t.onChange
	t.mux.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

func (t *Tracker) snapshot() Progress {
	return Progress{
		RunID:     t.RunID,
		StartedAt: t.StartedAt,
		Launched:  t.counters.Launched,
		Running:   t.counters.Running,
		Completed: t.counters.Completed,
		Failed:    t.counters.Failed,
		Rounds:    t.counters.Rounds,
	}
}

// Snapshot returns the current counters.
func (t *Tracker) Snapshot() Progress {
	if t == nil {
		return Progress{}
	}
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.snapshot()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker embeds a new tracker in a derived context. onChange, when
// set, is called after every update.
func WithNewTracker(ctx context.Context, runID string, onChange func(Progress)) (context.Context, *Tracker) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Tracker{
		RunID:     runID,
		StartedAt: clock.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Tracker, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Tracker)
	return tr, ok
}

// UpdateCtx applies d to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
