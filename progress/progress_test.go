package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_UpdateCtx(t *testing.T) {
	var last Progress
	ctx, _ := WithNewTracker(context.Background(), "run-1", func(p Progress) { last = p })
	UpdateCtx(ctx, Delta{Launched: 1, Running: 1})
	UpdateCtx(ctx, Delta{Running: -1, Completed: 1})
	UpdateCtx(ctx, Delta{Rounds: 1})

	tracker, ok := FromContext(ctx)
	require.True(t, ok)
	snapshot := tracker.Snapshot()
	assert.Equal(t, "run-1", snapshot.RunID)
	assert.Equal(t, 1, snapshot.Launched)
	assert.Equal(t, 0, snapshot.Running)
	assert.Equal(t, 1, snapshot.Completed)
	assert.Equal(t, 1, snapshot.Rounds)
	assert.Equal(t, snapshot, last)
	assert.False(t, snapshot.StartedAt.IsZero())

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
	UpdateCtx(context.Background(), Delta{Failed: 1})

	var nilTracker *Tracker
	nilTracker.Update(Delta{Failed: 1})
	assert.Equal(t, Progress{}, nilTracker.Snapshot())
}

func TestTracker_Concurrent(t *testing.T) {
	ctx, tracker := WithNewTracker(context.Background(), "run-2", nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			UpdateCtx(ctx, Delta{Failed: 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, tracker.Snapshot().Failed)
}
