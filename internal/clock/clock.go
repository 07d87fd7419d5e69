package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Micro drops the monotonic reading and truncates t to microsecond resolution,
// the precision process timestamps are reported with.
func Micro(t time.Time) time.Time {
	return t.Round(0).Truncate(time.Microsecond)
}

// ElapsedMs returns the whole milliseconds between start and end. A zero start
// or an end before start yields 0.
func ElapsedMs(start, end time.Time) int64 {
	if start.IsZero() || end.Before(start) {
		return 0
	}
	return end.Sub(start).Milliseconds()
}
