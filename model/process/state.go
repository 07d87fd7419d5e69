package process

// State represents the lifecycle state of a submitted program.
type State string

const (
	// StateReady marks a record waiting in the ready queue.
	StateReady State = "READY"
	// StateRunning marks a record whose program has been spawned.
	StateRunning State = "RUNNING"
	// StateWaiting marks a reaped program; terminal.
	StateWaiting State = "WAITING"
)

func (s State) rank() int {
	switch s {
	case StateReady:
		return 0
	case StateRunning:
		return 1
	case StateWaiting:
		return 2
	}
	return -1
}

// CanMoveTo reports whether the transition keeps states monotonic.
func (s State) CanMoveTo(next State) bool {
	return next.rank() == s.rank()+1
}

func (s State) String() string {
	return string(s)
}
