package process

import "strconv"

// Priority orders records in the ready queue; 1 is the highest priority.
type Priority int

const (
	HighestPriority Priority = 1
	LowestPriority  Priority = 4
	DefaultPriority          = HighestPriority
)

// IsValid reports whether p lies in [HighestPriority, LowestPriority].
func (p Priority) IsValid() bool {
	return p >= HighestPriority && p <= LowestPriority
}

// NormalizePriority returns value as a Priority when it is in range, otherwise
// DefaultPriority with adjusted set.
func NormalizePriority(value int) (priority Priority, adjusted bool) {
	if p := Priority(value); p.IsValid() {
		return p, false
	}
	return DefaultPriority, true
}

// ParsePriority converts optional user input. Empty input yields
// DefaultPriority; anything that is not an in-range integer yields
// DefaultPriority with adjusted set. The whole token must be numeric: "3x"
// is rejected, not read as its leading 3.
func ParsePriority(raw string) (priority Priority, adjusted bool) {
	if raw == "" {
		return DefaultPriority, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultPriority, true
	}
	return NormalizePriority(value)
}
