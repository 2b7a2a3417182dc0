package shift

import "time"

type Shift struct {
	ID           string
	Name         string
	IsNightShift bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Kind is the coarse classification used by scheduled backfills.
type Kind string

const (
	KindDay   Kind = "Day"
	KindNight Kind = "Night"
)

// KindOf classifies an assigned shift. Employees without an assignment, or
// whose assignment is unknown, work day shifts.
func KindOf(shiftID *string, isNight map[string]bool) Kind {
	if shiftID == nil {
		return KindDay
	}
	if isNight[*shiftID] {
		return KindNight
	}
	return KindDay
}
