package fixtures

import "github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"

// Stable IDs so seed files and imports can reference the defaults.
const (
	GeneralShiftID = "00000000-0000-7000-8000-000000000001"
	NightShiftID   = "00000000-0000-7000-8000-000000000002"
)

// DefaultShifts are the shifts every new deployment starts with.
func DefaultShifts() []shift.Shift {
	return []shift.Shift{
		{ID: GeneralShiftID, Name: "General Shift", IsNightShift: false},
		{ID: NightShiftID, Name: "Night Shift", IsNightShift: true},
	}
}
