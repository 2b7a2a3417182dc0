package attendance

import (
	"math"
	"time"
)

// DateLayout is the wire and storage format of an attendance date.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPresent    Status = "Present"
	StatusAbsent     Status = "Absent"
	StatusLate       Status = "Late"
	StatusHoliday    Status = "Holiday"
	StatusLeave      Status = "Leave"
	StatusHalfDay    Status = "Half Day"
	StatusPermission Status = "Permission"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusHoliday),
	string(StatusLeave),
	string(StatusHalfDay),
	string(StatusPermission),
}

type DeviceType string

const (
	DeviceWeb       DeviceType = "Web"
	DeviceMobile    DeviceType = "Mobile"
	DeviceBiometric DeviceType = "Biometric"
	DeviceManual    DeviceType = "Manual"
	DeviceAutoSync  DeviceType = "Auto Sync"
)

var DeviceTypeValues = []string{
	string(DeviceWeb),
	string(DeviceMobile),
	string(DeviceBiometric),
	string(DeviceManual),
	string(DeviceAutoSync),
}

// Notes written on synthesized records.
const (
	NoteSunday       = "Sunday"
	NoteNoAttendance = "No attendance recorded"
)

// Attendance is one employee's record for one calendar date. EmployeeID is
// always the internal employee identifier.
type Attendance struct {
	ID              string
	EmployeeID      string
	Date            time.Time
	Status          Status
	ClockIn         *time.Time
	ClockOut        *time.Time
	BreakStart      *time.Time
	BreakEnd        *time.Time
	TotalWorkHours  float64
	TotalBreakHours float64
	OvertimeHours   float64
	IsLate          bool
	DeviceType      DeviceType
	IPAddress       *string
	Location        *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}

// ClockState is the position of a record in the clock-in/clock-out machine.
type ClockState string

const (
	StateNoRecord  ClockState = "no_record"
	StateClockedIn ClockState = "clocked_in"
	StateClosed    ClockState = "closed"
)

// State derives the clock state of a (possibly missing) record. Synthesized
// records have no clock_in and are terminal.
func State(att *Attendance) ClockState {
	switch {
	case att == nil:
		return StateNoRecord
	case att.ClockIn != nil && att.ClockOut == nil:
		return StateClockedIn
	default:
		return StateClosed
	}
}

// IsSynthesizedAbsence reports whether att is an Absent record written by the
// backfill job rather than by a person.
func (a Attendance) IsSynthesizedAbsence() bool {
	return a.Status == StatusAbsent && a.DeviceType == DeviceAutoSync && a.ClockIn == nil
}

// DateString formats the attendance date.
func (a Attendance) DateString() string {
	return a.Date.Format(DateLayout)
}

// DateOnly truncates t to its calendar date as midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RoundHours rounds to two decimals.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
