package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

// Policy is the organization-wide attendance rule set, evaluated in a fixed
// UTC offset.
type Policy struct {
	Location      *time.Location
	WorkStart     time.Duration // offset from local midnight
	GracePeriod   time.Duration
	StandardHours float64
}

func NewPolicy(cfg config.AttendanceConfig) (Policy, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Policy{}, err
	}
	workStart, err := cfg.WorkStartOffset()
	if err != nil {
		return Policy{}, err
	}
	if cfg.StandardShiftHours <= 0 {
		return Policy{}, fmt.Errorf("standard shift hours must be positive")
	}
	return Policy{
		Location:      loc,
		WorkStart:     workStart,
		GracePeriod:   time.Duration(cfg.GracePeriodMinutes) * time.Minute,
		StandardHours: cfg.StandardShiftHours,
	}, nil
}

// LocalDate is the organization calendar date of t.
func (p Policy) LocalDate(t time.Time) time.Time {
	return clock.LocalDate(t, p.Location)
}

// LateAfter returns the last instant on date that still counts as on time.
func (p Policy) LateAfter(date time.Time) time.Time {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, p.Location)
	return midnight.Add(p.WorkStart + p.GracePeriod)
}

// IsLate reports whether a clock-in on date is past work start plus grace.
func (p Policy) IsLate(clockIn, date time.Time) bool {
	return clockIn.After(p.LateAfter(date))
}

// Hours computes work, break and overtime hours for a closed session.
func (p Policy) Hours(clockIn, clockOut time.Time, breakStart, breakEnd *time.Time) (work, brk, overtime float64) {
	if breakStart != nil && breakEnd != nil && breakEnd.After(*breakStart) {
		brk = breakEnd.Sub(*breakStart).Hours()
	}
	work = math.Max(0, clockOut.Sub(clockIn).Hours()-brk)
	work = attendance.RoundHours(work)
	overtime = attendance.RoundHours(math.Max(0, work-p.StandardHours))
	return work, attendance.RoundHours(brk), overtime
}
