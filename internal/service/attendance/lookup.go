package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
)

// DaySnapshot is the read-only view of one calendar date that backfill
// decisions are made from.
type DaySnapshot struct {
	Date      time.Time
	Employees []employee.Employee
	ShiftMap  map[string]bool   // shift id -> is_night_shift
	Holiday   *holiday.Holiday  // active holiday on Date, if any
	LeaveMap  map[string]string // employee id -> leave reason
}

// ShiftKind resolves an employee's shift. Department defaults are not
// consulted: unassigned employees are day shift.
func (s DaySnapshot) ShiftKind(emp employee.Employee) shift.Kind {
	return shift.KindOf(emp.ShiftID, s.ShiftMap)
}

// Lookup assembles DaySnapshots from the shift, holiday and leave sources.
type Lookup struct {
	employee.EmployeeRepository
	shift.ShiftRepository
	holiday.HolidayRepository
	leave.LeaveRequestRepository
}

func NewLookup(
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	holidayRepo holiday.HolidayRepository,
	leaveRepo leave.LeaveRequestRepository,
) *Lookup {
	return &Lookup{
		EmployeeRepository:     employeeRepo,
		ShiftRepository:        shiftRepo,
		HolidayRepository:      holidayRepo,
		LeaveRequestRepository: leaveRepo,
	}
}

// Snapshot loads everything needed to classify date.
func (l *Lookup) Snapshot(ctx context.Context, date time.Time) (DaySnapshot, error) {
	employees, err := l.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return DaySnapshot{}, fmt.Errorf("failed to list employees: %w", err)
	}

	shifts, err := l.ShiftRepository.ListAll(ctx)
	if err != nil {
		return DaySnapshot{}, fmt.Errorf("failed to list shifts: %w", err)
	}
	shiftMap := make(map[string]bool, len(shifts))
	for _, sh := range shifts {
		shiftMap[sh.ID] = sh.IsNightShift
	}

	hol, err := l.HolidayRepository.GetActiveByDate(ctx, date)
	if err != nil {
		return DaySnapshot{}, fmt.Errorf("failed to get holiday: %w", err)
	}

	leaves, err := l.LeaveRequestRepository.ListApprovedCovering(ctx, date)
	if err != nil {
		return DaySnapshot{}, fmt.Errorf("failed to list approved leave: %w", err)
	}
	leaveMap := make(map[string]string, len(leaves))
	for _, req := range leaves {
		if !req.IsApproved() || !req.Covers(date) {
			continue
		}
		if _, seen := leaveMap[req.EmployeeID]; !seen {
			leaveMap[req.EmployeeID] = req.Reason
		}
	}

	return DaySnapshot{
		Date:      date,
		Employees: employees,
		ShiftMap:  shiftMap,
		Holiday:   hol,
		LeaveMap:  leaveMap,
	}, nil
}
