package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("UTC+05:30", 5*3600+30*60)

func testPolicy(t *testing.T, graceMinutes int) Policy {
	t.Helper()
	p, err := NewPolicy(config.AttendanceConfig{
		UTCOffset:          "+05:30",
		WorkStart:          "09:00",
		GracePeriodMinutes: graceMinutes,
		StandardShiftHours: 8,
	})
	require.NoError(t, err)
	return p
}

func istTime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, ist)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

type fixture struct {
	store      *memory.Store
	clock      *clock.Fixed
	policy     Policy
	service    *AttendanceServiceImpl
	generator  *BackfillGenerator
	importer   *BiometricImporter
	nightShift shift.Shift
	dayWorker  employee.Employee
	nightOwl   employee.Employee
}

// newFixture builds services over an in-memory store with one day-shift
// employee (EMP001, no shift assigned) and one night-shift employee (EMP002).
func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFixed(now)
	policy := testPolicy(t, 15)

	night := store.AddShift(shift.Shift{Name: "Night Shift", IsNightShift: true})
	store.AddShift(shift.Shift{Name: "General Shift"})
	day := store.AddEmployee(employee.Employee{EmployeeCode: "EMP001", FullName: "Asha Rao"})
	owl := store.AddEmployee(employee.Employee{EmployeeCode: "EMP002", FullName: "Vikram Nair", ShiftID: &night.ID})

	lookup := NewLookup(store.Employees(), store.Shifts(), store.Holidays(), store.LeaveRequests())

	return &fixture{
		store:      store,
		clock:      clk,
		policy:     policy,
		service:    NewAttendanceService(store.Attendances(), store.Employees(), policy, clk).(*AttendanceServiceImpl),
		generator:  NewBackfillGenerator(store.Attendances(), lookup, policy, clk),
		importer:   NewBiometricImporter(store.Attendances(), store.Employees(), policy, nil),
		nightShift: night,
		dayWorker:  day,
		nightOwl:   owl,
	}
}
