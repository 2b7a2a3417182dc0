package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-01-15 is a Wednesday, 2025-01-12 a Sunday.
var wednesday = date(2025, 1, 15)

func recordFor(t *testing.T, f *fixture, employeeID string, d time.Time) *attendance.Attendance {
	t.Helper()
	att, err := f.store.Attendances().FindByEmployeeAndDate(context.Background(), employeeID, d)
	require.NoError(t, err)
	return att
}

func TestGenerate_DayShiftScenario(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{
		Date:        "2025-01-15",
		ShiftFilter: attendance.ShiftFilterDay,
	})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, 1, result.RecordsCreated)
	assert.Equal(t, "2025-01-15", result.Date)

	att := recordFor(t, f, f.dayWorker.ID, wednesday)
	require.NotNil(t, att)
	assert.Equal(t, attendance.StatusAbsent, att.Status)
	assert.Equal(t, attendance.DeviceAutoSync, att.DeviceType)
	assert.Equal(t, attendance.NoteNoAttendance, *att.Notes)
	assert.Nil(t, att.ClockIn)

	assert.Nil(t, recordFor(t, f, f.nightOwl.ID, wednesday))
}

func TestGenerate_NightShiftFilter(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 16, 8, 0))

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{
		Date:        "2025-01-15",
		ShiftFilter: attendance.ShiftFilterNight,
	})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, 1, result.RecordsCreated)

	assert.Nil(t, recordFor(t, f, f.dayWorker.ID, wednesday))
	att := recordFor(t, f, f.nightOwl.ID, wednesday)
	require.NotNil(t, att)
	assert.Equal(t, attendance.StatusAbsent, att.Status)
}

func TestGenerate_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))
	req := attendance.GenerateRequest{Date: "2025-01-15"}

	first := f.generator.Generate(ctx, req)
	require.True(t, first.Success)
	assert.Equal(t, 2, first.RecordsCreated)

	second := f.generator.Generate(ctx, req)
	require.True(t, second.Success)
	assert.Zero(t, second.RecordsCreated)
	assert.Equal(t, 2, f.store.AttendanceCount())
}

func TestGenerate_NoFutureBackfill(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "2025-01-16"})
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, attendance.ErrFutureBackfill)
	assert.Zero(t, result.RecordsCreated)
	assert.Zero(t, f.store.AttendanceCount())
}

func TestGenerate_TodayIsNotFutureInLocalTime(t *testing.T) {
	// 00:10 local on the 16th is still the 15th in UTC.
	f := newFixture(t, istTime(2025, 1, 16, 0, 10))

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "2025-01-16", PreplannedOnly: true})
	assert.True(t, result.Success, result.Message)
}

func TestGenerate_HolidayOutranksLeave(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))
	f.store.AddHoliday(holiday.Holiday{Date: wednesday, Name: "Makar Sankranti", Status: holiday.StatusActive})
	f.store.AddLeaveRequest(leave.LeaveRequest{
		EmployeeID: f.dayWorker.ID,
		StartDate:  date(2025, 1, 14),
		EndDate:    date(2025, 1, 16),
		Reason:     "Family trip",
		Status:     leave.LeaveRequestStatusApproved,
	})

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "2025-01-15"})
	require.True(t, result.Success)
	assert.Equal(t, 2, result.RecordsCreated)

	for _, id := range []string{f.dayWorker.ID, f.nightOwl.ID} {
		att := recordFor(t, f, id, wednesday)
		require.NotNil(t, att)
		assert.Equal(t, attendance.StatusHoliday, att.Status)
		assert.Equal(t, "Makar Sankranti", *att.Notes)
	}
}

func TestGenerate_InactiveHolidayIgnored(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))
	f.store.AddHoliday(holiday.Holiday{Date: wednesday, Name: "Cancelled", Status: holiday.StatusInactive})

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "2025-01-15", PreplannedOnly: true})
	require.True(t, result.Success)
	assert.Zero(t, result.RecordsCreated)
}

func TestGenerate_ApprovedLeaveOnly(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))
	f.store.AddLeaveRequest(leave.LeaveRequest{
		EmployeeID: f.dayWorker.ID,
		StartDate:  wednesday,
		EndDate:    wednesday,
		Reason:     "Medical appointment",
		Status:     leave.LeaveRequestStatusApproved,
	})
	f.store.AddLeaveRequest(leave.LeaveRequest{
		EmployeeID: f.nightOwl.ID,
		StartDate:  wednesday,
		EndDate:    wednesday,
		Reason:     "Not approved yet",
		Status:     leave.LeaveRequestStatusWaitingApproval,
	})

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "2025-01-15"})
	require.True(t, result.Success)

	att := recordFor(t, f, f.dayWorker.ID, wednesday)
	require.NotNil(t, att)
	assert.Equal(t, attendance.StatusLeave, att.Status)
	assert.Equal(t, "Medical appointment", *att.Notes)

	att = recordFor(t, f, f.nightOwl.ID, wednesday)
	require.NotNil(t, att)
	assert.Equal(t, attendance.StatusAbsent, att.Status)
}

func TestGenerate_SundayDefault(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))
	sunday := date(2025, 1, 12)

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "2025-01-12"})
	require.True(t, result.Success)
	assert.Equal(t, 2, result.RecordsCreated)

	att := recordFor(t, f, f.dayWorker.ID, sunday)
	require.NotNil(t, att)
	assert.Equal(t, attendance.StatusHoliday, att.Status)
	assert.Equal(t, attendance.NoteSunday, *att.Notes)
}

func TestGenerate_PreplannedOnlySkipsAbsences(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 0, 5))
	f.store.AddLeaveRequest(leave.LeaveRequest{
		EmployeeID: f.nightOwl.ID,
		StartDate:  wednesday,
		EndDate:    wednesday,
		Reason:     "Exam",
		Status:     leave.LeaveRequestStatusApproved,
	})

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "2025-01-15", PreplannedOnly: true})
	require.True(t, result.Success)
	assert.Equal(t, 1, result.RecordsCreated)
	assert.Nil(t, recordFor(t, f, f.dayWorker.ID, wednesday))

	att := recordFor(t, f, f.nightOwl.ID, wednesday)
	require.NotNil(t, att)
	assert.Equal(t, attendance.StatusLeave, att.Status)
}

func TestGenerate_KeepsExistingRecords(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))
	clockIn(t, f, f.dayWorker.ID, "2025-01-15T09:00:00")

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "2025-01-15"})
	require.True(t, result.Success)
	assert.Equal(t, 1, result.RecordsCreated)

	att := recordFor(t, f, f.dayWorker.ID, wednesday)
	require.NotNil(t, att)
	assert.Equal(t, attendance.StatusPresent, att.Status)
	assert.NotNil(t, att.ClockIn)
}

func TestGenerate_SkipsInactiveEmployees(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))
	gone := f.store.AddEmployee(employee.Employee{
		EmployeeCode:     "EMP003",
		FullName:         "Former Staff",
		EmploymentStatus: employee.EmploymentStatusResigned,
	})

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "2025-01-15"})
	require.True(t, result.Success)
	assert.Equal(t, 2, result.RecordsCreated)
	assert.Nil(t, recordFor(t, f, gone.ID, wednesday))
}

func TestGenerate_StoreFailureIsReported(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))
	f.store.FailBulkInsert(errors.New("connection refused"))

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "2025-01-15"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "connection refused")
	assert.Zero(t, f.store.AttendanceCount())
}

func TestGenerate_InvalidRequest(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 15, 23, 57))

	result := f.generator.Generate(context.Background(), attendance.GenerateRequest{Date: "15/01/2025"})
	assert.False(t, result.Success)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, result.Err, &verrs)
}

func TestClassify_Priority(t *testing.T) {
	snap := DaySnapshot{
		Date:     wednesday,
		Holiday:  &holiday.Holiday{Name: "Republic Day"},
		LeaveMap: map[string]string{"e1": "Vacation"},
	}

	status, note, ok := classify(snap, "e1", false)
	require.True(t, ok)
	assert.Equal(t, attendance.StatusHoliday, status)
	assert.Equal(t, "Republic Day", note)

	snap.Holiday = nil
	status, note, ok = classify(snap, "e1", true)
	require.True(t, ok)
	assert.Equal(t, attendance.StatusLeave, status)
	assert.Equal(t, "Vacation", note)

	_, _, ok = classify(snap, "e2", true)
	assert.False(t, ok)

	status, _, ok = classify(snap, "e2", false)
	require.True(t, ok)
	assert.Equal(t, attendance.StatusAbsent, status)
}
