package attendance

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockIn(t *testing.T, f *fixture, employeeID, ts string) attendance.AttendanceResponse {
	t.Helper()
	resp, err := f.service.ClockIn(context.Background(), attendance.ClockInRequest{
		EmployeeID: employeeID,
		ClockIn:    ts,
		DeviceType: "Web",
	})
	require.NoError(t, err)
	return resp
}

func TestClockIn_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, istTime(2025, 1, 10, 18, 0))

	in := clockIn(t, f, f.dayWorker.ID, "2025-01-10T09:15:00")
	assert.Equal(t, "2025-01-10", in.Date)
	assert.Equal(t, string(attendance.StatusPresent), in.Status)
	assert.False(t, in.IsLate)
	require.NotNil(t, in.ClockIn)
	assert.Equal(t, "2025-01-10T09:15:00+05:30", *in.ClockIn)

	out, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{
		EmployeeID: f.dayWorker.ID,
		ClockOut:   "2025-01-10T17:45:00",
	})
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.InDelta(t, 8.5, out.TotalWorkHours, 0.001)
	assert.InDelta(t, 0.5, out.OvertimeHours, 0.001)
	assert.Equal(t, string(attendance.StatusPresent), out.Status)
	assert.Equal(t, 1, f.store.AttendanceCount())
}

func TestClockIn_LateWithShortGrace(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 10, 18, 0))
	policy := testPolicy(t, 10)
	svc := NewAttendanceService(f.store.Attendances(), f.store.Employees(), policy, f.clock)

	resp, err := svc.ClockIn(context.Background(), attendance.ClockInRequest{
		EmployeeID: f.dayWorker.ID,
		ClockIn:    "2025-01-10T09:15:00",
		DeviceType: "Mobile",
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), resp.Status)
	assert.True(t, resp.IsLate)
}

func TestClockIn_DefaultsToNow(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 10, 8, 50))

	resp := clockIn(t, f, f.dayWorker.ID, "")
	assert.Equal(t, "2025-01-10", resp.Date)
	assert.Equal(t, "2025-01-10T08:50:00+05:30", *resp.ClockIn)
}

func TestClockIn_AcceptsEmployeeCode(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 10, 18, 0))

	resp := clockIn(t, f, "EMP001", "2025-01-10T09:00:00")
	assert.Equal(t, f.dayWorker.ID, resp.EmployeeID)
}

func TestClockIn_Duplicate(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 10, 18, 0))
	clockIn(t, f, f.dayWorker.ID, "2025-01-10T09:00:00")

	_, err := f.service.ClockIn(context.Background(), attendance.ClockInRequest{
		EmployeeID: f.dayWorker.ID,
		ClockIn:    "2025-01-10T10:00:00",
		DeviceType: "Web",
	})
	assert.ErrorIs(t, err, attendance.ErrDuplicateClockIn)
	assert.Equal(t, 1, f.store.AttendanceCount())
}

func TestClockIn_DuplicateOnHolidayRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, istTime(2025, 1, 10, 18, 0))
	_, err := f.store.Attendances().BulkInsert(ctx, []attendance.Attendance{{
		EmployeeID: f.dayWorker.ID,
		Date:       date(2025, 1, 10),
		Status:     attendance.StatusHoliday,
		DeviceType: attendance.DeviceAutoSync,
	}})
	require.NoError(t, err)

	_, err = f.service.ClockIn(ctx, attendance.ClockInRequest{
		EmployeeID: f.dayWorker.ID,
		ClockIn:    "2025-01-10T09:00:00",
		DeviceType: "Web",
	})
	assert.ErrorIs(t, err, attendance.ErrDuplicateClockIn)
}

func TestClockIn_ReplacesSynthesizedAbsence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, istTime(2025, 1, 10, 18, 0))
	_, err := f.store.Attendances().BulkInsert(ctx, []attendance.Attendance{{
		EmployeeID: f.dayWorker.ID,
		Date:       date(2025, 1, 10),
		Status:     attendance.StatusAbsent,
		DeviceType: attendance.DeviceAutoSync,
		Notes:      strPtr(attendance.NoteNoAttendance),
	}})
	require.NoError(t, err)
	absent, err := f.store.Attendances().FindByEmployeeAndDate(ctx, f.dayWorker.ID, date(2025, 1, 10))
	require.NoError(t, err)
	require.NotNil(t, absent)

	resp := clockIn(t, f, f.dayWorker.ID, "2025-01-10T09:30:00")
	assert.Equal(t, absent.ID, resp.ID)
	assert.Equal(t, string(attendance.StatusLate), resp.Status)
	assert.NotEmpty(t, resp.Warnings)
	assert.Equal(t, 1, f.store.AttendanceCount())

	stored, err := f.store.Attendances().GetByID(ctx, absent.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.DeviceWeb, stored.DeviceType)
	require.NotNil(t, stored.ClockIn)
}

func TestClockIn_Validation(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 10, 18, 0))
	ctx := context.Background()

	tests := []struct {
		name  string
		req   attendance.ClockInRequest
		field string
	}{
		{"missing device", attendance.ClockInRequest{EmployeeID: f.dayWorker.ID}, "device_type"},
		{"bad device", attendance.ClockInRequest{EmployeeID: f.dayWorker.ID, DeviceType: "Fax"}, "device_type"},
		{"bad timestamp", attendance.ClockInRequest{EmployeeID: f.dayWorker.ID, DeviceType: "Web", ClockIn: "nine"}, "clock_in"},
		{"future timestamp", attendance.ClockInRequest{EmployeeID: f.dayWorker.ID, DeviceType: "Web", ClockIn: "2025-01-10T20:00:00"}, "clock_in"},
		{"future date", attendance.ClockInRequest{EmployeeID: f.dayWorker.ID, DeviceType: "Web", Date: "2025-01-11"}, "date"},
		{"bad ip", attendance.ClockInRequest{EmployeeID: f.dayWorker.ID, DeviceType: "Web", IPAddress: strPtr("not-an-ip")}, "ip_address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.ClockIn(ctx, tt.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
	assert.Zero(t, f.store.AttendanceCount())
}

func TestClockIn_UnknownEmployee(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 10, 18, 0))

	_, err := f.service.ClockIn(context.Background(), attendance.ClockInRequest{
		EmployeeID: "EMP404",
		DeviceType: "Web",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestClockOut_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing clock_out", func(t *testing.T) {
		f := newFixture(t, istTime(2025, 1, 10, 18, 0))
		clockIn(t, f, f.dayWorker.ID, "2025-01-10T09:00:00")

		_, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: f.dayWorker.ID})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "clock_out")
	})

	t.Run("no open record", func(t *testing.T) {
		f := newFixture(t, istTime(2025, 1, 10, 18, 0))

		_, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{
			EmployeeID: f.dayWorker.ID,
			ClockOut:   "2025-01-10T17:00:00",
		})
		assert.ErrorIs(t, err, attendance.ErrNoOpenClockIn)
	})

	t.Run("synthesized record has no clock-in", func(t *testing.T) {
		f := newFixture(t, istTime(2025, 1, 10, 18, 0))
		_, err := f.store.Attendances().BulkInsert(ctx, []attendance.Attendance{{
			EmployeeID: f.dayWorker.ID,
			Date:       date(2025, 1, 10),
			Status:     attendance.StatusAbsent,
			DeviceType: attendance.DeviceAutoSync,
		}})
		require.NoError(t, err)

		_, err = f.service.ClockOut(ctx, attendance.ClockOutRequest{
			EmployeeID: f.dayWorker.ID,
			ClockOut:   "2025-01-10T17:00:00",
		})
		assert.ErrorIs(t, err, attendance.ErrNoOpenClockIn)
	})

	t.Run("already clocked out", func(t *testing.T) {
		f := newFixture(t, istTime(2025, 1, 10, 18, 0))
		clockIn(t, f, f.dayWorker.ID, "2025-01-10T09:00:00")
		_, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{
			EmployeeID: f.dayWorker.ID,
			ClockOut:   "2025-01-10T17:00:00",
		})
		require.NoError(t, err)

		_, err = f.service.ClockOut(ctx, attendance.ClockOutRequest{
			EmployeeID: f.dayWorker.ID,
			ClockOut:   "2025-01-10T17:30:00",
		})
		assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
	})

	t.Run("clock_out before clock_in", func(t *testing.T) {
		f := newFixture(t, istTime(2025, 1, 10, 18, 0))
		clockIn(t, f, f.dayWorker.ID, "2025-01-10T09:00:00")

		_, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{
			EmployeeID: f.dayWorker.ID,
			ClockOut:   "2025-01-10T08:00:00",
		})
		assert.ErrorIs(t, err, attendance.ErrClockOutBeforeIn)
	})

	t.Run("break outside session", func(t *testing.T) {
		f := newFixture(t, istTime(2025, 1, 10, 18, 0))
		clockIn(t, f, f.dayWorker.ID, "2025-01-10T09:00:00")

		_, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{
			EmployeeID: f.dayWorker.ID,
			ClockOut:   "2025-01-10T17:00:00",
			BreakStart: strPtr("2025-01-10T08:00:00"),
			BreakEnd:   strPtr("2025-01-10T08:30:00"),
		})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
	})
}

func TestClockOut_WithBreak(t *testing.T) {
	f := newFixture(t, istTime(2025, 1, 10, 18, 0))
	clockIn(t, f, f.dayWorker.ID, "2025-01-10T09:00:00")

	out, err := f.service.ClockOut(context.Background(), attendance.ClockOutRequest{
		EmployeeID: f.dayWorker.ID,
		ClockOut:   "2025-01-10T17:30:00",
		BreakStart: strPtr("2025-01-10T13:00:00"),
		BreakEnd:   strPtr("2025-01-10T13:30:00"),
		Notes:      strPtr("left after standup"),
	})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, out.TotalWorkHours, 0.001)
	assert.InDelta(t, 0.5, out.TotalBreakHours, 0.001)
	assert.Zero(t, out.OvertimeHours)
	assert.Equal(t, "left after standup", *out.Notes)
}

func TestClockOut_OvernightShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, istTime(2025, 1, 10, 21, 5))
	in := clockIn(t, f, f.nightOwl.ID, "2025-01-10T21:00:00")
	assert.Equal(t, "2025-01-10", in.Date)

	f.clock.Set(istTime(2025, 1, 11, 6, 5))
	out, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{
		EmployeeID: f.nightOwl.ID,
		ClockOut:   "2025-01-11T06:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "2025-01-10", out.Date)
	assert.InDelta(t, 9.0, out.TotalWorkHours, 0.001)
	assert.InDelta(t, 1.0, out.OvertimeHours, 0.001)
	assert.Equal(t, 1, f.store.AttendanceCount())
}

func TestClockOut_OvernightShiftAcrossSundayRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, istTime(2025, 1, 11, 21, 5))
	in := clockIn(t, f, f.nightOwl.ID, "2025-01-11T21:00:00")

	f.clock.Set(istTime(2025, 1, 12, 0, 5))
	res := f.generator.Generate(ctx, attendance.GenerateRequest{Date: "2025-01-12", PreplannedOnly: true})
	require.True(t, res.Success)
	require.Equal(t, 2, res.RecordsCreated)

	f.clock.Set(istTime(2025, 1, 12, 6, 5))
	out, err := f.service.ClockOut(ctx, attendance.ClockOutRequest{
		EmployeeID: f.nightOwl.ID,
		ClockOut:   "2025-01-12T06:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "2025-01-11", out.Date)
	assert.InDelta(t, 9.0, out.TotalWorkHours, 0.001)

	sunday := recordFor(t, f, f.nightOwl.ID, date(2025, 1, 12))
	require.NotNil(t, sunday)
	assert.Equal(t, attendance.StatusHoliday, sunday.Status)
	assert.Nil(t, sunday.ClockOut)
}
