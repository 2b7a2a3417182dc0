package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// futureTolerance absorbs clock skew between devices and the server.
const futureTolerance = 2 * time.Minute

func (a *AttendanceServiceImpl) parseTimestamp(field, value string) (time.Time, error) {
	t, ok := validator.ParseTimestamp(value, a.policy.Location)
	if !ok {
		return time.Time{}, validator.Single(field, field+" must be an ISO8601 timestamp")
	}
	if t.After(a.clock.Now().Add(futureTolerance)) {
		return time.Time{}, validator.Single(field, field+" cannot be in the future")
	}
	return t.UTC(), nil
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.EmployeeRepository.Resolve(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	clockIn := a.clock.Now().UTC()
	if req.ClockIn != "" {
		if clockIn, err = a.parseTimestamp("clock_in", req.ClockIn); err != nil {
			return attendance.AttendanceResponse{}, err
		}
	}

	date := a.policy.LocalDate(clockIn)
	if req.Date != "" {
		date, _ = time.Parse(attendance.DateLayout, req.Date)
		if date.After(a.policy.LocalDate(a.clock.Now())) {
			return attendance.AttendanceResponse{}, validator.Single("date", "date cannot be in the future")
		}
	}

	isLate := a.policy.IsLate(clockIn, date)
	status := attendance.StatusPresent
	if isLate {
		status = attendance.StatusLate
	}

	record := attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       date,
		Status:     status,
		ClockIn:    &clockIn,
		IsLate:     isLate,
		DeviceType: attendance.DeviceType(req.DeviceType),
		IPAddress:  req.IPAddress,
		Location:   req.Location,
		Notes:      req.Notes,
	}

	existing, err := a.AttendanceRepository.FindByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}

	if existing != nil {
		if !existing.IsSynthesizedAbsence() {
			return attendance.AttendanceResponse{}, attendance.ErrDuplicateClockIn
		}

		// An automatic absence is replaced in place by the real clock-in.
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := a.AttendanceRepository.Update(ctx, record); err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to replace automatic absence: %w", err)
		}
		slog.Info("Clock-in replaced automatic absence",
			"employee_id", emp.ID, "date", record.DateString(), "status", record.Status)

		resp := a.mapAttendanceToResponse(record)
		resp.Warnings = append(resp.Warnings, "an automatic absence for this date was replaced")
		return resp, nil
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.AttendanceResponse{}, attendance.ErrDuplicateClockIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	slog.Info("Employee clocked in",
		"employee_id", emp.ID, "date", created.DateString(), "status", created.Status, "device_type", created.DeviceType)

	return a.mapAttendanceToResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.EmployeeRepository.Resolve(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	clockOut, err := a.parseTimestamp("clock_out", req.ClockOut)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date := a.policy.LocalDate(clockOut)
	att, err := a.AttendanceRepository.FindByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if att == nil || att.ClockIn == nil {
		// Overnight shifts close on the next calendar date, even when a
		// holiday or leave record was written for that date meanwhile.
		open, err := a.AttendanceRepository.FindOpenSession(ctx, emp.ID, date.AddDate(0, 0, -1))
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open session: %w", err)
		}
		if open != nil {
			att = open
		}
	}

	switch {
	case att == nil || att.ClockIn == nil:
		return attendance.AttendanceResponse{}, attendance.ErrNoOpenClockIn
	case att.ClockOut != nil:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	case !clockOut.After(*att.ClockIn):
		return attendance.AttendanceResponse{}, attendance.ErrClockOutBeforeIn
	}

	var breakStart, breakEnd *time.Time
	if req.BreakStart != nil && req.BreakEnd != nil {
		bs, err := a.parseTimestamp("break_start", *req.BreakStart)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		be, err := a.parseTimestamp("break_end", *req.BreakEnd)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		if !be.After(bs) {
			return attendance.AttendanceResponse{}, validator.Single("break_end", "break_end must be after break_start")
		}
		if bs.Before(*att.ClockIn) || be.After(clockOut) {
			return attendance.AttendanceResponse{}, validator.Single("break_start", "break must fall between clock_in and clock_out")
		}
		breakStart, breakEnd = &bs, &be
	}

	work, brk, overtime := a.policy.Hours(*att.ClockIn, clockOut, breakStart, breakEnd)

	att.ClockOut = &clockOut
	att.BreakStart = breakStart
	att.BreakEnd = breakEnd
	att.TotalWorkHours = work
	att.TotalBreakHours = brk
	att.OvertimeHours = overtime
	if req.Status != nil {
		att.Status = attendance.Status(*req.Status)
	}
	if req.DeviceType != nil {
		att.DeviceType = attendance.DeviceType(*req.DeviceType)
	}
	if req.Notes != nil {
		att.Notes = req.Notes
	}

	if err := a.AttendanceRepository.Update(ctx, *att); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	slog.Info("Employee clocked out",
		"employee_id", emp.ID, "date", att.DateString(), "work_hours", work, "overtime_hours", overtime)

	return a.mapAttendanceToResponse(*att), nil
}
