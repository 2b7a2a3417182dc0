package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policy Policy
	clock  clock.Clock
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	policy Policy,
	clk clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		policy:               policy,
		clock:                clk,
	}
}

// timePtrToString formats t in the organization offset.
func (a *AttendanceServiceImpl) timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.In(a.policy.Location).Format(time.RFC3339)
	return &format
}

func (a *AttendanceServiceImpl) mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:              att.ID,
		EmployeeID:      att.EmployeeID,
		EmployeeName:    att.EmployeeName,
		EmployeeCode:    att.EmployeeCode,
		Date:            att.DateString(),
		Status:          string(att.Status),
		ClockIn:         a.timePtrToString(att.ClockIn),
		ClockOut:        a.timePtrToString(att.ClockOut),
		BreakStart:      a.timePtrToString(att.BreakStart),
		BreakEnd:        a.timePtrToString(att.BreakEnd),
		TotalWorkHours:  att.TotalWorkHours,
		TotalBreakHours: att.TotalBreakHours,
		OvertimeHours:   att.OvertimeHours,
		IsLate:          att.IsLate,
		DeviceType:      string(att.DeviceType),
		IPAddress:       att.IPAddress,
		Location:        att.Location,
		Notes:           att.Notes,
		CreatedAt:       att.CreatedAt.In(a.policy.Location).Format(time.RFC3339),
		UpdatedAt:       att.UpdatedAt.In(a.policy.Location).Format(time.RFC3339),
	}
}

func (a *AttendanceServiceImpl) buildListResponse(records []attendance.Attendance, total int64, page, limit int, counts map[attendance.Status]int64) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, a.mapAttendanceToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 || len(records) == 0 {
		showing = fmt.Sprintf("0 of %d", total)
	}

	var statusCounts map[string]int64
	if counts != nil {
		statusCounts = make(map[string]int64, len(attendance.StatusValues))
		for _, s := range attendance.StatusValues {
			statusCounts[s] = counts[attendance.Status(s)]
		}
	}

	return attendance.ListAttendanceResponse{
		TotalCount:   total,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
		Showing:      showing,
		StatusCounts: statusCounts,
		Attendances:  responses,
	}
}

// GetMyHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyHistory(ctx context.Context, employeeID string, filter attendance.MyHistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	emp, err := a.EmployeeRepository.Resolve(ctx, employeeID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	full := attendance.AttendanceFilter{
		EmployeeID: &emp.ID,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Status:     filter.Status,
		Page:       filter.Page,
		Limit:      filter.Limit,
		SortBy:     "date",
		SortOrder:  "desc",
	}

	records, total, err := a.AttendanceRepository.List(ctx, full)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get attendance history: %w", err)
	}

	return a.buildListResponse(records, total, full.Page, full.Limit, nil), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	// Accept both identifier forms, always query by internal ID.
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		emp, err := a.EmployeeRepository.Resolve(ctx, *filter.EmployeeID)
		if err != nil {
			return attendance.ListAttendanceResponse{}, err
		}
		filter.EmployeeID = &emp.ID
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	counts, err := a.AttendanceRepository.CountByStatus(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to count attendance by status: %w", err)
	}

	return a.buildListResponse(records, total, filter.Page, filter.Limit, counts), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	att, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a.mapAttendanceToResponse(att), nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	emp, err := a.EmployeeRepository.Resolve(ctx, employeeID)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	today := a.policy.LocalDate(a.clock.Now())
	att, err := a.AttendanceRepository.FindByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	// A night shift opened yesterday can still be closed today.
	current := att
	if current == nil || current.ClockIn == nil {
		open, err := a.AttendanceRepository.FindOpenSession(ctx, emp.ID, today.AddDate(0, 0, -1))
		if err != nil {
			return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get open session: %w", err)
		}
		if open != nil {
			current = open
		}
	}

	resp := attendance.TodayStatusResponse{
		Date:  today.Format(attendance.DateLayout),
		State: attendance.State(current),
	}
	if current != nil {
		r := a.mapAttendanceToResponse(*current)
		resp.Attendance = &r
	}

	resp.CanClockIn = att == nil || att.IsSynthesizedAbsence()
	resp.CanClockOut = resp.State == attendance.StateClockedIn

	switch {
	case resp.CanClockOut:
		resp.Message = "clocked in, waiting for clock-out"
	case att == nil:
		resp.Message = "no attendance recorded today"
	case resp.CanClockIn:
		resp.Message = "marked absent automatically, clock-in will replace it"
	default:
		resp.Message = fmt.Sprintf("attendance closed with status %s", att.Status)
	}

	return resp, nil
}

// summaryWindow returns the first and last date of the month or ISO week
// containing anchor.
func summaryWindow(period attendance.SummaryPeriod, anchor time.Time) (time.Time, time.Time) {
	if period == attendance.PeriodWeek {
		offset := (int(anchor.Weekday()) + 6) % 7 // days since Monday
		start := anchor.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6)
	}
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// GetSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetSummary(ctx context.Context, req attendance.SummaryRequest) (attendance.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	emp, err := a.EmployeeRepository.Resolve(ctx, req.EmployeeID)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	anchor := a.policy.LocalDate(a.clock.Now())
	if req.Date != "" {
		anchor, _ = time.Parse(attendance.DateLayout, req.Date)
	}
	start, end := summaryWindow(req.Period, anchor)

	records, err := a.AttendanceRepository.FindByDateRange(ctx, emp.ID, start, end)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to get attendance for summary: %w", err)
	}

	summary := attendance.SummaryResponse{
		EmployeeID:   emp.ID,
		Period:       req.Period,
		StartDate:    start.Format(attendance.DateLayout),
		EndDate:      end.Format(attendance.DateLayout),
		DaysRecorded: len(records),
		StatusCounts: make(map[string]int64, len(attendance.StatusValues)),
	}
	for _, s := range attendance.StatusValues {
		summary.StatusCounts[s] = 0
	}

	workedDays := 0
	for _, att := range records {
		summary.StatusCounts[string(att.Status)]++
		if att.IsLate {
			summary.LateCount++
		}
		summary.TotalWorkHours += att.TotalWorkHours
		summary.TotalBreakHours += att.TotalBreakHours
		summary.OvertimeHours += att.OvertimeHours
		if att.TotalWorkHours > 0 {
			workedDays++
		}
	}

	summary.TotalWorkHours = attendance.RoundHours(summary.TotalWorkHours)
	summary.TotalBreakHours = attendance.RoundHours(summary.TotalBreakHours)
	summary.OvertimeHours = attendance.RoundHours(summary.OvertimeHours)
	if workedDays > 0 {
		summary.AverageWorkDay = attendance.RoundHours(summary.TotalWorkHours / float64(workedDays))
	}

	return summary, nil
}
