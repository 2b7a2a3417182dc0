package attendance

import (
	"context"
	"io"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn opens today's record for the employee
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes the employee's open record and computes hours
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// GetMyHistory retrieves attendance records for the authenticated employee
	GetMyHistory(ctx context.Context, employeeID string, filter MyHistoryFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters and per-status counts
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// GetTodayStatus reports whether the employee can clock in or out now
	GetTodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)

	// GetSummary aggregates one employee's month or week
	GetSummary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
}

// Generator synthesizes records for employees with none on a date.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) GenerateResult
}

// Importer loads records from an attendance spreadsheet export.
type Importer interface {
	Import(ctx context.Context, filename string, r io.Reader) (ImportResult, error)
}
