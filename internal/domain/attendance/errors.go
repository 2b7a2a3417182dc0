package attendance

import "errors"

// Attendance domain errors
var (
	// Clock errors
	ErrDuplicateClockIn  = errors.New("attendance already recorded for this date")
	ErrNoOpenClockIn     = errors.New("no open clock-in found for this date")
	ErrAlreadyClockedOut = errors.New("already clocked out for this date")
	ErrClockOutBeforeIn  = errors.New("clock_out must be after clock_in")

	// Store errors
	ErrDuplicateRecord    = errors.New("attendance record already exists for employee and date")
	ErrAttendanceNotFound = errors.New("attendance record not found")

	// Backfill errors
	ErrFutureBackfill = errors.New("cannot generate attendance for a future date")

	// Import errors
	ErrEmptyImport        = errors.New("no valid attendance rows found in file")
	ErrInvalidSpreadsheet = errors.New("unable to read attendance spreadsheet")
)
