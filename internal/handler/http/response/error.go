package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrDuplicateClockIn):
		BadRequest(w, "Attendance already recorded for this date", nil)
	case errors.Is(err, attendance.ErrNoOpenClockIn):
		BadRequest(w, "No clock-in found to close", nil)
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		BadRequest(w, "Already clocked out for this date", nil)
	case errors.Is(err, attendance.ErrClockOutBeforeIn):
		BadRequest(w, "clock_out must be after clock_in", nil)
	case errors.Is(err, attendance.ErrFutureBackfill):
		BadRequest(w, "Cannot generate attendance for a future date", nil)
	case errors.Is(err, attendance.ErrEmptyImport):
		BadRequest(w, "No valid attendance rows found in file", nil)
	case errors.Is(err, attendance.ErrInvalidSpreadsheet):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeRefRequired):
		BadRequest(w, "employee_id is required", nil)

	// Access errors
	case errors.Is(err, user.ErrManagerAccessRequired), errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrEmployeeLinkRequired):
		Forbidden(w, "Account is not linked to an employee")

	// Store errors
	case errors.Is(err, database.ErrTimeout):
		slog.Warn("Request failed on database timeout", "error", err)
		ServiceUnavailable(w, "Service temporarily unavailable, please retry")

	// Default
	default:
		slog.Error("Unhandled request error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
