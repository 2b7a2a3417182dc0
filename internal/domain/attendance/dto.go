package attendance

import (
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockInRequest struct {
	EmployeeID string  `json:"-"`
	Date       string  `json:"date"`
	ClockIn    string  `json:"clock_in"`
	DeviceType string  `json:"device_type" validate:"required,oneof=Web Mobile Biometric Manual"`
	IPAddress  *string `json:"ip_address,omitempty" validate:"omitempty,ip"`
	Location   *string `json:"location,omitempty" validate:"omitempty,max=255"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (r *ClockInRequest) Validate() error {
	errs := validator.Struct(r)

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Date != "" {
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.ClockIn != "" {
		if _, valid := validator.ParseTimestamp(r.ClockIn, nil); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in",
				Message: "clock_in must be an ISO8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	EmployeeID string  `json:"-"`
	ClockOut   string  `json:"clock_out"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
	DeviceType *string `json:"device_type,omitempty" validate:"omitempty,oneof=Web Mobile Biometric Manual"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Status     *string `json:"status,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	errs := validator.Struct(r)

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.ClockOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out is required",
		})
	} else if _, valid := validator.ParseTimestamp(r.ClockOut, nil); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be an ISO8601 timestamp",
		})
	}

	if (r.BreakStart == nil) != (r.BreakEnd == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "break_end",
			Message: "break_start and break_end must be provided together",
		})
	}
	if r.BreakStart != nil {
		if _, valid := validator.ParseTimestamp(*r.BreakStart, nil); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "break_start",
				Message: "break_start must be an ISO8601 timestamp",
			})
		}
	}
	if r.BreakEnd != nil {
		if _, valid := validator.ParseTimestamp(*r.BreakEnd, nil); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "break_end",
				Message: "break_end must be an ISO8601 timestamp",
			})
		}
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	EmployeeName    *string  `json:"employee_name,omitempty"`
	EmployeeCode    *string  `json:"employee_code,omitempty"`
	Date            string   `json:"date"`
	Status          string   `json:"status"`
	ClockIn         *string  `json:"clock_in"`
	ClockOut        *string  `json:"clock_out"`
	BreakStart      *string  `json:"break_start"`
	BreakEnd        *string  `json:"break_end"`
	TotalWorkHours  float64  `json:"total_work_hours"`
	TotalBreakHours float64  `json:"total_break_hours"`
	OvertimeHours   float64  `json:"overtime_hours"`
	IsLate          bool     `json:"is_late"`
	DeviceType      string   `json:"device_type"`
	IPAddress       *string  `json:"ip_address,omitempty"`
	Location        *string  `json:"location,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	Warnings        []string `json:"warnings,omitempty"`
}

// ========================================
// LISTING DTOs
// ========================================

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"` // internal or business ID
	Date       *string `json:"date,omitempty"`        // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"`  // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`    // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, clock_in, clock_out, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	errs = append(errs, validateDateFields(f.Date, f.StartDate, f.EndDate)...)

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"date", "clock_in", "clock_out", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, clock_in, clock_out, status",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // newest first
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MyHistoryFilter is the self-service variant of AttendanceFilter.
type MyHistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (f *MyHistoryFilter) Validate() error {
	full := AttendanceFilter{
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Status:    f.Status,
		Page:      f.Page,
		Limit:     f.Limit,
	}
	if err := full.Validate(); err != nil {
		return err
	}
	f.Page, f.Limit = full.Page, full.Limit
	return nil
}

func validateDateFields(date, start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if date != nil && *date != "" {
		if _, valid := validator.IsValidDate(*date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	var startOK, endOK bool
	if start != nil && *start != "" {
		if _, startOK = validator.IsValidDate(*start); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if end != nil && *end != "" {
		if _, endOK = validator.IsValidDate(*end); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && *end < *start {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	return errs
}

type ListAttendanceResponse struct {
	TotalCount   int64                `json:"total_count"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	TotalPages   int                  `json:"total_pages"`
	Showing      string               `json:"showing"`
	StatusCounts map[string]int64     `json:"status_counts,omitempty"`
	Attendances  []AttendanceResponse `json:"attendances"`
}

// ========================================
// BACKFILL DTOs
// ========================================

type ShiftFilter string

const (
	ShiftFilterNone  ShiftFilter = ""
	ShiftFilterDay   ShiftFilter = "Day"
	ShiftFilterNight ShiftFilter = "Night"
)

// ParseShiftFilter accepts "", "day", "night" in any case.
func ParseShiftFilter(s string) (ShiftFilter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "all":
		return ShiftFilterNone, true
	case "day":
		return ShiftFilterDay, true
	case "night":
		return ShiftFilterNight, true
	}
	return ShiftFilterNone, false
}

type GenerateRequest struct {
	Date           string      `json:"date"`
	PreplannedOnly bool        `json:"preplanned_only"`
	ShiftFilter    ShiftFilter `json:"shift_filter,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	switch r.ShiftFilter {
	case ShiftFilterNone, ShiftFilterDay, ShiftFilterNight:
	default:
		errs = append(errs, validator.ValidationError{Field: "shift", Message: "shift must be one of: Day, Night"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GenerateResult reports a backfill run. Failures are carried here rather
// than returned as errors so scheduled runs never abort the scheduler.
type GenerateResult struct {
	Success        bool        `json:"success"`
	Message        string      `json:"message"`
	RecordsCreated int         `json:"records_created"`
	Date           string      `json:"date"`
	ShiftFilter    ShiftFilter `json:"shift_filter,omitempty"`
	PreplannedOnly bool        `json:"preplanned_only"`

	// Err is the cause of a failed run, for callers that map it to a status.
	Err error `json:"-"`
}

// ========================================
// SUMMARY DTOs
// ========================================

type SummaryPeriod string

const (
	PeriodMonth SummaryPeriod = "month"
	PeriodWeek  SummaryPeriod = "week"
)

type SummaryRequest struct {
	EmployeeID string        `json:"employee_id"` // internal or business ID
	Period     SummaryPeriod `json:"period"`
	Date       string        `json:"date"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.Period == "" {
		r.Period = PeriodMonth
	}
	if r.Period != PeriodMonth && r.Period != PeriodWeek {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "period must be one of: month, week"})
	}
	if r.Date != "" {
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryResponse struct {
	EmployeeID      string           `json:"employee_id"`
	Period          SummaryPeriod    `json:"period"`
	StartDate       string           `json:"start_date"`
	EndDate         string           `json:"end_date"`
	DaysRecorded    int              `json:"days_recorded"`
	StatusCounts    map[string]int64 `json:"status_counts"`
	LateCount       int              `json:"late_count"`
	TotalWorkHours  float64          `json:"total_work_hours"`
	TotalBreakHours float64          `json:"total_break_hours"`
	OvertimeHours   float64          `json:"overtime_hours"`
	AverageWorkDay  float64          `json:"average_work_hours"`
}

type TodayStatusResponse struct {
	Date        string              `json:"date"`
	State       ClockState          `json:"state"`
	CanClockIn  bool                `json:"can_clock_in"`
	CanClockOut bool                `json:"can_clock_out"`
	Attendance  *AttendanceResponse `json:"attendance,omitempty"`
	Message     string              `json:"message"`
}

// ========================================
// IMPORT DTOs
// ========================================

type ImportResult struct {
	TotalRows int      `json:"total_rows"`
	Matched   int      `json:"matched"`
	Upserted  int      `json:"upserted"`
	Skipped   int      `json:"skipped"`
	Unmatched []string `json:"unmatched_employee_ids,omitempty"`

	// ArchivedAs is the storage key of the kept upload, if archiving is on.
	ArchivedAs string `json:"archived_as,omitempty"`
}
