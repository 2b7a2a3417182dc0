package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// The store enforces at most one record per (employee_id, date).
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrDuplicateRecord if the employee
	// already has a record for that date.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update overwrites the mutable fields of an existing record.
	Update(ctx context.Context, attendance Attendance) error

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// FindByEmployeeAndDate returns nil, nil when no record exists.
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// FindOpenSession returns the latest record with clock_in set and
	// clock_out empty dated on or after since, or nil, nil.
	FindOpenSession(ctx context.Context, employeeID string, since time.Time) (*Attendance, error)

	// FindByDateRange returns records in [start, end] ordered by date. An
	// empty employeeID returns every employee's records.
	FindByDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)

	// EmployeeIDsWithRecord returns the set of employees already holding a
	// record for date.
	EmployeeIDsWithRecord(ctx context.Context, date time.Time) (map[string]struct{}, error)

	// BulkInsert inserts records atomically, skipping pairs that already
	// exist, and returns how many rows were written.
	BulkInsert(ctx context.Context, records []Attendance) (int, error)

	// UpsertOne inserts or replaces the record for (employee_id, date).
	UpsertOne(ctx context.Context, attendance Attendance) (Attendance, error)

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// CountByStatus aggregates the filtered records per status, ignoring pagination.
	CountByStatus(ctx context.Context, filter AttendanceFilter) (map[Status]int64, error)
}
