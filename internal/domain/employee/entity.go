package employee

import "time"

// Employee is read-only to the attendance core. ID is the internal identifier
// every attendance record references; EmployeeCode is the business identifier
// printed on badges and biometric exports.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	ShiftID          *string
	DepartmentID     *string
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// IsActive reports whether the employee should receive attendance records.
func (e Employee) IsActive() bool {
	return e.EmploymentStatus == "" || e.EmploymentStatus == EmploymentStatusActive
}
