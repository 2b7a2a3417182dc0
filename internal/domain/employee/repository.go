package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)

	// Resolve accepts either the internal ID or the employee code.
	Resolve(ctx context.Context, ref string) (Employee, error)

	// ListActive returns every active employee.
	ListActive(ctx context.Context) ([]Employee, error)

	// MapCodes returns employee_code -> internal ID for the given codes.
	// Unknown codes are absent from the result.
	MapCodes(ctx context.Context, codes []string) (map[string]string, error)
}
