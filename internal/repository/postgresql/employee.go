package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, employee_code, full_name, shift_id, department_id, employment_status, created_at, updated_at`

func scanEmployee(row scanner) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.ShiftID, &emp.DepartmentID,
		&emp.EmploymentStatus, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func (e *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (employee.Employee, error) {
	ctx, cancel := e.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, e.db)

	query := "SELECT " + employeeColumns + " FROM employees WHERE " + where + " AND deleted_at IS NULL"
	emp, err := scanEmployee(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", wrapTimeout(err))
	}
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e.getOne(ctx, "id = $1", id)
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	return e.getOne(ctx, "employee_code = $1", employeeCode)
}

// Resolve implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Resolve(ctx context.Context, ref string) (employee.Employee, error) {
	if ref == "" {
		return employee.Employee{}, employee.ErrEmployeeRefRequired
	}
	if _, err := uuid.Parse(ref); err == nil {
		emp, err := e.getOne(ctx, "id = $1", ref)
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return emp, err
		}
	}
	return e.GetByEmployeeCode(ctx, ref)
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	ctx, cancel := e.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, e.db)

	query := "SELECT " + employeeColumns + `
		FROM employees
		WHERE employment_status = $1 AND deleted_at IS NULL
		ORDER BY employee_code`

	rows, err := q.Query(ctx, query, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", wrapTimeout(err))
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", wrapTimeout(err))
	}

	return employees, nil
}

// MapCodes implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) MapCodes(ctx context.Context, codes []string) (map[string]string, error) {
	result := make(map[string]string, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	ctx, cancel := e.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `
		SELECT employee_code, id
		FROM employees
		WHERE employee_code = ANY($1) AND deleted_at IS NULL`, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to map employee codes: %w", wrapTimeout(err))
	}
	defer rows.Close()

	for rows.Next() {
		var code, id string
		if err := rows.Scan(&code, &id); err != nil {
			return nil, fmt.Errorf("failed to scan employee code: %w", err)
		}
		result[code] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee codes: %w", wrapTimeout(err))
	}

	return result, nil
}
