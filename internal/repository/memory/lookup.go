package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
)

type employeeRepository struct{ s *Store }

func (s *Store) Employees() employee.EmployeeRepository { return employeeRepository{s} }

func (r employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	emp, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r employeeRepository) GetByEmployeeCode(_ context.Context, code string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, emp := range r.s.employees {
		if emp.EmployeeCode == code {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r employeeRepository) Resolve(ctx context.Context, ref string) (employee.Employee, error) {
	if ref == "" {
		return employee.Employee{}, employee.ErrEmployeeRefRequired
	}
	if emp, err := r.GetByID(ctx, ref); err == nil {
		return emp, nil
	}
	return r.GetByEmployeeCode(ctx, ref)
}

func (r employeeRepository) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []employee.Employee
	for _, emp := range r.s.employees {
		if emp.IsActive() {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

func (r employeeRepository) MapCodes(_ context.Context, codes []string) (map[string]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	want := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		want[c] = struct{}{}
	}
	result := make(map[string]string, len(codes))
	for _, emp := range r.s.employees {
		if _, ok := want[emp.EmployeeCode]; ok {
			result[emp.EmployeeCode] = emp.ID
		}
	}
	return result, nil
}

type shiftRepository struct{ s *Store }

func (s *Store) Shifts() shift.ShiftRepository { return shiftRepository{s} }

func (r shiftRepository) ListAll(_ context.Context) ([]shift.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]shift.Shift, 0, len(r.s.shifts))
	for _, sh := range r.s.shifts {
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type holidayRepository struct{ s *Store }

func (s *Store) Holidays() holiday.HolidayRepository { return holidayRepository{s} }

func (r holidayRepository) GetActiveByDate(_ context.Context, date time.Time) (*holiday.Holiday, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	day := attendance.DateOnly(date)
	for _, h := range r.s.holidays {
		if h.Status == holiday.StatusActive && h.Date.Equal(day) {
			found := h
			return &found, nil
		}
	}
	return nil, nil
}

type leaveRequestRepository struct{ s *Store }

func (s *Store) LeaveRequests() leave.LeaveRequestRepository { return leaveRequestRepository{s} }

func (r leaveRequestRepository) ListApprovedCovering(_ context.Context, date time.Time) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []leave.LeaveRequest
	for _, l := range r.s.leaves {
		if l.IsApproved() && l.Covers(date) {
			out = append(out, l)
		}
	}
	return out, nil
}
