// Package memory keeps every repository in process. It backs
// STORAGE_DRIVER=memory and doubles as the test store for services.
package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	employees   map[string]employee.Employee
	shifts      map[string]shift.Shift
	holidays    []holiday.Holiday
	leaves      []leave.LeaveRequest
	attendances map[string]attendance.Attendance
	byKey       map[string]string // employee_id|date -> attendance id

	bulkInsertErr error
	now           func() time.Time
}

func NewStore() *Store {
	return &Store{
		employees:   make(map[string]employee.Employee),
		shifts:      make(map[string]shift.Shift),
		attendances: make(map[string]attendance.Attendance),
		byKey:       make(map[string]string),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func attendanceKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format(attendance.DateLayout)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// AddShift registers a shift and returns it with an ID assigned.
func (s *Store) AddShift(sh shift.Shift) shift.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh.ID == "" {
		sh.ID = newID()
	}
	s.shifts[sh.ID] = sh
	return sh
}

// AddEmployee registers an employee and returns it with an ID assigned.
func (s *Store) AddEmployee(emp employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if emp.ID == "" {
		emp.ID = newID()
	}
	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = employee.EmploymentStatusActive
	}
	s.employees[emp.ID] = emp
	return emp
}

func (s *Store) AddHoliday(h holiday.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == "" {
		h.ID = newID()
	}
	h.Date = attendance.DateOnly(h.Date)
	s.holidays = append(s.holidays, h)
}

func (s *Store) AddLeaveRequest(r leave.LeaveRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = newID()
	}
	s.leaves = append(s.leaves, r)
}

// FailBulkInsert makes every following BulkInsert return err. Pass nil to
// clear.
func (s *Store) FailBulkInsert(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bulkInsertErr = err
}

// AttendanceCount returns the number of stored attendance records.
func (s *Store) AttendanceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attendances)
}

type seedFile struct {
	Shifts []struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		IsNightShift bool   `json:"is_night_shift"`
	} `json:"shifts"`
	Employees []struct {
		ID           string  `json:"id"`
		EmployeeCode string  `json:"employee_code"`
		FullName     string  `json:"full_name"`
		ShiftID      *string `json:"shift_id"`
	} `json:"employees"`
	Holidays []struct {
		Date   string `json:"date"`
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"holidays"`
	LeaveRequests []struct {
		EmployeeID string `json:"employee_id"`
		StartDate  string `json:"start_date"`
		EndDate    string `json:"end_date"`
		Reason     string `json:"reason"`
		Status     string `json:"status"`
	} `json:"leave_requests"`
}

// LoadSeed reads reference data (shifts, employees, holidays, leave requests)
// from a JSON document.
func (s *Store) LoadSeed(r io.Reader) error {
	var seed seedFile
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	for _, sh := range seed.Shifts {
		s.AddShift(shift.Shift{ID: sh.ID, Name: sh.Name, IsNightShift: sh.IsNightShift})
	}
	for _, e := range seed.Employees {
		s.AddEmployee(employee.Employee{ID: e.ID, EmployeeCode: e.EmployeeCode, FullName: e.FullName, ShiftID: e.ShiftID})
	}
	for _, h := range seed.Holidays {
		date, err := time.Parse(attendance.DateLayout, h.Date)
		if err != nil {
			return fmt.Errorf("holiday %q: %w", h.Name, err)
		}
		status := holiday.Status(h.Status)
		if status == "" {
			status = holiday.StatusActive
		}
		s.AddHoliday(holiday.Holiday{Date: date, Name: h.Name, Status: status})
	}
	for _, l := range seed.LeaveRequests {
		start, err := time.Parse(attendance.DateLayout, l.StartDate)
		if err != nil {
			return fmt.Errorf("leave start_date: %w", err)
		}
		end, err := time.Parse(attendance.DateLayout, l.EndDate)
		if err != nil {
			return fmt.Errorf("leave end_date: %w", err)
		}
		status, err := leave.ParseLeaveRequestStatus(l.Status)
		if err != nil {
			return fmt.Errorf("leave %s status %q: %w", l.EmployeeID, l.Status, err)
		}
		s.AddLeaveRequest(leave.LeaveRequest{
			EmployeeID: l.EmployeeID,
			StartDate:  start,
			EndDate:    end,
			Reason:     l.Reason,
			Status:     status,
		})
	}
	return nil
}
