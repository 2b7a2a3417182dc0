package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

type attendanceRepository struct{ s *Store }

func (s *Store) Attendances() attendance.AttendanceRepository { return attendanceRepository{s} }

// withEmployee fills the joined employee columns. Caller holds the lock.
func (r attendanceRepository) withEmployee(att attendance.Attendance) attendance.Attendance {
	if emp, ok := r.s.employees[att.EmployeeID]; ok {
		name, code := emp.FullName, emp.EmployeeCode
		att.EmployeeName = &name
		att.EmployeeCode = &code
	}
	return att
}

// insert stores att unless the pair already exists. Caller holds the lock.
func (r attendanceRepository) insert(att attendance.Attendance) (attendance.Attendance, bool) {
	att.Date = attendance.DateOnly(att.Date)
	key := attendanceKey(att.EmployeeID, att.Date)
	if _, exists := r.s.byKey[key]; exists {
		return attendance.Attendance{}, false
	}
	if att.ID == "" {
		att.ID = newID()
	}
	if att.CreatedAt.IsZero() {
		att.CreatedAt = r.s.now()
	}
	att.UpdatedAt = att.CreatedAt
	att.EmployeeName, att.EmployeeCode = nil, nil
	r.s.attendances[att.ID] = att
	r.s.byKey[key] = att.ID
	return att, true
}

func (r attendanceRepository) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created, ok := r.insert(att)
	if !ok {
		return attendance.Attendance{}, attendance.ErrDuplicateRecord
	}
	return created, nil
}

func (r attendanceRepository) Update(_ context.Context, att attendance.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.attendances[att.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	att.EmployeeID, att.Date, att.CreatedAt = current.EmployeeID, current.Date, current.CreatedAt
	att.UpdatedAt = r.s.now()
	att.EmployeeName, att.EmployeeCode = nil, nil
	r.s.attendances[att.ID] = att
	return nil
}

func (r attendanceRepository) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	att, ok := r.s.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.withEmployee(att), nil
}

func (r attendanceRepository) FindByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.byKey[attendanceKey(employeeID, attendance.DateOnly(date))]
	if !ok {
		return nil, nil
	}
	att := r.withEmployee(r.s.attendances[id])
	return &att, nil
}

func (r attendanceRepository) FindOpenSession(_ context.Context, employeeID string, since time.Time) (*attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	since = attendance.DateOnly(since)
	var latest *attendance.Attendance
	for _, att := range r.s.attendances {
		if att.EmployeeID != employeeID || att.Date.Before(since) || attendance.State(&att) != attendance.StateClockedIn {
			continue
		}
		if latest == nil || att.Date.After(latest.Date) {
			found := r.withEmployee(att)
			latest = &found
		}
	}
	return latest, nil
}

func (r attendanceRepository) FindByDateRange(_ context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	start, end = attendance.DateOnly(start), attendance.DateOnly(end)
	var out []attendance.Attendance
	for _, att := range r.s.attendances {
		if employeeID != "" && att.EmployeeID != employeeID {
			continue
		}
		if att.Date.Before(start) || att.Date.After(end) {
			continue
		}
		out = append(out, r.withEmployee(att))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func (r attendanceRepository) EmployeeIDsWithRecord(_ context.Context, date time.Time) (map[string]struct{}, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	day := attendance.DateOnly(date)
	existing := make(map[string]struct{})
	for _, att := range r.s.attendances {
		if att.Date.Equal(day) {
			existing[att.EmployeeID] = struct{}{}
		}
	}
	return existing, nil
}

func (r attendanceRepository) BulkInsert(_ context.Context, records []attendance.Attendance) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.bulkInsertErr != nil {
		return 0, r.s.bulkInsertErr
	}
	inserted := 0
	for _, att := range records {
		if _, ok := r.insert(att); ok {
			inserted++
		}
	}
	return inserted, nil
}

func (r attendanceRepository) UpsertOne(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	att.Date = attendance.DateOnly(att.Date)
	if id, ok := r.s.byKey[attendanceKey(att.EmployeeID, att.Date)]; ok {
		current := r.s.attendances[id]
		att.ID, att.CreatedAt = current.ID, current.CreatedAt
		att.IPAddress, att.Location = current.IPAddress, current.Location
		att.UpdatedAt = r.s.now()
		att.EmployeeName, att.EmployeeCode = nil, nil
		r.s.attendances[id] = att
		return att, nil
	}
	created, _ := r.insert(att)
	return created, nil
}

func matchesFilter(att attendance.Attendance, f attendance.AttendanceFilter) bool {
	day := att.DateString()
	if f.EmployeeID != nil && *f.EmployeeID != "" && att.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Date != nil && *f.Date != "" && day != *f.Date {
		return false
	}
	if f.StartDate != nil && *f.StartDate != "" && day < *f.StartDate {
		return false
	}
	if f.EndDate != nil && *f.EndDate != "" && day > *f.EndDate {
		return false
	}
	if f.Status != nil && *f.Status != "" && string(att.Status) != *f.Status {
		return false
	}
	return true
}

func timeLess(a, b *time.Time) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}

func (r attendanceRepository) List(_ context.Context, f attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []attendance.Attendance
	for _, att := range r.s.attendances {
		if matchesFilter(att, f) {
			matched = append(matched, r.withEmployee(att))
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	less := func(a, b attendance.Attendance) bool {
		switch f.SortBy {
		case "clock_in":
			return timeLess(a.ClockIn, b.ClockIn)
		case "clock_out":
			return timeLess(a.ClockOut, b.ClockOut)
		case "status":
			return a.Status < b.Status
		default:
			return a.Date.Before(b.Date)
		}
	}
	desc := strings.ToLower(f.SortOrder) != "asc"
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []attendance.Attendance{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r attendanceRepository) CountByStatus(_ context.Context, f attendance.AttendanceFilter) (map[attendance.Status]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := make(map[attendance.Status]int64)
	for _, att := range r.s.attendances {
		if matchesFilter(att, f) {
			counts[att.Status]++
		}
	}
	return counts, nil
}
