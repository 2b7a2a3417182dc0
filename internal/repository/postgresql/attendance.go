package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.status,
	a.clock_in, a.clock_out, a.break_start, a.break_end,
	a.total_work_hours, a.total_break_hours, a.overtime_hours, a.is_late,
	a.device_type, a.ip_address, a.location, a.notes,
	a.created_at, a.updated_at,
	e.full_name, e.employee_code`

const attendanceFrom = `
	FROM attendances a
	LEFT JOIN employees e ON e.id = a.employee_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row scanner) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.Status,
		&att.ClockIn, &att.ClockOut, &att.BreakStart, &att.BreakEnd,
		&att.TotalWorkHours, &att.TotalBreakHours, &att.OvertimeHours, &att.IsLate,
		&att.DeviceType, &att.IPAddress, &att.Location, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.EmployeeCode,
	)
	return att, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", wrapTimeout(err))
	}
	return attendances, nil
}

const insertAttendanceSQL = `
	INSERT INTO attendances (
		id, employee_id, date, status,
		clock_in, clock_out, break_start, break_end,
		total_work_hours, total_break_hours, overtime_hours, is_late,
		device_type, ip_address, location, notes,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17
	)`

func insertArgs(att attendance.Attendance) []any {
	return []any{
		att.ID, att.EmployeeID, attendance.DateOnly(att.Date), att.Status,
		att.ClockIn, att.ClockOut, att.BreakStart, att.BreakEnd,
		att.TotalWorkHours, att.TotalBreakHours, att.OvertimeHours, att.IsLate,
		att.DeviceType, att.IPAddress, att.Location, att.Notes,
		att.CreatedAt,
	}
}

func prepareInsert(att *attendance.Attendance) {
	if att.ID == "" {
		att.ID = uuid.Must(uuid.NewV7()).String()
	}
	if att.CreatedAt.IsZero() {
		att.CreatedAt = time.Now().UTC()
	}
	att.UpdatedAt = att.CreatedAt
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, a.db)

	prepareInsert(&newAttendance)
	if _, err := q.Exec(ctx, insertAttendanceSQL, insertArgs(newAttendance)...); err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", wrapTimeout(err))
	}

	return newAttendance, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			status = $2, clock_in = $3, clock_out = $4, break_start = $5, break_end = $6,
			total_work_hours = $7, total_break_hours = $8, overtime_hours = $9, is_late = $10,
			device_type = $11, ip_address = $12, location = $13, notes = $14,
			updated_at = $15
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		att.ID, att.Status, att.ClockIn, att.ClockOut, att.BreakStart, att.BreakEnd,
		att.TotalWorkHours, att.TotalBreakHours, att.OvertimeHours, att.IsLate,
		att.DeviceType, att.IPAddress, att.Location, att.Notes,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", wrapTimeout(err))
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, a.db)

	if _, err := uuid.Parse(id); err != nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	query := "SELECT " + attendanceColumns + attendanceFrom + " WHERE a.id = $1"

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", wrapTimeout(err))
	}

	return att, nil
}

// FindByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, a.db)

	query := "SELECT " + attendanceColumns + attendanceFrom + `
		WHERE a.employee_id = $1 AND a.date = $2
		LIMIT 1`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, attendance.DateOnly(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", wrapTimeout(err))
	}

	return &att, nil
}

// FindOpenSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindOpenSession(ctx context.Context, employeeID string, since time.Time) (*attendance.Attendance, error) {
	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, a.db)

	query := "SELECT " + attendanceColumns + attendanceFrom + `
		WHERE a.employee_id = $1
		  AND a.date >= $2
		  AND a.clock_in IS NOT NULL
		  AND a.clock_out IS NULL
		ORDER BY a.date DESC, a.clock_in DESC
		LIMIT 1`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, attendance.DateOnly(since)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", wrapTimeout(err))
	}

	return &att, nil
}

// FindByDateRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindByDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, a.db)

	where := "a.date BETWEEN $1 AND $2"
	args := []any{attendance.DateOnly(start), attendance.DateOnly(end)}
	if employeeID != "" {
		where += " AND a.employee_id = $3"
		args = append(args, employeeID)
	}

	query := "SELECT " + attendanceColumns + attendanceFrom + " WHERE " + where + " ORDER BY a.date ASC, e.employee_code ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances by date range: %w", wrapTimeout(err))
	}
	return collectAttendances(rows)
}

// EmployeeIDsWithRecord implements attendance.AttendanceRepository.
func (a *attendanceRepository) EmployeeIDsWithRecord(ctx context.Context, date time.Time) (map[string]struct{}, error) {
	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `SELECT employee_id FROM attendances WHERE date = $1`, attendance.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query existing attendance: %w", wrapTimeout(err))
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var employeeID string
		if err := rows.Scan(&employeeID); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		existing[employeeID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate existing attendance: %w", wrapTimeout(err))
	}

	return existing, nil
}

// BulkInsert implements attendance.AttendanceRepository. Rows colliding with
// an existing (employee_id, date) pair are skipped, so concurrent writers
// never produce duplicates.
func (a *attendanceRepository) BulkInsert(ctx context.Context, records []attendance.Attendance) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()

	inserted := 0
	err := WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		now := time.Now().UTC()
		for i := range records {
			if records[i].CreatedAt.IsZero() {
				records[i].CreatedAt = now
			}
			prepareInsert(&records[i])
			batch.Queue(insertAttendanceSQL+" ON CONFLICT (employee_id, date) DO NOTHING", insertArgs(records[i])...)
		}

		br := tx.SendBatch(ctx, batch)
		for range records {
			tag, err := br.Exec()
			if err != nil {
				br.Close()
				return fmt.Errorf("failed to insert attendance batch: %w", wrapTimeout(err))
			}
			inserted += int(tag.RowsAffected())
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// UpsertOne implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpsertOne(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, a.db)

	prepareInsert(&att)
	query := insertAttendanceSQL + `
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			clock_in = EXCLUDED.clock_in,
			clock_out = EXCLUDED.clock_out,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			total_work_hours = EXCLUDED.total_work_hours,
			total_break_hours = EXCLUDED.total_break_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			is_late = EXCLUDED.is_late,
			device_type = EXCLUDED.device_type,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	if err := q.QueryRow(ctx, query, insertArgs(att)...).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", wrapTimeout(err))
	}

	return att, nil
}

func buildAttendanceWhere(filter attendance.AttendanceFilter) (string, []any) {
	conds := []string{"TRUE"}
	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add("a.employee_id = $%d", *filter.EmployeeID)
	}
	if d, ok := parseDatePtr(filter.Date); ok {
		add("a.date = $%d", d)
	}
	if d, ok := parseDatePtr(filter.StartDate); ok {
		add("a.date >= $%d", d)
	}
	if d, ok := parseDatePtr(filter.EndDate); ok {
		add("a.date <= $%d", d)
	}
	if filter.Status != nil && *filter.Status != "" {
		add("a.status = $%d", *filter.Status)
	}

	return strings.Join(conds, " AND "), args
}

func parseDatePtr(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(attendance.DateLayout, *s)
	return d, err == nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, a.db)

	baseWhere, args := buildAttendanceWhere(filter)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendances a WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", wrapTimeout(err))
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "clock_in":
		orderByField = "a.clock_in"
	case "clock_out":
		orderByField = "a.clock_out"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	argIdx := len(args) + 1
	args = append(args, limit, (page-1)*limit)

	selectQuery := fmt.Sprintf(`SELECT %s %s
		WHERE %s
		ORDER BY %s %s, a.id
		LIMIT $%d OFFSET $%d`,
		attendanceColumns, attendanceFrom, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", wrapTimeout(err))
	}
	attendances, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}

	return attendances, total, nil
}

// CountByStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountByStatus(ctx context.Context, filter attendance.AttendanceFilter) (map[attendance.Status]int64, error) {
	ctx, cancel := a.db.WithTimeout(ctx)
	defer cancel()
	q := GetQuerier(ctx, a.db)

	baseWhere, args := buildAttendanceWhere(filter)
	rows, err := q.Query(ctx, "SELECT a.status, COUNT(*) FROM attendances a WHERE "+baseWhere+" GROUP BY a.status", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendances by status: %w", wrapTimeout(err))
	}
	defer rows.Close()

	counts := make(map[attendance.Status]int64)
	for rows.Next() {
		var status attendance.Status
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", wrapTimeout(err))
	}

	return counts, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
