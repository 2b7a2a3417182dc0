package attendance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/extrame/xls"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Biometric exports carry six rows of report banner above the header row.
const importHeaderOffset = 6

const maxImportRows = 100000

const (
	colEmployeeID = "employee id"
	colDate       = "date"
	colStatus     = "status"
	colClockIn    = "clock in"
	colClockOut   = "clock out"
	colTotalWT    = "total wt"
	colTotalOT    = "total ot"
	colRemarks    = "remarks"
)

var importDateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2-1-2006",
	"2/1/2006",
	"02-Jan-2006",
	"2-Jan-06",
	"02 Jan 2006",
	"Jan 2, 2006",
	"01-02-06", // excelize rendering of the built-in short date format
}

var importTimeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}

// BiometricImporter upserts attendance from biometric device spreadsheets.
type BiometricImporter struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policy  Policy
	archive storage.FileStorage
}

// NewBiometricImporter builds an importer. archive may be nil, in which case
// uploaded files are not kept.
func NewBiometricImporter(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	policy Policy,
	archive storage.FileStorage,
) *BiometricImporter {
	return &BiometricImporter{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		policy:               policy,
		archive:              archive,
	}
}

// archiveUpload keeps a copy of the raw upload. Failures are logged only.
func (im *BiometricImporter) archiveUpload(ctx context.Context, filename string, data []byte) string {
	if im.archive == nil {
		return ""
	}
	key := fmt.Sprintf("biometric/%s/%s-%s",
		time.Now().In(im.policy.Location).Format(attendance.DateLayout),
		uuid.Must(uuid.NewV7()).String(),
		filepath.Base(filepath.Clean("/"+filename)))

	stored, err := im.archive.Upload(ctx, bytes.NewReader(data), key, "application/octet-stream")
	if err != nil {
		slog.Warn("Failed to archive attendance import", "file", filename, "error", err)
		return ""
	}
	return stored
}

// Import implements attendance.Importer.
func (im *BiometricImporter) Import(ctx context.Context, filename string, r io.Reader) (attendance.ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return attendance.ImportResult{}, fmt.Errorf("failed to read upload: %w", err)
	}

	var result attendance.ImportResult
	result.ArchivedAs = im.archiveUpload(ctx, filename, data)

	rows, err := readRowsFromSpreadsheet(data, filename)
	if err != nil {
		return result, fmt.Errorf("%w: %v", attendance.ErrInvalidSpreadsheet, err)
	}
	if len(rows) <= importHeaderOffset {
		return result, fmt.Errorf("%w: header row %d not found", attendance.ErrInvalidSpreadsheet, importHeaderOffset+1)
	}

	columns := indexHeader(rows[importHeaderOffset])
	for _, required := range []string{colEmployeeID, colDate} {
		if _, ok := columns[required]; !ok {
			return result, fmt.Errorf("%w: missing %q column", attendance.ErrInvalidSpreadsheet, required)
		}
	}

	var parsed []importRow
	for i, cells := range rows[importHeaderOffset+1:] {
		if isBlankRow(cells) {
			continue
		}
		result.TotalRows++

		row, err := im.parseRow(columns, cells)
		if err != nil {
			result.Skipped++
			slog.Debug("Skipping attendance import row",
				"file", filename, "row", importHeaderOffset+i+2, "error", err)
			continue
		}
		parsed = append(parsed, row)
	}

	if len(parsed) == 0 {
		return result, attendance.ErrEmptyImport
	}

	codes := make([]string, 0, len(parsed))
	for _, row := range parsed {
		codes = append(codes, row.employeeCode)
	}
	ids, err := im.EmployeeRepository.MapCodes(ctx, codes)
	if err != nil {
		return result, fmt.Errorf("failed to resolve employee codes: %w", err)
	}

	unmatched := make(map[string]struct{})
	for _, row := range parsed {
		employeeID, ok := ids[row.employeeCode]
		if !ok {
			result.Skipped++
			if _, seen := unmatched[row.employeeCode]; !seen {
				unmatched[row.employeeCode] = struct{}{}
				result.Unmatched = append(result.Unmatched, row.employeeCode)
			}
			continue
		}
		result.Matched++

		row.record.EmployeeID = employeeID
		if _, err := im.AttendanceRepository.UpsertOne(ctx, row.record); err != nil {
			return result, fmt.Errorf("failed to upsert attendance for %s on %s: %w",
				row.employeeCode, row.record.DateString(), err)
		}
		result.Upserted++
	}

	slog.Info("Attendance import completed",
		"file", filename, "total_rows", result.TotalRows, "matched", result.Matched,
		"upserted", result.Upserted, "skipped", result.Skipped)

	return result, nil
}

type importRow struct {
	employeeCode string
	record       attendance.Attendance
}

func (im *BiometricImporter) parseRow(columns map[string]int, cells []string) (importRow, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[idx])
	}

	code := cell(colEmployeeID)
	if code == "" || code == "-" {
		return importRow{}, fmt.Errorf("missing employee id")
	}

	date, err := parseImportDate(cell(colDate))
	if err != nil {
		return importRow{}, err
	}

	inCell, outCell := cell(colClockIn), cell(colClockOut)
	// Days without punches are exported as 00:00 in both cells.
	if isZeroClock(inCell) && (isZeroClock(outCell) || isEmptyClock(outCell)) {
		inCell, outCell = "", ""
	}

	clockIn, err := im.parseImportClock(date, inCell)
	if err != nil {
		return importRow{}, fmt.Errorf("clock in: %w", err)
	}
	clockOut, err := im.parseImportClock(date, outCell)
	if err != nil {
		return importRow{}, fmt.Errorf("clock out: %w", err)
	}
	if clockIn != nil && clockOut != nil && !clockOut.After(*clockIn) {
		next := clockOut.Add(24 * time.Hour) // overnight shift
		clockOut = &next
	}

	record := attendance.Attendance{
		Date:       date,
		Status:     mapStatusToken(cell(colStatus), clockIn != nil),
		ClockIn:    clockIn,
		ClockOut:   clockOut,
		DeviceType: attendance.DeviceBiometric,
	}
	record.IsLate = record.Status == attendance.StatusLate

	workHours, workOK := parseImportHours(cell(colTotalWT))
	overtime, otOK := parseImportHours(cell(colTotalOT))
	if clockIn != nil && clockOut != nil && (!workOK || !otOK) {
		w, _, o := im.policy.Hours(*clockIn, *clockOut, nil, nil)
		if !workOK {
			workHours = w
		}
		if !otOK {
			overtime = o
		}
	}
	record.TotalWorkHours = attendance.RoundHours(workHours)
	record.OvertimeHours = attendance.RoundHours(overtime)

	if remarks := cell(colRemarks); remarks != "" {
		record.Notes = &remarks
	}

	return importRow{employeeCode: code, record: record}, nil
}

// mapStatusToken translates device status text such as "Absence (A)" or
// "Late (LT)" into a status.
func mapStatusToken(token string, clockedIn bool) attendance.Status {
	t := strings.ToLower(token)
	switch {
	case strings.Contains(t, "holiday"), strings.Contains(t, "weekly off"):
		return attendance.StatusHoliday
	case strings.Contains(t, "leave"):
		return attendance.StatusLeave
	case strings.Contains(t, "absence"), strings.Contains(t, "absent"), strings.Contains(t, "(a)"):
		return attendance.StatusAbsent
	case strings.Contains(t, "late"), strings.Contains(t, "(lt)"):
		return attendance.StatusLate
	case strings.Contains(t, "half"):
		return attendance.StatusHalfDay
	case strings.Contains(t, "present"), strings.Contains(t, "(p)"):
		return attendance.StatusPresent
	}
	if clockedIn {
		return attendance.StatusPresent
	}
	return attendance.StatusAbsent
}

func parseImportDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	// Cells formatted as numbers come through as Excel serials.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial >= 20000 && serial <= 80000 {
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
			}
			return attendance.DateOnly(t), nil
		}
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func (im *BiometricImporter) parseImportClock(date time.Time, s string) (*time.Time, error) {
	if isEmptyClock(s) {
		return nil, nil
	}
	// Some exports append the date; keep the trailing time part.
	if fields := strings.Fields(s); len(fields) > 1 && strings.Contains(fields[0], "-") {
		s = strings.Join(fields[1:], " ")
	}
	for _, layout := range importTimeLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			local := time.Date(date.Year(), date.Month(), date.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, im.policy.Location).UTC()
			return &local, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q", s)
}

func isEmptyClock(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "-", "--", "--:--":
		return true
	}
	return false
}

func isZeroClock(s string) bool {
	switch strings.TrimSpace(s) {
	case "00:00", "00:00:00":
		return true
	}
	return false
}

// parseImportHours reads "HH:MM" durations or decimal hours.
func parseImportHours(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "--:--" {
		return 0, false
	}
	if h, m, found := strings.Cut(s, ":"); found {
		hours, err1 := strconv.Atoi(h)
		minutes, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil || minutes < 0 || minutes >= 60 || hours < 0 {
			return 0, false
		}
		return float64(hours) + float64(minutes)/60, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func indexHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.Join(strings.Fields(name), " "))
		if key == "" {
			continue
		}
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	return columns
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readRowsFromSpreadsheet(data []byte, filename string) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := workbook.ReadAllCells(maxImportRows)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	case ".xlsx", ".xlsm", "":
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}

		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}
