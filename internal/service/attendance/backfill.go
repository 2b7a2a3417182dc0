package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"

// BackfillGenerator writes Holiday, Leave and Absent records for employees
// that have nothing recorded on a date.
type BackfillGenerator struct {
	attendance.AttendanceRepository
	lookup *Lookup
	policy Policy
	clock  clock.Clock
	tracer trace.Tracer
}

func NewBackfillGenerator(
	attendanceRepo attendance.AttendanceRepository,
	lookup *Lookup,
	policy Policy,
	clk clock.Clock,
) *BackfillGenerator {
	return &BackfillGenerator{
		AttendanceRepository: attendanceRepo,
		lookup:               lookup,
		policy:               policy,
		clock:                clk,
		tracer:               otel.Tracer(tracerName),
	}
}

// Generate implements attendance.Generator. It never returns an error:
// failures are reported in the result so a scheduled run cannot take the
// scheduler down.
func (g *BackfillGenerator) Generate(ctx context.Context, req attendance.GenerateRequest) attendance.GenerateResult {
	ctx, span := g.tracer.Start(ctx, "attendance.backfill", trace.WithAttributes(
		attribute.String("attendance.date", req.Date),
		attribute.String("attendance.shift_filter", string(req.ShiftFilter)),
		attribute.Bool("attendance.preplanned_only", req.PreplannedOnly),
	))
	defer span.End()

	result := attendance.GenerateResult{
		Date:           req.Date,
		ShiftFilter:    req.ShiftFilter,
		PreplannedOnly: req.PreplannedOnly,
	}
	fail := func(err error) attendance.GenerateResult {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Attendance backfill failed",
			"date", req.Date, "shift_filter", req.ShiftFilter, "preplanned_only", req.PreplannedOnly, "error", err)
		result.Message = err.Error()
		result.Err = err
		return result
	}

	if err := req.Validate(); err != nil {
		return fail(err)
	}
	date, _ := time.Parse(attendance.DateLayout, req.Date)

	if today := g.policy.LocalDate(g.clock.Now()); date.After(today) {
		return fail(fmt.Errorf("%w: %s is after %s", attendance.ErrFutureBackfill,
			req.Date, today.Format(attendance.DateLayout)))
	}

	slog.Info("Attendance backfill started",
		"date", req.Date, "shift_filter", req.ShiftFilter, "preplanned_only", req.PreplannedOnly)

	snap, err := g.lookup.Snapshot(ctx, date)
	if err != nil {
		return fail(err)
	}

	existing, err := g.AttendanceRepository.EmployeeIDsWithRecord(ctx, date)
	if err != nil {
		return fail(fmt.Errorf("failed to load existing attendance: %w", err))
	}

	records := planBackfill(snap, existing, req.PreplannedOnly, req.ShiftFilter)

	created, err := g.AttendanceRepository.BulkInsert(ctx, records)
	if err != nil {
		return fail(fmt.Errorf("failed to insert attendance records: %w", err))
	}

	span.SetAttributes(attribute.Int("attendance.records_created", created))
	slog.Info("Attendance backfill completed",
		"date", req.Date, "shift_filter", req.ShiftFilter, "preplanned_only", req.PreplannedOnly,
		"candidates", len(records), "records_created", created)

	result.Success = true
	result.RecordsCreated = created
	result.Message = fmt.Sprintf("created %d attendance records for %s", created, req.Date)
	return result
}

// classify picks the synthesized status for an employee without a record.
// Priority: holiday, Sunday, approved leave, then Absent unless only
// preplanned records are wanted.
func classify(snap DaySnapshot, employeeID string, preplannedOnly bool) (attendance.Status, string, bool) {
	if snap.Holiday != nil {
		return attendance.StatusHoliday, snap.Holiday.Name, true
	}
	if snap.Date.Weekday() == time.Sunday {
		return attendance.StatusHoliday, attendance.NoteSunday, true
	}
	if reason, ok := snap.LeaveMap[employeeID]; ok {
		return attendance.StatusLeave, reason, true
	}
	if preplannedOnly {
		return "", "", false
	}
	return attendance.StatusAbsent, attendance.NoteNoAttendance, true
}

func matchesShift(filter attendance.ShiftFilter, kind shift.Kind) bool {
	switch filter {
	case attendance.ShiftFilterDay:
		return kind == shift.KindDay
	case attendance.ShiftFilterNight:
		return kind == shift.KindNight
	default:
		return true
	}
}

func planBackfill(snap DaySnapshot, existing map[string]struct{}, preplannedOnly bool, filter attendance.ShiftFilter) []attendance.Attendance {
	var records []attendance.Attendance
	for _, emp := range snap.Employees {
		if _, ok := existing[emp.ID]; ok {
			continue
		}
		if !matchesShift(filter, snap.ShiftKind(emp)) {
			continue
		}

		status, note, ok := classify(snap, emp.ID, preplannedOnly)
		if !ok {
			continue
		}

		notes := note
		records = append(records, attendance.Attendance{
			EmployeeID: emp.ID,
			Date:       snap.Date,
			Status:     status,
			DeviceType: attendance.DeviceAutoSync,
			Notes:      &notes,
		})
	}
	return records
}
