package cron

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

const (
	JobPreplannedRecords  = "attendance_preplanned_records"
	JobDayShiftAbsences   = "attendance_day_shift_absences"
	JobNightShiftAbsences = "attendance_night_shift_absences"
)

type AttendanceJobs struct {
	generator attendance.Generator
	clock     clock.Clock
	loc       *time.Location
}

func NewAttendanceJobs(generator attendance.Generator, clk clock.Clock, loc *time.Location) *AttendanceJobs {
	return &AttendanceJobs{
		generator: generator,
		clock:     clk,
		loc:       loc,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, cfg config.CronConfig) error {
	return errors.Join(
		scheduler.AddJob(JobPreplannedRecords, cfg.Preplanned, j.PreplannedRecords),
		scheduler.AddJob(JobDayShiftAbsences, cfg.DayShift, j.DayShiftAbsences),
		scheduler.AddJob(JobNightShiftAbsences, cfg.NightShift, j.NightShiftAbsences),
	)
}

func (j *AttendanceJobs) localDate(daysAgo int) string {
	return clock.LocalDate(j.clock.Now(), j.loc).AddDate(0, 0, -daysAgo).Format(attendance.DateLayout)
}

func (j *AttendanceJobs) run(ctx context.Context, req attendance.GenerateRequest) error {
	result := j.generator.Generate(ctx, req)
	if !result.Success {
		return errors.New(result.Message)
	}
	return nil
}

// PreplannedRecords writes today's Holiday and Leave records shortly after
// local midnight. It never marks anyone Absent.
func (j *AttendanceJobs) PreplannedRecords(ctx context.Context) error {
	return j.run(ctx, attendance.GenerateRequest{
		Date:           j.localDate(0),
		PreplannedOnly: true,
	})
}

// DayShiftAbsences closes out today for day-shift employees just before
// local midnight.
func (j *AttendanceJobs) DayShiftAbsences(ctx context.Context) error {
	return j.run(ctx, attendance.GenerateRequest{
		Date:        j.localDate(0),
		ShiftFilter: attendance.ShiftFilterDay,
	})
}

// NightShiftAbsences closes out yesterday for night-shift employees once
// their shift has ended in the morning.
func (j *AttendanceJobs) NightShiftAbsences(ctx context.Context) error {
	return j.run(ctx, attendance.GenerateRequest{
		Date:        j.localDate(1),
		ShiftFilter: attendance.ShiftFilterNight,
	})
}
