package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
)

type repositories struct {
	attendance attendance.AttendanceRepository
	employee   employee.EmployeeRepository
	shift      shift.ShiftRepository
	holiday    holiday.HolidayRepository
	leave      leave.LeaveRequestRepository
	close      func()
}

func openRepositories(cfg *config.Config) (repositories, error) {
	switch cfg.App.StorageDriver {
	case "memory":
		store := memory.NewStore()
		if cfg.App.SeedFile == "" {
			for _, sh := range fixtures.DefaultShifts() {
				store.AddShift(sh)
			}
		} else {
			f, err := os.Open(cfg.App.SeedFile)
			if err != nil {
				return repositories{}, fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()
			if err := store.LoadSeed(f); err != nil {
				return repositories{}, fmt.Errorf("load seed file: %w", err)
			}
		}
		return repositories{
			attendance: store.Attendances(),
			employee:   store.Employees(),
			shift:      store.Shifts(),
			holiday:    store.Holidays(),
			leave:      store.LeaveRequests(),
			close:      func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.Options{
			MaxConns:     cfg.Database.MaxConns,
			QueryTimeout: cfg.Database.QueryTimeout,
		})
		if err != nil {
			return repositories{}, fmt.Errorf("connect to database: %w", err)
		}
		return repositories{
			attendance: postgresql.NewAttendanceRepository(db),
			employee:   postgresql.NewEmployeeRepository(db),
			shift:      postgresql.NewShiftRepository(db),
			holiday:    postgresql.NewHolidayRepository(db),
			leave:      postgresql.NewLeaveRequestRepository(db),
			close:      db.Close,
		}, nil
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	shutdownTracing := telemetry.Setup("hris-attendance")

	repos, err := openRepositories(cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	policy, err := attendanceService.NewPolicy(cfg.Attendance)
	if err != nil {
		return fmt.Errorf("attendance policy: %w", err)
	}
	clk := clock.Real()

	lookup := attendanceService.NewLookup(repos.employee, repos.shift, repos.holiday, repos.leave)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.employee, policy, clk)
	generator := attendanceService.NewBackfillGenerator(repos.attendance, lookup, policy, clk)

	var archive storage.FileStorage
	if cfg.App.ImportArchive != "" {
		local, err := storage.NewLocalStorage(cfg.App.ImportArchive)
		if err != nil {
			return fmt.Errorf("import archive: %w", err)
		}
		archive = local
	}
	importer := attendanceService.NewBiometricImporter(repos.attendance, repos.employee, policy, archive)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	scheduler := cron.NewScheduler(policy.Location)
	if cfg.Cron.Enabled {
		jobs := cron.NewAttendanceJobs(generator, clk, policy.Location)
		if err := jobs.RegisterJobs(scheduler, cfg.Cron); err != nil {
			return fmt.Errorf("register attendance jobs: %w", err)
		}
		scheduler.Start()
	}

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, generator, importer)
	router := appHTTP.NewRouter(cfg.App, JWTService, attendanceHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "storage", cfg.App.StorageDriver, "cron", cfg.Cron.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
	if cfg.Cron.Enabled {
		scheduler.Stop()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("Tracer shutdown failed", "error", err)
	}

	slog.Info("Server stopped")
	return nil
}
