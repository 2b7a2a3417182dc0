package http

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const maxImportSize = 10 << 20

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	GetMyHistory(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GenerateRecords(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	generator         attendance.Generator
	importer          attendance.Importer
}

func NewAttendanceHandler(
	attendanceService attendance.AttendanceService,
	generator attendance.Generator,
	importer attendance.Importer,
) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		generator:         generator,
		importer:          importer,
	}
}

func callerEmployeeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok || p.EmployeeID == "" {
		response.HandleError(w, user.ErrEmployeeLinkRequired)
		return "", false
	}
	return p.EmployeeID, true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// parsePaging reads page and limit, leaving zero for Validate to default.
func parsePaging(r *http.Request) (int, int, error) {
	var page, limit int
	var errs validator.ValidationErrors
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
		}
		page = n
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
		}
		limit = n
	}
	if len(errs) > 0 {
		return 0, 0, errs
	}
	return page, limit, nil
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := callerEmployeeID(w, r)
	if !ok {
		return
	}

	var req attendance.ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("Failed to decode clock-in body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID
	if req.IPAddress == nil {
		ip := clientIP(r)
		req.IPAddress = &ip
	}

	result, err := h.attendanceService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := callerEmployeeID(w, r)
	if !ok {
		return
	}

	var req attendance.ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("Failed to decode clock-out body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.attendanceService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// GetMyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := callerEmployeeID(w, r)
	if !ok {
		return
	}

	page, limit, err := parsePaging(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := attendance.MyHistoryFilter{
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
		Status:    optionalQuery(r, "status"),
		Page:      page,
		Limit:     limit,
	}

	results, err := h.attendanceService.GetMyHistory(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// GetToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := callerEmployeeID(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetTodayStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSummary implements AttendanceHandler. Managers may ask for any
// employee; everyone else gets their own summary.
func (h *attendanceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())

	req := attendance.SummaryRequest{
		EmployeeID: p.EmployeeID,
		Period:     attendance.SummaryPeriod(r.URL.Query().Get("period")),
		Date:       r.URL.Query().Get("date"),
	}

	if requested := r.URL.Query().Get("employee_id"); requested != "" && requested != p.EmployeeID {
		if !p.IsManager() {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}
		req.EmployeeID = requested
	}
	if req.EmployeeID == "" {
		response.HandleError(w, user.ErrEmployeeLinkRequired)
		return
	}

	result, err := h.attendanceService.GetSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePaging(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := attendance.AttendanceFilter{
		EmployeeID: optionalQuery(r, "employee_id"),
		Date:       optionalQuery(r, "date"),
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		Status:     optionalQuery(r, "status"),
		Page:       page,
		Limit:      limit,
		SortBy:     r.URL.Query().Get("sort_by"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}

	results, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GenerateRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) GenerateRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var errs validator.ValidationErrors

	req := attendance.GenerateRequest{Date: q.Get("date")}
	if req.Date == "" {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date is required"})
	}

	if v := q.Get("preplanned_only"); v != "" {
		preplanned, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "preplanned_only", Message: "preplanned_only must be true or false"})
		}
		req.PreplannedOnly = preplanned
	}

	filter, ok := attendance.ParseShiftFilter(q.Get("shift"))
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "shift", Message: "shift must be one of: Day, Night"})
	}
	req.ShiftFilter = filter

	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result := h.generator.Generate(r.Context(), req)
	if !result.Success {
		response.HandleError(w, result.Err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// Import implements AttendanceHandler.
func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize+1<<20)

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		slog.Debug("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Field 'file' is required", nil)
			return
		}
		slog.Debug("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	result, err := h.importer.Import(r.Context(), fileHeader.Filename, file)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance import completed", result)
}
