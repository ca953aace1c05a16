/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the attendance engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the store and the reporting service.

ENDPOINTS:
  Employees:
    GET    /api/employees                  List all employees
    POST   /api/employees                  Create or update employee
    GET    /api/employees/{id}             Get employee details
    DELETE /api/employees/{id}             Delete employee
    GET    /api/employees/{id}/assignments Assignment history
    GET    /api/employees/{id}/records     Clock records (?from=&to= or ?month=)
    GET    /api/employees/{id}/outcomes    Stored outcomes (?from=&to= or ?month=)

  Policies:
    GET    /api/policies                   List all policies
    POST   /api/policies                   Create or update policy from JSON
    GET    /api/policies/presets           Built-in policy templates
    GET    /api/policies/{id}              Get policy

  Assignments / records / holidays:
    POST   /api/assignments                Assign a policy from a date
    POST   /api/records                    Store a clock-in/clock-out pair
    GET    /api/holidays                   List holidays
    POST   /api/holidays                   Create holiday
    DELETE /api/holidays/{id}              Delete holiday

  Reports:
    GET    /api/reports                    Evaluate a range (?days=true for per-day rows)
    GET    /api/reports/xlsx               Same, as a workbook
    POST   /api/reports/run                Evaluate and persist outcomes
    GET    /api/reports/runs               Persisted run history

  Evaluate:
    POST   /api/evaluate                   Evaluate one day against an inline policy

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - PolicyFactory: JSON to AttendancePolicy conversion
  - Reports: reporting.Service over the same store

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/export"
	"github.com/warp/attendance-engine/factory"
	"github.com/warp/attendance-engine/reporting"
	"github.com/warp/attendance-engine/store/sqlite"
)

// maxReportDays bounds on-demand report ranges.
const maxReportDays = 366

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         *sqlite.Store
	PolicyFactory *factory.PolicyFactory
	Reports       *reporting.Service

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:         store,
		PolicyFactory: factory.NewPolicyFactory(),
		Reports:       reporting.NewService(store, store),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := attendance.UserID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates or updates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	emp := attendance.Employee{
		ID:    attendance.UserID(req.ID),
		Name:  req.Name,
		Email: req.Email,
		Placement: attendance.Placement{
			CompanyID:   req.CompanyID,
			LocationID:  req.LocationID,
			AreaID:      req.AreaID,
			TerritoryID: req.TerritoryID,
		},
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// DeleteEmployee removes an employee. Assignments and records are kept.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := attendance.UserID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetAssignments returns the full assignment history of an employee.
func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	id := attendance.UserID(chi.URLParam(r, "id"))

	assignments, err := h.Store.ListAssignmentsByUser(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get assignments", err)
		return
	}

	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRecords returns an employee's clock records in a range.
func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	id := attendance.UserID(chi.URLParam(r, "id"))
	rng, err := parseRange(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	records, err := h.Store.ListRecords(r.Context(), rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get records", err)
		return
	}

	dtos := []RecordDTO{}
	for _, rec := range records {
		if rec.UserID == id {
			dtos = append(dtos, toRecordDTO(rec))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetOutcomes returns the persisted outcomes of an employee in a range.
func (h *Handler) GetOutcomes(w http.ResponseWriter, r *http.Request) {
	id := attendance.UserID(chi.URLParam(r, "id"))
	rng, err := parseRange(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	outcomes, err := h.Store.ListOutcomes(r.Context(), id, rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get outcomes", err)
		return
	}

	dtos := make([]OutcomeDTO, len(outcomes))
	for i, o := range outcomes {
		dtos[i] = toOutcomeDTO(o)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// ListPolicies returns all policies.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListPolicyRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	dtos := make([]PolicyDTO, len(records))
	for i, rec := range records {
		dtos[i] = h.toPolicyDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPolicy returns a single policy.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	id := attendance.PolicyID(chi.URLParam(r, "id"))

	rec, err := h.Store.GetPolicy(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get policy", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toPolicyDTO(*rec))
}

// CreatePolicy creates a policy, or updates it and bumps its version.
//
// Updating a policy changes the evaluation of every past day assigned to it.
// To change the rules from a date on, create a new policy and assign it.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Config.ID == "" {
		writeError(w, http.StatusBadRequest, "config.id is required", nil)
		return
	}

	policy, err := h.PolicyFactory.FromJSON(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy configuration", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.SavePolicy(ctx, policy); err != nil {
		writeDomainError(w, "Failed to save policy", err)
		return
	}

	rec, err := h.Store.GetPolicy(ctx, policy.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toPolicyDTO(*rec))
}

// presetPolicies are the templates served by ListPresets.
var presetPolicies = []string{
	factory.StandardOfficeJSON("standard-office", "Standard Office", 10, 30),
	factory.FieldShiftJSON("field-shift", "Field Shift", 5, 60),
	factory.PartTimeJSON("part-time", "Part Time", []string{"Mon", "Wed", "Fri"}, "09:00", "13:00"),
}

// ListPresets returns built-in policy templates. Nothing is stored.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	dtos := make([]factory.PolicyJSON, 0, len(presetPolicies))
	for _, preset := range presetPolicies {
		policy, err := h.PolicyFactory.ParsePolicy(preset)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Invalid preset", err)
			return
		}
		dtos = append(dtos, h.PolicyFactory.ToJSON(policy))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ASSIGNMENT / RECORD HANDLERS
// =============================================================================

// CreateAssignment assigns a policy to an employee from a date on.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" || req.PolicyID == "" {
		writeError(w, http.StatusBadRequest, "user_id and policy_id are required", nil)
		return
	}

	from, err := attendance.ParseDate(req.EffectiveFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_from (use YYYY-MM-DD)", err)
		return
	}
	assignment := attendance.PolicyAssignment{
		ID:        attendance.AssignmentID(uuid.NewString()),
		UserID:    attendance.UserID(req.UserID),
		PolicyID:  attendance.PolicyID(req.PolicyID),
		StartDate: from,
	}
	if req.EffectiveTo != nil {
		to, err := attendance.ParseDate(*req.EffectiveTo)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid effective_to (use YYYY-MM-DD)", err)
			return
		}
		if to.Before(from) {
			writeError(w, http.StatusBadRequest, "effective_to must not be before effective_from", nil)
			return
		}
		assignment.EndDate = &to
	}

	ctx := r.Context()
	if _, err := h.Store.GetEmployee(ctx, assignment.UserID); err != nil {
		writeDomainError(w, "Failed to assign policy", err)
		return
	}
	if err := h.Store.AssignPolicy(ctx, assignment); err != nil {
		writeDomainError(w, "Failed to assign policy", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssignmentDTO(assignment))
}

// CreateRecord stores a clock pair. Malformed pairs are accepted and show up
// as failed days in reports.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	record := attendance.AttendanceRecord{
		ID:       req.ID,
		UserID:   attendance.UserID(req.UserID),
		IsManual: req.IsManual,
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	var err error
	if record.ClockIn, err = parseClock(req.ClockIn); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock_in (use RFC3339)", err)
		return
	}
	if record.ClockOut, err = parseClock(req.ClockOut); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid clock_out (use RFC3339)", err)
		return
	}

	switch {
	case req.Date != "":
		if record.Date, err = attendance.ParseDate(req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return
		}
	case record.ClockIn != nil:
		record.Date = attendance.DateOf(*record.ClockIn)
	default:
		writeError(w, http.StatusBadRequest, "date or clock_in is required", nil)
		return
	}

	if err := h.Store.SaveRecord(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save record", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordDTO(record))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all holidays, optionally filtered by ?scope=.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	scope := r.URL.Query().Get("scope")
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		if scope != "" && string(hol.Scope) != scope {
			continue
		}
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday creates a new holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Date == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}

	scope, ok := attendance.ParseHolidayScope(req.Scope)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown holiday scope %q", req.Scope), nil)
		return
	}
	if scope != attendance.ScopeGlobal && req.ScopeID == "" {
		writeError(w, http.StatusBadRequest, "scope_id is required for scoped holidays", nil)
		return
	}
	date, err := attendance.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday := attendance.Holiday{
		ID:        uuid.NewString(),
		Scope:     scope,
		Date:      date,
		Name:      req.Name,
		Recurring: req.Recurring,
	}
	if scope != attendance.ScopeGlobal {
		holiday.ScopeID = req.ScopeID
	}

	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeDomainError(w, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// DeleteHoliday deletes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetReport evaluates a range without persisting anything.
// GET /api/reports?from=2025-03-01&to=2025-03-31&user_id=alice&days=true
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := parseReportRange(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	result, err := h.Reports.Run(r.Context(), rng, reporting.Options{Users: userIDs(q["user_id"])})
	if err != nil {
		writeDomainError(w, "Failed to run report", err)
		return
	}

	withDays, _ := strconv.ParseBool(q.Get("days"))
	writeJSON(w, http.StatusOK, toReportDTO(result, withDays))
}

// ExportReport evaluates a range and returns it as an XLSX workbook.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := parseReportRange(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	result, err := h.Reports.Run(r.Context(), rng, reporting.Options{Users: userIDs(q["user_id"])})
	if err != nil {
		writeDomainError(w, "Failed to run report", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, result); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", rng.Start, rng.End)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// RunReport evaluates a range and persists outcomes and a run record.
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	var req RunReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rng, err := parseReportRange(url.Values{"from": {req.From}, "to": {req.To}})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	result, err := h.Reports.Run(r.Context(), rng, reporting.Options{
		Users:   userIDs(req.UserIDs),
		Persist: true,
	})
	if err != nil {
		writeDomainError(w, "Failed to run report", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReportDTO(result, false))
}

// ListRuns returns persisted report runs, newest first.
// GET /api/reports/runs?status=completed&limit=20
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	runs, err := h.Store.ListReportRuns(r.Context(), attendance.RunStatus(q.Get("status")), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// STATELESS EVALUATION
// =============================================================================

// Evaluate runs the calendar and evaluator for a single day against an
// inline policy. Nothing is read from or written to the store.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy, err := h.PolicyFactory.FromJSON(req.Policy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy configuration", err)
		return
	}
	date, err := attendance.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	holidays := attendance.NewHolidaySet()
	for _, s := range req.Holidays {
		d, err := attendance.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid holiday date (use YYYY-MM-DD)", err)
			return
		}
		holidays.Add(d)
	}

	var record *attendance.AttendanceRecord
	if req.ClockIn != nil || req.ClockOut != nil {
		record = &attendance.AttendanceRecord{Date: date}
		if record.ClockIn, err = parseClock(req.ClockIn); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid clock_in (use RFC3339)", err)
			return
		}
		if record.ClockOut, err = parseClock(req.ClockOut); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid clock_out (use RFC3339)", err)
			return
		}
	}

	effective := attendance.EffectivePolicy{AttendancePolicy: policy}
	working := attendance.IsWorkingDay(date, effective, holidays)
	outcome, err := attendance.Evaluate(record, effective, working)
	if err != nil {
		writeDomainError(w, "Failed to evaluate", err)
		return
	}

	writeJSON(w, http.StatusOK, EvaluateResponse{
		Date:            date.String(),
		WorkingDay:      working,
		IsLate:          outcome.IsLate,
		IsAbsent:        outcome.IsAbsent,
		OvertimeMinutes: outcome.OvertimeMinutes,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status from the attendance error taxonomy.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	code := ""
	switch {
	case attendance.IsNotFound(err):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case attendance.IsConflict(err):
		status, code = http.StatusConflict, "CONFLICT"
	case attendance.IsClientError(err):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	}
	writeJSON(w, status, ErrorResponse{Error: message, Code: code, Details: err.Error()})
}

// parseRange reads ?month=YYYY-MM or ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func parseRange(q url.Values) (attendance.DateRange, error) {
	if m := q.Get("month"); m != "" {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			return attendance.DateRange{}, fmt.Errorf("month must be YYYY-MM: %w", err)
		}
		return attendance.MonthRange(t.Year(), t.Month()), nil
	}

	from, err := attendance.ParseDate(q.Get("from"))
	if err != nil {
		return attendance.DateRange{}, fmt.Errorf("from: %w", err)
	}
	to, err := attendance.ParseDate(q.Get("to"))
	if err != nil {
		return attendance.DateRange{}, fmt.Errorf("to: %w", err)
	}
	rng := attendance.DateRange{Start: from, End: to}
	if !rng.Valid() {
		return attendance.DateRange{}, fmt.Errorf("%w: %s", attendance.ErrInvalidRange, rng)
	}
	return rng, nil
}

func parseReportRange(q url.Values) (attendance.DateRange, error) {
	rng, err := parseRange(q)
	if err != nil {
		return rng, err
	}
	if rng.Len() > maxReportDays {
		return attendance.DateRange{}, fmt.Errorf("range %s spans %d days, max %d", rng, rng.Len(), maxReportDays)
	}
	return rng, nil
}

func parseClock(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func userIDs(ids []string) []attendance.UserID {
	var users []attendance.UserID
	for _, id := range ids {
		if id != "" {
			users = append(users, attendance.UserID(id))
		}
	}
	return users
}
