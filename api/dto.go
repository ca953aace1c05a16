/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the attendance engine's types from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Employee:    EmployeeDTO, CreateEmployeeRequest
  Policy:      PolicyDTO (wraps factory.PolicyJSON), CreatePolicyRequest
  Assignment:  AssignmentDTO, CreateAssignmentRequest
  Attendance:  RecordDTO, CreateRecordRequest
  Holidays:    HolidayDTO, CreateHolidayRequest
  Reports:     ReportDTO, DayResultDTO, SummaryDTO, RunDTO, OutcomeDTO
  Evaluate:    EvaluateRequest, EvaluateResponse
  Scenarios:   ScenarioDTO

FORMATS:
  Dates are YYYY-MM-DD. Clock times are RFC3339 and are evaluated in the
  offset they carry.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON type
*/
package api

import (
	"time"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/factory"
	"github.com/warp/attendance-engine/reporting"
	"github.com/warp/attendance-engine/store/sqlite"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	CompanyID   string `json:"company_id,omitempty"`
	LocationID  string `json:"location_id,omitempty"`
	AreaID      string `json:"area_id,omitempty"`
	TerritoryID string `json:"territory_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyID   string `json:"company_id"`
	LocationID  string `json:"location_id"`
	AreaID      string `json:"area_id"`
	TerritoryID string `json:"territory_id"`
}

func toEmployeeDTO(e attendance.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:          string(e.ID),
		Name:        e.Name,
		Email:       e.Email,
		CompanyID:   e.Placement.CompanyID,
		LocationID:  e.Placement.LocationID,
		AreaID:      e.Placement.AreaID,
		TerritoryID: e.Placement.TerritoryID,
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// POLICIES
// =============================================================================

// PolicyDTO represents a policy in API responses.
type PolicyDTO struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Config    factory.PolicyJSON `json:"config"`
	Version   int                `json:"version"`
	CreatedAt string             `json:"created_at,omitempty"`
	UpdatedAt string             `json:"updated_at,omitempty"`
}

// CreatePolicyRequest is the request to create or update a policy.
type CreatePolicyRequest struct {
	Config factory.PolicyJSON `json:"config"`
}

func (h *Handler) toPolicyDTO(rec sqlite.PolicyRecord) PolicyDTO {
	return PolicyDTO{
		ID:        string(rec.Policy.ID),
		Name:      rec.Policy.Name,
		Config:    h.PolicyFactory.ToJSON(rec.Policy),
		Version:   rec.Version,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// AssignmentDTO represents a policy assignment.
type AssignmentDTO struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	PolicyID      string  `json:"policy_id"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
}

// CreateAssignmentRequest is the request to assign a policy. An open
// assignment of the same user that started earlier is closed the day before
// EffectiveFrom.
type CreateAssignmentRequest struct {
	UserID        string  `json:"user_id"`
	PolicyID      string  `json:"policy_id"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
}

func toAssignmentDTO(a attendance.PolicyAssignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:            string(a.ID),
		UserID:        string(a.UserID),
		PolicyID:      string(a.PolicyID),
		EffectiveFrom: a.StartDate.String(),
	}
	if a.EndDate != nil {
		to := a.EndDate.String()
		dto.EffectiveTo = &to
	}
	return dto
}

// =============================================================================
// ATTENDANCE RECORDS
// =============================================================================

// RecordDTO represents one clock-in/clock-out pair.
type RecordDTO struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	Date     string  `json:"date"`
	ClockIn  *string `json:"clock_in,omitempty"`
	ClockOut *string `json:"clock_out,omitempty"`
	IsManual bool    `json:"is_manual"`
}

// CreateRecordRequest is the request to store a clock pair. Date defaults to
// the calendar date of ClockIn.
type CreateRecordRequest struct {
	ID       string  `json:"id,omitempty"`
	UserID   string  `json:"user_id"`
	Date     string  `json:"date,omitempty"`
	ClockIn  *string `json:"clock_in,omitempty"`
	ClockOut *string `json:"clock_out,omitempty"`
	IsManual bool    `json:"is_manual"`
}

func toRecordDTO(r attendance.AttendanceRecord) RecordDTO {
	return RecordDTO{
		ID:       r.ID,
		UserID:   string(r.UserID),
		Date:     r.Date.String(),
		ClockIn:  formatTime(r.ClockIn),
		ClockOut: formatTime(r.ClockOut),
		IsManual: r.IsManual,
	}
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a scoped holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	Scope     string `json:"scope"`
	ScopeID   string `json:"scope_id,omitempty"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest is the request to create a holiday. An empty scope
// means global.
type CreateHolidayRequest struct {
	Scope     string `json:"scope"`
	ScopeID   string `json:"scope_id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

func toHolidayDTO(h attendance.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        h.ID,
		Scope:     string(h.Scope),
		ScopeID:   h.ScopeID,
		Date:      h.Date.String(),
		Name:      h.Name,
		Recurring: h.Recurring,
	}
}

// =============================================================================
// REPORTS
// =============================================================================

// DayResultDTO is the outcome of one (user, day).
type DayResultDTO struct {
	UserID          string     `json:"user_id"`
	Date            string     `json:"date"`
	Status          string     `json:"status"`
	PolicyID        string     `json:"policy_id,omitempty"`
	WorkingDay      bool       `json:"working_day"`
	IsLate          bool       `json:"is_late"`
	IsAbsent        bool       `json:"is_absent"`
	OvertimeMinutes int        `json:"overtime_minutes"`
	Record          *RecordDTO `json:"record,omitempty"`
	Error           string     `json:"error,omitempty"`
}

// SummaryDTO aggregates a user's days. OvertimeHours is a decimal string.
type SummaryDTO struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	WorkingDays     int    `json:"working_days"`
	OffDays         int    `json:"off_days"`
	PresentDays     int    `json:"present_days"`
	LateDays        int    `json:"late_days"`
	AbsentDays      int    `json:"absent_days"`
	Gaps            int    `json:"gaps"`
	Failures        int    `json:"failures"`
	OvertimeMinutes int    `json:"overtime_minutes"`
	OvertimeHours   string `json:"overtime_hours"`
}

// ReportDTO is the response of a report run.
type ReportDTO struct {
	RunID     string         `json:"run_id"`
	From      string         `json:"from"`
	To        string         `json:"to"`
	Summaries []SummaryDTO   `json:"summaries"`
	Days      []DayResultDTO `json:"days,omitempty"`
	Warnings  []string       `json:"warnings"`
}

// RunReportRequest triggers a persisted run.
type RunReportRequest struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	UserIDs []string `json:"user_ids,omitempty"`
}

// RunDTO is a persisted ReportRun.
type RunDTO struct {
	ID          string  `json:"id"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Status      string  `json:"status"`
	Evaluated   int     `json:"evaluated"`
	Gaps        int     `json:"gaps"`
	Failures    int     `json:"failures"`
	Warnings    int     `json:"warnings"`
	Error       string  `json:"error,omitempty"`
	StartedAt   string  `json:"started_at"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

// OutcomeDTO is a stored per-day outcome.
type OutcomeDTO struct {
	UserID          string `json:"user_id"`
	Date            string `json:"date"`
	Status          string `json:"status"`
	PolicyID        string `json:"policy_id,omitempty"`
	WorkingDay      bool   `json:"working_day"`
	IsLate          bool   `json:"is_late"`
	IsAbsent        bool   `json:"is_absent"`
	OvertimeMinutes int    `json:"overtime_minutes"`
	Error           string `json:"error,omitempty"`
	RunID           string `json:"run_id"`
	ComputedAt      string `json:"computed_at"`
}

func toReportDTO(result *reporting.Result, withDays bool) ReportDTO {
	dto := ReportDTO{
		RunID:     result.RunID,
		From:      result.Range.Start.String(),
		To:        result.Range.End.String(),
		Summaries: make([]SummaryDTO, 0, len(result.Batch.Summaries)),
		Warnings:  result.Warnings,
	}
	if dto.Warnings == nil {
		dto.Warnings = []string{}
	}
	for _, s := range result.Batch.Summaries {
		dto.Summaries = append(dto.Summaries, SummaryDTO{
			UserID:          string(s.UserID),
			Name:            result.EmployeeName(s.UserID),
			WorkingDays:     s.WorkingDays,
			OffDays:         s.OffDays,
			PresentDays:     s.PresentDays,
			LateDays:        s.LateDays,
			AbsentDays:      s.AbsentDays,
			Gaps:            s.Gaps,
			Failures:        s.Failures,
			OvertimeMinutes: s.OvertimeMinutes,
			OvertimeHours:   s.OvertimeHours.StringFixed(2),
		})
	}
	if withDays {
		dto.Days = make([]DayResultDTO, 0, len(result.Batch.Days))
		for _, d := range result.Batch.Days {
			dto.Days = append(dto.Days, toDayResultDTO(d))
		}
	}
	return dto
}

func toDayResultDTO(d attendance.DayResult) DayResultDTO {
	dto := DayResultDTO{
		UserID:          string(d.UserID),
		Date:            d.Date.String(),
		Status:          string(d.Status),
		PolicyID:        string(d.PolicyID),
		WorkingDay:      d.WorkingDay,
		IsLate:          d.Outcome.IsLate,
		IsAbsent:        d.Outcome.IsAbsent,
		OvertimeMinutes: d.Outcome.OvertimeMinutes,
	}
	if d.Record != nil {
		rec := toRecordDTO(*d.Record)
		dto.Record = &rec
	}
	if d.Err != nil {
		dto.Error = d.Err.Error()
	}
	return dto
}

func toRunDTO(r attendance.ReportRun) RunDTO {
	dto := RunDTO{
		ID:        r.ID,
		From:      r.Range.Start.String(),
		To:        r.Range.End.String(),
		Status:    string(r.Status),
		Evaluated: r.Evaluated,
		Gaps:      r.Gaps,
		Failures:  r.Failures,
		Warnings:  r.Warnings,
		Error:     r.Error,
		StartedAt: r.StartedAt.Format(time.RFC3339),
	}
	dto.CompletedAt = formatTime(r.CompletedAt)
	return dto
}

func toOutcomeDTO(o attendance.StoredOutcome) OutcomeDTO {
	return OutcomeDTO{
		UserID:          string(o.UserID),
		Date:            o.Date.String(),
		Status:          string(o.Status),
		PolicyID:        string(o.PolicyID),
		WorkingDay:      o.WorkingDay,
		IsLate:          o.IsLate,
		IsAbsent:        o.IsAbsent,
		OvertimeMinutes: o.OvertimeMinutes,
		Error:           o.Error,
		RunID:           o.RunID,
		ComputedAt:      o.ComputedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// STATELESS EVALUATION
// =============================================================================

// EvaluateRequest evaluates one day against an inline policy without
// touching storage.
type EvaluateRequest struct {
	Policy   factory.PolicyJSON `json:"policy"`
	Date     string             `json:"date"`
	ClockIn  *string            `json:"clock_in,omitempty"`
	ClockOut *string            `json:"clock_out,omitempty"`
	Holidays []string           `json:"holidays,omitempty"`
}

// EvaluateResponse is the outcome of a stateless evaluation.
type EvaluateResponse struct {
	Date            string `json:"date"`
	WorkingDay      bool   `json:"working_day"`
	IsLate          bool   `json:"is_late"`
	IsAbsent        bool   `json:"is_absent"`
	OvertimeMinutes int    `json:"overtime_minutes"`
}

// =============================================================================
// SCENARIOS / ERRORS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
