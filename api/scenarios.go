/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data. Each scenario creates policies, employees, assignments, holidays and
  a stretch of clock records in March 2025, so a report over
  ?month=2025-03 shows the feature it demonstrates.

AVAILABLE SCENARIOS:
  office-week:       Standard office policy; late arrival, overtime, absence
  policy-change:     Office policy replaced by a field shift mid-month
  regional-holidays: Location-scoped holidays for two offices

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create policies via factory presets
 3. Create employees
 4. Assign policies
 5. Add holidays and clock records

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "policy-change"}

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - factory/presets.go: Policy JSON templates
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "office-week",
		Name:        "Office Week",
		Description: "Mon-Fri 09:00-17:00 with a 10 minute grace; one late arrival, one overtime day, one absence",
	},
	{
		ID:          "policy-change",
		Name:        "Mid-Month Policy Change",
		Description: "Employee moves from the office policy to a Mon-Sat field shift on March 17",
	},
	{
		ID:          "regional-holidays",
		Name:        "Regional Holidays",
		Description: "Two offices on the same policy with different location holidays",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "office-week":
		load = h.loadOfficeWeekScenario
	case "policy-change":
		load = h.loadPolicyChangeScenario
	case "regional-holidays":
		load = h.loadRegionalHolidaysScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	h.currentScenario = ""
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := load(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadOfficeWeekScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, factory.StandardOfficeJSON("office", "Standard Office", 10, 30)); err != nil {
		return err
	}

	employees := []attendance.Employee{
		{ID: "emp-alice", Name: "Alice Johnson", Email: "alice@example.com", Placement: attendance.Placement{CompanyID: "acme"}},
		{ID: "emp-bob", Name: "Bob Smith", Email: "bob@example.com", Placement: attendance.Placement{CompanyID: "acme"}},
	}
	for _, e := range employees {
		if err := h.Store.SaveEmployee(ctx, e); err != nil {
			return err
		}
		if err := h.assign(ctx, e.ID, "office", scenarioDay(1)); err != nil {
			return err
		}
	}

	// Week of March 3: Alice late on Tuesday and stays late on Thursday,
	// Bob misses Wednesday.
	for day := 3; day <= 7; day++ {
		in, out := "08:58", "17:02"
		switch day {
		case 4:
			in = "09:25"
		case 6:
			out = "18:10"
		}
		if err := h.clock(ctx, "emp-alice", scenarioDay(day), in, out); err != nil {
			return err
		}
		if day == 5 {
			continue
		}
		if err := h.clock(ctx, "emp-bob", scenarioDay(day), "09:05", "17:00"); err != nil {
			return err
		}
	}

	return h.Store.SaveHoliday(ctx, attendance.Holiday{
		ID: "hol-founders", Scope: attendance.ScopeCompany, ScopeID: "acme",
		Date: scenarioDay(14), Name: "Founders Day",
	})
}

func (h *Handler) loadPolicyChangeScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, factory.StandardOfficeJSON("office", "Standard Office", 10, 30)); err != nil {
		return err
	}
	if err := h.createPolicyFromJSON(ctx, factory.FieldShiftJSON("field", "Field Shift", 5, 60)); err != nil {
		return err
	}

	emp := attendance.Employee{ID: "emp-carol", Name: "Carol Diaz", Email: "carol@example.com"}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	if err := h.assign(ctx, emp.ID, "office", scenarioDay(1)); err != nil {
		return err
	}
	// Closes the office assignment on March 16.
	if err := h.assign(ctx, emp.ID, "field", scenarioDay(17)); err != nil {
		return err
	}

	// 07:30 is early for the office and late for the field shift.
	for day := 10; day <= 22; day++ {
		d := scenarioDay(day)
		if d.Weekday() == time.Sunday {
			continue
		}
		if err := h.clock(ctx, emp.ID, d, "07:30", "16:00"); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadRegionalHolidaysScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, factory.StandardOfficeJSON("office", "Standard Office", 10, 30)); err != nil {
		return err
	}

	employees := []attendance.Employee{
		{ID: "emp-dana", Name: "Dana Lee", Placement: attendance.Placement{CompanyID: "acme", LocationID: "jakarta"}},
		{ID: "emp-eli", Name: "Eli Novak", Placement: attendance.Placement{CompanyID: "acme", LocationID: "surabaya"}},
	}
	for _, e := range employees {
		if err := h.Store.SaveEmployee(ctx, e); err != nil {
			return err
		}
		if err := h.assign(ctx, e.ID, "office", scenarioDay(1)); err != nil {
			return err
		}
	}

	holidays := []attendance.Holiday{
		{ID: "hol-new-year", Scope: attendance.ScopeGlobal, Date: attendance.NewDate(2025, time.January, 1), Name: "New Year", Recurring: true},
		{ID: "hol-jakarta", Scope: attendance.ScopeLocation, ScopeID: "jakarta", Date: scenarioDay(12), Name: "Jakarta Anniversary"},
		{ID: "hol-surabaya", Scope: attendance.ScopeLocation, ScopeID: "surabaya", Date: scenarioDay(13), Name: "Surabaya Day"},
	}
	for _, hol := range holidays {
		if err := h.Store.SaveHoliday(ctx, hol); err != nil {
			return err
		}
	}

	for day := 10; day <= 14; day++ {
		for _, e := range employees {
			if err := h.clock(ctx, e.ID, scenarioDay(day), "09:00", "17:00"); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) createPolicyFromJSON(ctx context.Context, jsonStr string) error {
	policy, err := h.PolicyFactory.ParsePolicy(jsonStr)
	if err != nil {
		return err
	}
	return h.Store.SavePolicy(ctx, policy)
}

func (h *Handler) assign(ctx context.Context, user attendance.UserID, policy attendance.PolicyID, from attendance.Date) error {
	return h.Store.AssignPolicy(ctx, attendance.PolicyAssignment{
		ID:        attendance.AssignmentID(fmt.Sprintf("assign-%s-%s-%s", user, policy, from)),
		UserID:    user,
		PolicyID:  policy,
		StartDate: from,
	})
}

func (h *Handler) clock(ctx context.Context, user attendance.UserID, d attendance.Date, in, out string) error {
	clockIn, err := scenarioTime(d, in)
	if err != nil {
		return err
	}
	clockOut, err := scenarioTime(d, out)
	if err != nil {
		return err
	}
	return h.Store.SaveRecord(ctx, attendance.AttendanceRecord{
		ID:       fmt.Sprintf("rec-%s-%s", user, d),
		UserID:   user,
		Date:     d,
		ClockIn:  &clockIn,
		ClockOut: &clockOut,
	})
}

func scenarioDay(day int) attendance.Date {
	return attendance.NewDate(2025, time.March, day)
}

func scenarioTime(d attendance.Date, clock string) (time.Time, error) {
	tod, err := attendance.ParseTimeOfDay(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time().Add(time.Duration(tod) * time.Second), nil
}
