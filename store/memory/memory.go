// Package memory provides an in-memory attendance store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements attendance.Source and attendance.OutcomeSink.
type Memory struct {
	mu          sync.RWMutex
	employees   map[attendance.UserID]attendance.Employee
	policies    map[attendance.PolicyID]attendance.AttendancePolicy
	assignments []attendance.PolicyAssignment
	records     []attendance.AttendanceRecord
	holidays    []attendance.Holiday
	outcomes    map[outcomeKey]attendance.StoredOutcome
	runs        []attendance.ReportRun
}

type outcomeKey struct {
	UserID attendance.UserID
	Date   attendance.Date
}

func New() *Memory {
	return &Memory{
		employees: make(map[attendance.UserID]attendance.Employee),
		policies:  make(map[attendance.PolicyID]attendance.AttendancePolicy),
		outcomes:  make(map[outcomeKey]attendance.StoredOutcome),
	}
}

// =============================================================================
// WRITES
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, e attendance.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) SavePolicy(_ context.Context, p attendance.AttendancePolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.ID] = p
	return nil
}

// AssignPolicy closes the user's open assignment the day before a.StartDate
// and appends a. Assignments are never removed.
func (m *Memory) AssignPolicy(_ context.Context, a attendance.PolicyAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.policies[a.PolicyID]; !ok {
		return attendance.ErrPolicyNotFound
	}
	for i, existing := range m.assignments {
		if existing.UserID != a.UserID || existing.EndDate != nil {
			continue
		}
		end := a.StartDate.AddDays(-1)
		if existing.IsActive(end) {
			m.assignments[i].EndDate = &end
		}
	}
	m.assignments = append(m.assignments, a)
	return nil
}

func (m *Memory) AddRecord(_ context.Context, r attendance.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *Memory) AddHoliday(_ context.Context, h attendance.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays = append(m.holidays, h)
	return nil
}

// =============================================================================
// attendance.Source
// =============================================================================

func (m *Memory) ListEmployees(_ context.Context) ([]attendance.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) ListPolicies(_ context.Context) ([]attendance.AttendancePolicy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.AttendancePolicy, 0, len(m.policies))
	for _, p := range m.policies {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) ListAssignments(_ context.Context, rng attendance.DateRange) ([]attendance.PolicyAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []attendance.PolicyAssignment
	for _, a := range m.assignments {
		if _, ok := rng.Clamp(a.StartDate, a.EndDate); ok {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *Memory) ListRecords(_ context.Context, rng attendance.DateRange) ([]attendance.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []attendance.AttendanceRecord
	for _, r := range m.records {
		if rng.Contains(r.Date) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *Memory) ListHolidays(_ context.Context) ([]attendance.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.Holiday, len(m.holidays))
	copy(result, m.holidays)
	return result, nil
}

// =============================================================================
// attendance.OutcomeSink
// =============================================================================

// SaveOutcomes upserts per (user, day).
func (m *Memory) SaveOutcomes(_ context.Context, outcomes []attendance.StoredOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range outcomes {
		m.outcomes[outcomeKey{UserID: o.UserID, Date: o.Date}] = o
	}
	return nil
}

// SaveReportRun inserts or replaces a run by ID.
func (m *Memory) SaveReportRun(_ context.Context, run attendance.ReportRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.runs {
		if m.runs[i].ID == run.ID {
			m.runs[i] = run
			return nil
		}
	}
	m.runs = append(m.runs, run)
	return nil
}

// IsRangeComplete reports whether a completed run covers rng exactly.
func (m *Memory) IsRangeComplete(_ context.Context, rng attendance.DateRange) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.runs {
		if r.Range == rng && r.Status == attendance.RunCompleted {
			return true, nil
		}
	}
	return false, nil
}

// Outcomes returns the stored outcomes ordered by user then date.
func (m *Memory) Outcomes() []attendance.StoredOutcome {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.StoredOutcome, 0, len(m.outcomes))
	for _, o := range m.outcomes {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UserID != result[j].UserID {
			return result[i].UserID < result[j].UserID
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// Runs returns the report runs in insertion order.
func (m *Memory) Runs() []attendance.ReportRun {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.ReportRun, len(m.runs))
	copy(result, m.runs)
	return result
}
