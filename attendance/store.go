/*
store.go - Interfaces between the engine and persistence

PURPOSE:
  The engine itself never touches a database. These interfaces describe what
  the reporting layer loads before a run and what it writes afterwards.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite
  - store/memory: in-memory, for tests and demos

SCOPING:
  Range queries return every row that overlaps [from, to]. Organisation
  filtering happens before the engine sees the rows.
*/
package attendance

import (
	"context"
	"time"
)

// Source loads the inputs of a reporting run.
type Source interface {
	ListEmployees(ctx context.Context) ([]Employee, error)

	// ListPolicies returns every known policy.
	ListPolicies(ctx context.Context) ([]AttendancePolicy, error)

	// ListAssignments returns assignments overlapping rng, open or closed.
	ListAssignments(ctx context.Context, rng DateRange) ([]PolicyAssignment, error)

	// ListRecords returns attendance records with Date inside rng.
	ListRecords(ctx context.Context, rng DateRange) ([]AttendanceRecord, error)

	// ListHolidays returns every holiday, recurring ones included.
	ListHolidays(ctx context.Context) ([]Holiday, error)
}

// StoredOutcome is a persisted DayResult.
type StoredOutcome struct {
	UserID          UserID
	Date            Date
	Status          DayStatus
	PolicyID        PolicyID
	WorkingDay      bool
	IsLate          bool
	IsAbsent        bool
	OvertimeMinutes int
	Error           string
	RunID           string
	ComputedAt      time.Time
}

// OutcomeFromDay converts a DayResult for persistence.
func OutcomeFromDay(d DayResult, runID string, at time.Time) StoredOutcome {
	o := StoredOutcome{
		UserID:          d.UserID,
		Date:            d.Date,
		Status:          d.Status,
		PolicyID:        d.PolicyID,
		WorkingDay:      d.WorkingDay,
		IsLate:          d.Outcome.IsLate,
		IsAbsent:        d.Outcome.IsAbsent,
		OvertimeMinutes: d.Outcome.OvertimeMinutes,
		RunID:           runID,
		ComputedAt:      at,
	}
	if d.Err != nil {
		o.Error = d.Err.Error()
	}
	return o
}

// RunStatus is the lifecycle state of a ReportRun.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ReportRun records one persisted evaluation run, for audit and to let the
// scheduler skip ranges it has already processed.
type ReportRun struct {
	ID          string
	Range       DateRange
	Status      RunStatus
	Evaluated   int
	Gaps        int
	Failures    int
	Warnings    int
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// OutcomeSink persists the results of a run. Outcomes are upserted per
// (user, day), so re-running a range replaces earlier results.
type OutcomeSink interface {
	SaveOutcomes(ctx context.Context, outcomes []StoredOutcome) error
	SaveReportRun(ctx context.Context, run ReportRun) error
	IsRangeComplete(ctx context.Context, rng DateRange) (bool, error)
}
