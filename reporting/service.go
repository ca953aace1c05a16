/*
Package reporting runs the attendance engine against stored data.

PURPOSE:
  Glue between persistence and the pure engine. A run:
    1. loads employees, policies, assignments, records and holidays
    2. builds the policy history index for the range
    3. resolves each employee's holidays from their placement
    4. evaluates every (user, day) via attendance.RunBatch
    5. optionally persists outcomes and a ReportRun record

WARNINGS:
  Overlapping assignments and assignments pointing at unknown policies do
  not stop a run. They are logged and returned on the Result.

USAGE:
  svc := reporting.NewService(store, store)
  result, err := svc.Run(ctx, attendance.MonthRange(2025, time.March), reporting.Options{Persist: true})
*/
package reporting

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/warp/attendance-engine/attendance"
)

// Service runs reports. Sink may be nil when nothing is persisted.
type Service struct {
	Source  attendance.Source
	Sink    attendance.OutcomeSink
	Workers int

	// Now is overridable for tests.
	Now func() time.Time
}

// NewService creates a service with a default worker count.
func NewService(source attendance.Source, sink attendance.OutcomeSink) *Service {
	return &Service{
		Source:  source,
		Sink:    sink,
		Workers: 4,
		Now:     time.Now,
	}
}

// Options narrows or extends a run.
type Options struct {
	// Users restricts the run. Empty means every employee plus every user
	// that has an assignment in the range.
	Users []attendance.UserID

	// Persist writes outcomes and a ReportRun through the Sink.
	Persist bool
}

// Result is a finished run.
type Result struct {
	RunID      string
	Range      attendance.DateRange
	Batch      *attendance.Batch
	Employees  map[attendance.UserID]attendance.Employee
	Policies   map[attendance.PolicyID]attendance.AttendancePolicy
	Unresolved []attendance.PolicyAssignment
	Warnings   []string
}

// Summary returns the summary of one user, if present.
func (r *Result) Summary(user attendance.UserID) (attendance.Summary, bool) {
	for _, s := range r.Batch.Summaries {
		if s.UserID == user {
			return s, true
		}
	}
	return attendance.Summary{}, false
}

// EmployeeName falls back to the user ID for unknown users.
func (r *Result) EmployeeName(user attendance.UserID) string {
	if e, ok := r.Employees[user]; ok && e.Name != "" {
		return e.Name
	}
	return string(user)
}

// Run evaluates rng.
func (s *Service) Run(ctx context.Context, rng attendance.DateRange, opts Options) (*Result, error) {
	if !rng.Valid() {
		return nil, fmt.Errorf("%w: %s", attendance.ErrInvalidRange, rng)
	}
	now := s.now()

	employees, err := s.Source.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	policies, err := s.Source.ListPolicies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}
	assignments, err := s.Source.ListAssignments(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	records, err := s.Source.ListRecords(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance records: %w", err)
	}
	holidays, err := s.Source.ListHolidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Range:     rng,
		Employees: make(map[attendance.UserID]attendance.Employee, len(employees)),
		Policies:  make(map[attendance.PolicyID]attendance.AttendancePolicy, len(policies)),
	}
	for _, e := range employees {
		result.Employees[e.ID] = e
	}
	for _, p := range policies {
		result.Policies[p.ID] = p
	}

	idx, err := attendance.Build(assignments, attendance.PolicyMap(result.Policies), rng)
	if err != nil {
		return nil, err
	}
	result.Unresolved = idx.Unresolved
	for _, a := range idx.Ambiguous {
		log.Printf("[Report] Warning: %v", a)
		result.Warnings = append(result.Warnings, a.Error())
	}
	for _, a := range idx.Unresolved {
		msg := fmt.Sprintf("assignment %s for %s references unknown policy %s", a.ID, a.UserID, a.PolicyID)
		log.Printf("[Report] Warning: %s", msg)
		result.Warnings = append(result.Warnings, msg)
	}

	users := opts.Users
	if len(users) == 0 {
		users = allUsers(employees, idx)
	}

	calendar := attendance.StaticCalendar{
		PerUser: make(map[attendance.UserID]attendance.HolidaySet, len(users)),
		Default: attendance.ResolveHolidays(holidays, "", attendance.Placement{}, rng),
	}
	for _, u := range users {
		placement := result.Employees[u].Placement
		calendar.PerUser[u] = attendance.ResolveHolidays(holidays, u, placement, rng)
	}

	result.Batch = attendance.RunBatch(attendance.BatchInput{
		Range:       rng,
		Users:       users,
		Index:       idx,
		Records:     records,
		HolidaysFor: calendar.For,
		Workers:     s.Workers,
	})

	gaps, failures := 0, 0
	for _, sum := range result.Batch.Summaries {
		gaps += sum.Gaps
		failures += sum.Failures
	}
	log.Printf("[Report] Evaluated %d users over %s: %d days, %d gaps, %d failures, %d warnings",
		len(users), rng, len(result.Batch.Days), gaps, failures, len(result.Warnings))

	if opts.Persist && s.Sink != nil {
		if err := s.persist(ctx, result, now, gaps, failures); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *Service) persist(ctx context.Context, result *Result, startedAt time.Time, gaps, failures int) error {
	run := attendance.ReportRun{
		ID:        result.RunID,
		Range:     result.Range,
		Status:    attendance.RunRunning,
		StartedAt: startedAt,
	}
	if err := s.Sink.SaveReportRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record report run: %w", err)
	}

	computedAt := s.now()
	outcomes := make([]attendance.StoredOutcome, 0, len(result.Batch.Days))
	for _, d := range result.Batch.Days {
		outcomes = append(outcomes, attendance.OutcomeFromDay(d, result.RunID, computedAt))
	}

	completedAt := s.now()
	run.CompletedAt = &completedAt
	run.Evaluated = len(outcomes) - gaps - failures
	run.Gaps = gaps
	run.Failures = failures
	run.Warnings = len(result.Warnings)

	if err := s.Sink.SaveOutcomes(ctx, outcomes); err != nil {
		run.Status = attendance.RunFailed
		run.Error = err.Error()
		if saveErr := s.Sink.SaveReportRun(ctx, run); saveErr != nil {
			log.Printf("[Report] Failed to mark run %s as failed: %v", run.ID, saveErr)
		}
		return fmt.Errorf("failed to save outcomes: %w", err)
	}

	run.Status = attendance.RunCompleted
	return s.Sink.SaveReportRun(ctx, run)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// allUsers is every employee plus every user the index knows about.
func allUsers(employees []attendance.Employee, idx *attendance.Index) []attendance.UserID {
	seen := make(map[attendance.UserID]bool)
	var users []attendance.UserID
	for _, e := range employees {
		if !seen[e.ID] {
			seen[e.ID] = true
			users = append(users, e.ID)
		}
	}
	for _, u := range idx.Users() {
		if !seen[u] {
			seen[u] = true
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}
