/*
Package sqlite provides a SQLite-backed implementation of the attendance
storage interfaces.

PURPOSE:
  Persists everything a reporting run reads (employees, policies, policy
  assignments, attendance records, holidays) and everything it writes
  (per-day outcomes, report runs).

INTERFACES IMPLEMENTED:
  attendance.Source:      inputs of a reporting run
  attendance.OutcomeSink: per-day outcomes and run bookkeeping

ASSIGNMENT HISTORY:
  Assignments are never deleted. AssignPolicy closes the user's open
  assignment the day before the new one starts, inside one transaction, so
  past days keep resolving to the policy that applied at the time.

KEY TABLES:
  employees:           users plus organisational placement
  policies:            policy JSON (versioned on every update)
  policy_assignments:  user -> policy over [effective_from, effective_to]
  attendance_records:  raw clock-in / clock-out
  holidays:            scoped, optionally recurring
  attendance_outcomes: one row per (user, day), upserted by each run
  report_runs:         run audit, used by the scheduler to skip done ranges

DATES:
  Calendar dates are stored as YYYY-MM-DD text so range predicates are plain
  string comparisons. Clock times are RFC3339 and keep their offset.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. WAL mode lets readers proceed while
  a single writer commits.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/factory"
)

// Store implements attendance.Source and attendance.OutcomeSink using SQLite.
type Store struct {
	db       *sql.DB
	mu       sync.RWMutex
	policies *factory.PolicyFactory
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, policies: factory.NewPolicyFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees with organisational placement (drives holiday scoping)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		company_id TEXT NOT NULL DEFAULT '',
		location_id TEXT NOT NULL DEFAULT '',
		area_id TEXT NOT NULL DEFAULT '',
		territory_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Policies
	CREATE TABLE IF NOT EXISTS policies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Policy Assignments (closed, never deleted)
	CREATE TABLE IF NOT EXISTS policy_assignments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		policy_id TEXT NOT NULL REFERENCES policies(id),
		effective_from TEXT NOT NULL,
		effective_to TEXT,
		created_at TEXT NOT NULL
	);

	-- Composite index for range lookups
	CREATE INDEX IF NOT EXISTS idx_assignments_user_active
		ON policy_assignments(user_id, effective_from, effective_to);
	CREATE INDEX IF NOT EXISTS idx_assignments_policy
		ON policy_assignments(policy_id);

	-- Attendance records (raw clock data)
	CREATE TABLE IF NOT EXISTS attendance_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		clock_in TEXT,
		clock_out TEXT,
		is_manual BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_date_user
		ON attendance_records(date, user_id);

	-- Holidays (scoped: global, company, location, area, territory, user)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		scope TEXT NOT NULL DEFAULT 'global',
		scope_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(scope, scope_id, date, name);

	-- Outcomes (one row per user and day, replaced by later runs)
	CREATE TABLE IF NOT EXISTS attendance_outcomes (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		policy_id TEXT NOT NULL DEFAULT '',
		working_day BOOLEAN DEFAULT FALSE,
		is_late BOOLEAN DEFAULT FALSE,
		is_absent BOOLEAN DEFAULT FALSE,
		overtime_minutes INTEGER DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		run_id TEXT NOT NULL DEFAULT '',
		computed_at TEXT NOT NULL,
		PRIMARY KEY (user_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_outcomes_date
		ON attendance_outcomes(date);

	-- Report runs (for scheduled evaluation)
	CREATE TABLE IF NOT EXISTS report_runs (
		id TEXT PRIMARY KEY,
		range_start TEXT NOT NULL,
		range_end TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'running',
		evaluated INTEGER DEFAULT 0,
		gaps INTEGER DEFAULT 0,
		failures INTEGER DEFAULT 0,
		warnings INTEGER DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_report_runs_range
		ON report_runs(range_start, range_end, status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp attendance.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, email, company_id, location_id, area_id, territory_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			company_id = excluded.company_id,
			location_id = excluded.location_id,
			area_id = excluded.area_id,
			territory_id = excluded.territory_id
	`

	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email,
		emp.Placement.CompanyID, emp.Placement.LocationID, emp.Placement.AreaID, emp.Placement.TerritoryID,
		createdAt.Format(time.RFC3339),
	)
	return err
}

// GetEmployee returns attendance.ErrEmployeeNotFound for unknown IDs.
func (s *Store) GetEmployee(ctx context.Context, id attendance.UserID) (*attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectEmployees+" WHERE id = ?", id)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", attendance.ErrEmployeeNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by ID.
func (s *Store) ListEmployees(ctx context.Context) ([]attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectEmployees+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []attendance.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee. Their records and assignments stay.
func (s *Store) DeleteEmployee(ctx context.Context, id attendance.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return err
}

const selectEmployees = `SELECT id, name, COALESCE(email, ''), company_id, location_id, area_id, territory_id, created_at FROM employees`

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (attendance.Employee, error) {
	var emp attendance.Employee
	var createdAt string
	err := row.Scan(&emp.ID, &emp.Name, &emp.Email,
		&emp.Placement.CompanyID, &emp.Placement.LocationID, &emp.Placement.AreaID, &emp.Placement.TerritoryID,
		&createdAt)
	if err != nil {
		return attendance.Employee{}, err
	}
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return emp, nil
}

// =============================================================================
// POLICY STORE
// =============================================================================

// PolicyRecord is a stored policy with its bookkeeping columns.
type PolicyRecord struct {
	Policy    attendance.AttendancePolicy
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SavePolicy validates and upserts a policy. Updating bumps the version.
func (s *Store) SavePolicy(ctx context.Context, policy attendance.AttendancePolicy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	configJSON, err := s.policies.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to encode policy: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO policies (id, name, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = policies.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query, policy.ID, policy.Name, configJSON, now, now)
	return err
}

// GetPolicy returns attendance.ErrPolicyNotFound for unknown IDs.
func (s *Store) GetPolicy(ctx context.Context, id attendance.PolicyID) (*PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectPolicies+" WHERE id = ?", id)
	rec, err := s.scanPolicy(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", attendance.ErrPolicyNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListPolicyRecords returns all policies with version information.
func (s *Store) ListPolicyRecords(ctx context.Context) ([]PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectPolicies+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PolicyRecord
	for rows.Next() {
		rec, err := s.scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListPolicies returns all policies (attendance.Source).
func (s *Store) ListPolicies(ctx context.Context) ([]attendance.AttendancePolicy, error) {
	records, err := s.ListPolicyRecords(ctx)
	if err != nil {
		return nil, err
	}
	policies := make([]attendance.AttendancePolicy, 0, len(records))
	for _, r := range records {
		policies = append(policies, r.Policy)
	}
	return policies, nil
}

const selectPolicies = `SELECT id, config_json, version, created_at, updated_at FROM policies`

func (s *Store) scanPolicy(row scanner) (PolicyRecord, error) {
	var rec PolicyRecord
	var id, configJSON, createdAt, updatedAt string
	if err := row.Scan(&id, &configJSON, &rec.Version, &createdAt, &updatedAt); err != nil {
		return PolicyRecord{}, err
	}
	policy, err := s.policies.ParsePolicy(configJSON)
	if err != nil {
		return PolicyRecord{}, fmt.Errorf("stored policy %s: %w", id, err)
	}
	rec.Policy = policy
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return rec, nil
}

// =============================================================================
// ASSIGNMENT STORE
// =============================================================================

// AssignPolicy records a new assignment. In the same transaction, the user's
// open assignment that started earlier is closed on a.StartDate - 1.
func (s *Store) AssignPolicy(ctx context.Context, a attendance.PolicyAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM policies WHERE id = ?", a.PolicyID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", attendance.ErrPolicyNotFound, a.PolicyID)
	}

	start := a.StartDate.String()
	_, err = tx.ExecContext(ctx, `
		UPDATE policy_assignments SET effective_to = ?
		WHERE user_id = ? AND effective_to IS NULL AND effective_from < ?
	`, a.StartDate.AddDays(-1).String(), a.UserID, start)
	if err != nil {
		return fmt.Errorf("failed to close open assignment: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO policy_assignments (id, user_id, policy_id, effective_from, effective_to, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.PolicyID, start, nullDate(a.EndDate), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: assignment %s", attendance.ErrDuplicate, a.ID)
		}
		return fmt.Errorf("failed to insert assignment: %w", err)
	}

	return tx.Commit()
}

// ListAssignments returns every assignment overlapping rng (attendance.Source).
func (s *Store) ListAssignments(ctx context.Context, rng attendance.DateRange) ([]attendance.PolicyAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectAssignments + `
		WHERE effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)
		ORDER BY user_id, effective_from
	`
	return s.queryAssignments(ctx, query, rng.End.String(), rng.Start.String())
}

// ListAssignmentsByUser returns the full assignment history of a user.
func (s *Store) ListAssignmentsByUser(ctx context.Context, user attendance.UserID) ([]attendance.PolicyAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAssignments(ctx, selectAssignments+" WHERE user_id = ? ORDER BY effective_from", user)
}

const selectAssignments = `SELECT id, user_id, policy_id, effective_from, effective_to FROM policy_assignments`

func (s *Store) queryAssignments(ctx context.Context, query string, args ...any) ([]attendance.PolicyAssignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []attendance.PolicyAssignment
	for rows.Next() {
		var a attendance.PolicyAssignment
		var from string
		var to sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.PolicyID, &from, &to); err != nil {
			return nil, err
		}
		if a.StartDate, err = attendance.ParseDate(from); err != nil {
			return nil, err
		}
		if to.Valid {
			end, err := attendance.ParseDate(to.String)
			if err != nil {
				return nil, err
			}
			a.EndDate = &end
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// =============================================================================
// ATTENDANCE RECORD STORE
// =============================================================================

// SaveRecord inserts or replaces a record by ID.
func (s *Store) SaveRecord(ctx context.Context, r attendance.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance_records (id, user_id, date, clock_in, clock_out, is_manual, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			clock_in = excluded.clock_in,
			clock_out = excluded.clock_out,
			is_manual = excluded.is_manual
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.UserID, r.Date.String(),
		nullTime(r.ClockIn), nullTime(r.ClockOut), r.IsManual,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListRecords returns records dated inside rng (attendance.Source).
func (s *Store) ListRecords(ctx context.Context, rng attendance.DateRange) ([]attendance.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, clock_in, clock_out, is_manual
		FROM attendance_records
		WHERE date >= ? AND date <= ?
		ORDER BY user_id, date, clock_in
	`, rng.Start.String(), rng.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		var r attendance.AttendanceRecord
		var date string
		var clockIn, clockOut sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &date, &clockIn, &clockOut, &r.IsManual); err != nil {
			return nil, err
		}
		if r.Date, err = attendance.ParseDate(date); err != nil {
			return nil, err
		}
		r.ClockIn = parseNullTime(clockIn)
		r.ClockOut = parseNullTime(clockOut)
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

// SaveHoliday inserts or updates a holiday.
func (s *Store) SaveHoliday(ctx context.Context, h attendance.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := h.Scope
	if scope == "" {
		scope = attendance.ScopeGlobal
	}

	query := `
		INSERT INTO holidays (id, scope, scope_id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scope = excluded.scope,
			scope_id = excluded.scope_id,
			date = excluded.date,
			name = excluded.name,
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID, scope, h.ScopeID, h.Date.String(), h.Name, h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: holiday %q on %s for this scope", attendance.ErrDuplicate, h.Name, h.Date)
	}
	return err
}

// DeleteHoliday removes a holiday.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	return err
}

// ListHolidays returns every holiday (attendance.Source).
func (s *Store) ListHolidays(ctx context.Context) ([]attendance.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, scope, scope_id, date, name, recurring FROM holidays ORDER BY date, scope, scope_id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []attendance.Holiday
	for rows.Next() {
		var h attendance.Holiday
		var date string
		if err := rows.Scan(&h.ID, &h.Scope, &h.ScopeID, &date, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = attendance.ParseDate(date); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// OUTCOME STORE (attendance.OutcomeSink)
// =============================================================================

// SaveOutcomes upserts outcomes per (user, day) in one transaction.
func (s *Store) SaveOutcomes(ctx context.Context, outcomes []attendance.StoredOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO attendance_outcomes (user_id, date, status, policy_id, working_day,
			is_late, is_absent, overtime_minutes, error, run_id, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			status = excluded.status,
			policy_id = excluded.policy_id,
			working_day = excluded.working_day,
			is_late = excluded.is_late,
			is_absent = excluded.is_absent,
			overtime_minutes = excluded.overtime_minutes,
			error = excluded.error,
			run_id = excluded.run_id,
			computed_at = excluded.computed_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range outcomes {
		_, err := stmt.ExecContext(ctx,
			o.UserID, o.Date.String(), o.Status, o.PolicyID, o.WorkingDay,
			o.IsLate, o.IsAbsent, o.OvertimeMinutes, o.Error, o.RunID,
			o.ComputedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to save outcome for %s on %s: %w", o.UserID, o.Date, err)
		}
	}
	return tx.Commit()
}

// ListOutcomes returns stored outcomes in rng, optionally for one user.
func (s *Store) ListOutcomes(ctx context.Context, user attendance.UserID, rng attendance.DateRange) ([]attendance.StoredOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT user_id, date, status, policy_id, working_day, is_late, is_absent,
			overtime_minutes, error, run_id, computed_at
		FROM attendance_outcomes
		WHERE date >= ? AND date <= ?`
	args := []any{rng.Start.String(), rng.End.String()}
	if user != "" {
		query += " AND user_id = ?"
		args = append(args, user)
	}
	query += " ORDER BY user_id, date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []attendance.StoredOutcome
	for rows.Next() {
		var o attendance.StoredOutcome
		var date, computedAt string
		if err := rows.Scan(&o.UserID, &date, &o.Status, &o.PolicyID, &o.WorkingDay,
			&o.IsLate, &o.IsAbsent, &o.OvertimeMinutes, &o.Error, &o.RunID, &computedAt); err != nil {
			return nil, err
		}
		if o.Date, err = attendance.ParseDate(date); err != nil {
			return nil, err
		}
		o.ComputedAt, _ = time.Parse(time.RFC3339, computedAt)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// =============================================================================
// REPORT RUN STORE
// =============================================================================

// SaveReportRun inserts or updates a run by ID.
func (s *Store) SaveReportRun(ctx context.Context, r attendance.ReportRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO report_runs (id, range_start, range_end, status, evaluated, gaps,
			failures, warnings, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			evaluated = excluded.evaluated,
			gaps = excluded.gaps,
			failures = excluded.failures,
			warnings = excluded.warnings,
			error = excluded.error,
			completed_at = excluded.completed_at
	`

	var completedAt *string
	if r.CompletedAt != nil {
		s := r.CompletedAt.UTC().Format(time.RFC3339)
		completedAt = &s
	}

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Range.Start.String(), r.Range.End.String(), r.Status,
		r.Evaluated, r.Gaps, r.Failures, r.Warnings, r.Error,
		r.StartedAt.UTC().Format(time.RFC3339), completedAt,
	)
	return err
}

// ListReportRuns returns runs newest first, optionally filtered by status.
func (s *Store) ListReportRuns(ctx context.Context, status attendance.RunStatus, limit int) ([]attendance.ReportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, range_start, range_end, status, evaluated, gaps, failures, warnings,
			error, started_at, completed_at
		FROM report_runs`
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []attendance.ReportRun
	for rows.Next() {
		var r attendance.ReportRun
		var start, end, startedAt string
		var completedAt sql.NullString
		if err := rows.Scan(&r.ID, &start, &end, &r.Status, &r.Evaluated, &r.Gaps,
			&r.Failures, &r.Warnings, &r.Error, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		if r.Range.Start, err = attendance.ParseDate(start); err != nil {
			return nil, err
		}
		if r.Range.End, err = attendance.ParseDate(end); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		if completedAt.Valid {
			t, _ := time.Parse(time.RFC3339, completedAt.String)
			r.CompletedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// IsRangeComplete checks if a completed run already covers rng.
func (s *Store) IsRangeComplete(ctx context.Context, rng attendance.DateRange) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM report_runs
		WHERE range_start = ? AND range_end = ? AND status = 'completed'
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, rng.Start.String(), rng.End.String()).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data (demo scenarios).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"attendance_outcomes", "report_runs", "attendance_records",
		"policy_assignments", "holidays", "policies", "employees",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Helper functions

func nullDate(d *attendance.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
