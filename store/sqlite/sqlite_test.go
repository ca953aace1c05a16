package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/attendance"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func officePolicy(id attendance.PolicyID) attendance.AttendancePolicy {
	return attendance.AttendancePolicy{
		ID:                       id,
		Name:                     "Office",
		WorkingDays:              attendance.MondayToFriday,
		OffDays:                  attendance.NewWeekdays(time.Saturday, time.Sunday),
		WorkStart:                attendance.MustTimeOfDay(9, 0),
		WorkEnd:                  attendance.MustTimeOfDay(17, 0),
		LateGraceMinutes:         10,
		OvertimeThresholdMinutes: 30,
	}
}

func TestStore_Employees(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	emp := attendance.Employee{
		ID: "emp-1", Name: "Alice", Email: "alice@example.com",
		Placement: attendance.Placement{CompanyID: "c1", LocationID: "l1"},
	}
	require.NoError(t, store.SaveEmployee(ctx, emp))

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "c1", got.Placement.CompanyID)
	assert.Equal(t, "l1", got.Placement.LocationID)

	_, err = store.GetEmployee(ctx, "ghost")
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)

	list, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_PolicyRoundTripAndVersioning(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	policy := officePolicy("office")
	require.NoError(t, store.SavePolicy(ctx, policy))

	rec, err := store.GetPolicy(ctx, "office")
	require.NoError(t, err)
	assert.Equal(t, policy, rec.Policy)
	assert.Equal(t, 1, rec.Version)

	policy.LateGraceMinutes = 15
	require.NoError(t, store.SavePolicy(ctx, policy))
	rec, err = store.GetPolicy(ctx, "office")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Version)
	assert.Equal(t, 15, rec.Policy.LateGraceMinutes)

	_, err = store.GetPolicy(ctx, "missing")
	assert.ErrorIs(t, err, attendance.ErrPolicyNotFound)
}

func TestStore_SavePolicyRejectsInvalid(t *testing.T) {
	policy := officePolicy("broken")
	policy.WorkStart = attendance.MustTimeOfDay(18, 0)

	err := newTestStore(t).SavePolicy(context.Background(), policy)
	assert.ErrorIs(t, err, attendance.ErrInvalidPolicy)
}

func TestStore_AssignPolicyClosesPrevious(t *testing.T) {
	// GIVEN: emp-1 assigned "office" from January 1 (open-ended)
	// WHEN: "field" is assigned from March 15
	// THEN: The office assignment is closed on March 14, not deleted

	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SavePolicy(ctx, officePolicy("office")))
	require.NoError(t, store.SavePolicy(ctx, officePolicy("field")))

	require.NoError(t, store.AssignPolicy(ctx, attendance.PolicyAssignment{
		ID: "a1", UserID: "emp-1", PolicyID: "office", StartDate: attendance.NewDate(2025, time.January, 1),
	}))
	require.NoError(t, store.AssignPolicy(ctx, attendance.PolicyAssignment{
		ID: "a2", UserID: "emp-1", PolicyID: "field", StartDate: attendance.NewDate(2025, time.March, 15),
	}))

	history, err := store.ListAssignmentsByUser(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.NotNil(t, history[0].EndDate)
	assert.Equal(t, attendance.NewDate(2025, time.March, 14), *history[0].EndDate)
	assert.Nil(t, history[1].EndDate)

	// The closed assignment drops out of later ranges
	april, err := store.ListAssignments(ctx, attendance.MonthRange(2025, time.April))
	require.NoError(t, err)
	require.Len(t, april, 1)
	assert.Equal(t, attendance.AssignmentID("a2"), april[0].ID)

	march, err := store.ListAssignments(ctx, attendance.MonthRange(2025, time.March))
	require.NoError(t, err)
	assert.Len(t, march, 2)
}

func TestStore_AssignPolicyUnknownPolicy(t *testing.T) {
	err := newTestStore(t).AssignPolicy(context.Background(), attendance.PolicyAssignment{
		ID: "a1", UserID: "emp-1", PolicyID: "nope", StartDate: attendance.NewDate(2025, time.March, 1),
	})
	assert.ErrorIs(t, err, attendance.ErrPolicyNotFound)
}

func TestStore_Records(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2025, time.March, 4, 9, 15, 0, 0, loc)
	out := time.Date(2025, time.March, 4, 17, 45, 0, 0, loc)
	require.NoError(t, store.SaveRecord(ctx, attendance.AttendanceRecord{
		ID: "r1", UserID: "emp-1", Date: attendance.NewDate(2025, time.March, 4), ClockIn: &in, ClockOut: &out,
	}))
	require.NoError(t, store.SaveRecord(ctx, attendance.AttendanceRecord{
		ID: "r2", UserID: "emp-1", Date: attendance.NewDate(2025, time.April, 1), ClockIn: &in, IsManual: true,
	}))

	records, err := store.ListRecords(ctx, attendance.MonthRange(2025, time.March))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ClockIn)
	assert.Equal(t, attendance.MustTimeOfDay(9, 15), attendance.ClockOf(*records[0].ClockIn), "wall clock survives storage")
	assert.True(t, out.Equal(*records[0].ClockOut))

	april, err := store.ListRecords(ctx, attendance.MonthRange(2025, time.April))
	require.NoError(t, err)
	require.Len(t, april, 1)
	assert.Nil(t, april[0].ClockOut)
	assert.True(t, april[0].IsManual)
}

func TestStore_Holidays(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveHoliday(ctx, attendance.Holiday{
		ID: "h1", Date: attendance.NewDate(2025, time.December, 25), Name: "Christmas", Recurring: true,
	}))
	require.NoError(t, store.SaveHoliday(ctx, attendance.Holiday{
		ID: "h2", Scope: attendance.ScopeCompany, ScopeID: "c1", Date: attendance.NewDate(2025, time.March, 3), Name: "Founders",
	}))

	holidays, err := store.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, attendance.ScopeCompany, holidays[0].Scope)
	assert.Equal(t, attendance.ScopeGlobal, holidays[1].Scope, "empty scope is stored as global")
	assert.True(t, holidays[1].Recurring)

	// Same name/date/scope under another ID is rejected
	err = store.SaveHoliday(ctx, attendance.Holiday{
		ID: "h3", Scope: attendance.ScopeCompany, ScopeID: "c1", Date: attendance.NewDate(2025, time.March, 3), Name: "Founders",
	})
	assert.ErrorIs(t, err, attendance.ErrDuplicate)

	require.NoError(t, store.DeleteHoliday(ctx, "h2"))
	holidays, err = store.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, holidays, 1)
}

func TestStore_OutcomesUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	day := attendance.NewDate(2025, time.March, 4)
	rng := attendance.MonthRange(2025, time.March)

	require.NoError(t, store.SaveOutcomes(ctx, []attendance.StoredOutcome{
		{UserID: "emp-1", Date: day, Status: attendance.DayStatusEvaluated, WorkingDay: true, IsAbsent: true, RunID: "run-1", ComputedAt: time.Now()},
		{UserID: "emp-2", Date: day, Status: attendance.DayStatusGap, Error: "no policy", RunID: "run-1", ComputedAt: time.Now()},
	}))
	require.NoError(t, store.SaveOutcomes(ctx, []attendance.StoredOutcome{
		{UserID: "emp-1", Date: day, Status: attendance.DayStatusEvaluated, WorkingDay: true, IsLate: true, OvertimeMinutes: 15, RunID: "run-2", ComputedAt: time.Now()},
	}))

	all, err := store.ListOutcomes(ctx, "", rng)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := store.ListOutcomes(ctx, "emp-1", rng)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "run-2", mine[0].RunID)
	assert.True(t, mine[0].IsLate)
	assert.False(t, mine[0].IsAbsent)
	assert.Equal(t, 15, mine[0].OvertimeMinutes)
}

func TestStore_ReportRuns(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	rng := attendance.MonthRange(2025, time.March)

	run := attendance.ReportRun{ID: "run-1", Range: rng, Status: attendance.RunRunning, StartedAt: time.Now()}
	require.NoError(t, store.SaveReportRun(ctx, run))

	done, err := store.IsRangeComplete(ctx, rng)
	require.NoError(t, err)
	assert.False(t, done)

	completed := time.Now()
	run.Status = attendance.RunCompleted
	run.Evaluated = 31
	run.CompletedAt = &completed
	require.NoError(t, store.SaveReportRun(ctx, run))

	done, err = store.IsRangeComplete(ctx, rng)
	require.NoError(t, err)
	assert.True(t, done)

	runs, err := store.ListReportRuns(ctx, attendance.RunCompleted, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rng, runs[0].Range)
	assert.Equal(t, 31, runs[0].Evaluated)
	assert.NotNil(t, runs[0].CompletedAt)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SavePolicy(ctx, officePolicy("office")))
	require.NoError(t, store.AssignPolicy(ctx, attendance.PolicyAssignment{
		ID: "a1", UserID: "emp-1", PolicyID: "office", StartDate: attendance.NewDate(2025, time.January, 1),
	}))

	require.NoError(t, store.Reset(ctx))

	policies, err := store.ListPolicies(ctx)
	require.NoError(t, err)
	assert.Empty(t, policies)
}
