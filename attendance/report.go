/*
report.go - Batch evaluation over users and days

PURPOSE:
  Runs the full pipeline for every (user, day) in a range: index lookup,
  working-day decision, evaluation. Produces one DayResult per pair plus a
  Summary per user.

PARTIAL FAILURE:
  A configuration gap or a malformed record only marks its own DayResult.
  The rest of the batch is unaffected.

CONCURRENCY:
  Users are independent, so with Workers > 1 they are fanned out across
  goroutines. The Index, records and holiday sets are only read. Results land
  in pre-sized per-user slots so the output order never depends on
  scheduling.
*/
package attendance

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DayStatus classifies a DayResult.
type DayStatus string

const (
	DayStatusEvaluated DayStatus = "evaluated"
	DayStatusGap       DayStatus = "gap"    // no policy configured
	DayStatusFailed    DayStatus = "failed" // malformed record or policy
)

// DayResult is the outcome for one (user, day).
type DayResult struct {
	UserID     UserID
	Date       Date
	Status     DayStatus
	PolicyID   PolicyID
	WorkingDay bool
	Outcome    Outcome
	Record     *AttendanceRecord // merged record, nil if none
	Err        error             // ErrConfigurationGap or the evaluation error
}

// Summary aggregates a user's DayResults.
type Summary struct {
	UserID          UserID
	WorkingDays     int
	OffDays         int
	PresentDays     int
	LateDays        int
	AbsentDays      int
	Gaps            int
	Failures        int
	OvertimeMinutes int
	OvertimeHours   decimal.Decimal
}

// BatchInput is everything RunBatch needs.
type BatchInput struct {
	Range   DateRange
	Users   []UserID
	Index   *Index
	Records []AttendanceRecord

	// HolidaysFor returns the resolved holidays of a user. nil means none.
	HolidaysFor func(UserID) HolidaySet

	// Workers > 1 evaluates users in parallel.
	Workers int
}

// Batch is the result of RunBatch. Days is ordered by user then date.
type Batch struct {
	Range     DateRange
	Days      []DayResult
	Summaries []Summary
	Ambiguous []AmbiguousAssignment
}

// Failures returns the failed DayResults.
func (b *Batch) Failures() []DayResult {
	var failed []DayResult
	for _, d := range b.Days {
		if d.Status == DayStatusFailed {
			failed = append(failed, d)
		}
	}
	return failed
}

// RunBatch evaluates every user in in.Users over in.Range.
func RunBatch(in BatchInput) *Batch {
	records := mergeRecords(in.Records)

	users := make([]UserID, len(in.Users))
	copy(users, in.Users)
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	days := in.Range.Days()
	perUser := make([][]DayResult, len(users))
	summaries := make([]Summary, len(users))

	evaluateUser := func(i int) {
		user := users[i]
		var holidays HolidaySet
		if in.HolidaysFor != nil {
			holidays = in.HolidaysFor(user)
		}
		results := make([]DayResult, 0, len(days))
		for _, day := range days {
			results = append(results, evaluateDay(in.Index, user, day, records, holidays))
		}
		perUser[i] = results
		summaries[i] = Summarize(user, results)
	}

	if in.Workers <= 1 {
		for i := range users {
			evaluateUser(i)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < in.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					evaluateUser(i)
				}
			}()
		}
		for i := range users {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	batch := &Batch{Range: in.Range, Summaries: summaries}
	if in.Index != nil {
		batch.Ambiguous = in.Index.Ambiguous
	}
	for _, r := range perUser {
		batch.Days = append(batch.Days, r...)
	}
	return batch
}

func evaluateDay(idx *Index, user UserID, day Date, records map[dayKey]AttendanceRecord, holidays HolidaySet) DayResult {
	result := DayResult{UserID: user, Date: day}
	if rec, ok := records[dayKey{UserID: user, Date: day}]; ok {
		result.Record = &rec
	}

	var policy EffectivePolicy
	var ok bool
	if idx != nil {
		policy, ok = idx.Lookup(user, day)
	}
	if !ok {
		result.Status = DayStatusGap
		result.Err = ErrConfigurationGap
		return result
	}

	result.PolicyID = policy.ID
	result.WorkingDay = IsWorkingDay(day, policy, holidays)
	outcome, err := Evaluate(result.Record, policy, result.WorkingDay)
	if err != nil {
		result.Status = DayStatusFailed
		result.Err = err
		return result
	}
	result.Status = DayStatusEvaluated
	result.Outcome = outcome
	return result
}

// mergeRecords collapses records to one per (user, day): earliest clock-in,
// latest clock-out, manual if any contributing record was manual.
func mergeRecords(records []AttendanceRecord) map[dayKey]AttendanceRecord {
	merged := make(map[dayKey]AttendanceRecord, len(records))
	for _, r := range records {
		k := dayKey{UserID: r.UserID, Date: r.Date}
		existing, ok := merged[k]
		if !ok {
			merged[k] = r
			continue
		}
		existing.ClockIn = earliest(existing.ClockIn, r.ClockIn)
		existing.ClockOut = latest(existing.ClockOut, r.ClockOut)
		existing.IsManual = existing.IsManual || r.IsManual
		merged[k] = existing
	}
	return merged
}

func earliest(a, b *time.Time) *time.Time {
	if a == nil || (b != nil && b.Before(*a)) {
		return b
	}
	return a
}

func latest(a, b *time.Time) *time.Time {
	if a == nil || (b != nil && b.After(*a)) {
		return b
	}
	return a
}

var minutesPerHour = decimal.NewFromInt(60)

// Summarize aggregates one user's day results.
func Summarize(user UserID, days []DayResult) Summary {
	s := Summary{UserID: user}
	for _, d := range days {
		switch d.Status {
		case DayStatusGap:
			s.Gaps++
			continue
		case DayStatusFailed:
			s.Failures++
			continue
		}
		if !d.WorkingDay {
			s.OffDays++
			continue
		}
		s.WorkingDays++
		if d.Outcome.IsAbsent {
			s.AbsentDays++
		} else {
			s.PresentDays++
		}
		if d.Outcome.IsLate {
			s.LateDays++
		}
		s.OvertimeMinutes += d.Outcome.OvertimeMinutes
	}
	s.OvertimeHours = decimal.NewFromInt(int64(s.OvertimeMinutes)).Div(minutesPerHour).Round(2)
	return s
}
