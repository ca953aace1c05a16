/*
evaluator.go - Lateness, absence and overtime for a single day

RULES (working days only):
  - no record, or no clock-in  -> absent
  - clock-in after WorkStart + LateGraceMinutes -> late (still present)
  - clock-out after WorkEnd + OvertimeThresholdMinutes -> overtime is the
    excess over the threshold, in whole minutes
  - no clock-out yet -> overtime 0; re-evaluate once the clock-out lands

Non-working days always yield a zero Outcome, even when the user clocked in.

EXAMPLE:
  policy 09:00-17:00, grace 10, threshold 30
  clock-in 09:15, clock-out 17:45 -> late, 15 minutes overtime
*/
package attendance

// Evaluate computes the attendance outcome for one (user, day). record may
// be nil. The only errors are for malformed input: an invalid policy or a
// record that cannot be judged on time-of-day alone.
func Evaluate(record *AttendanceRecord, policy EffectivePolicy, workingDay bool) (Outcome, error) {
	if !workingDay {
		return Outcome{}, nil
	}
	if err := policy.Validate(); err != nil {
		return Outcome{}, err
	}
	if record == nil || record.ClockIn == nil {
		return Outcome{IsAbsent: true}, nil
	}

	clockIn := ClockOf(*record.ClockIn)
	outcome := Outcome{
		IsLate: clockIn > policy.WorkStart.AddMinutes(policy.LateGraceMinutes),
	}

	if record.ClockOut == nil {
		return outcome, nil
	}
	if err := checkClockPair(record); err != nil {
		return Outcome{}, err
	}

	over := policy.WorkEnd.MinutesUntil(ClockOf(*record.ClockOut)) - policy.OvertimeThresholdMinutes
	if over > 0 {
		outcome.OvertimeMinutes = over
	}
	return outcome, nil
}

func checkClockPair(record *AttendanceRecord) error {
	in, out := *record.ClockIn, *record.ClockOut
	if out.Before(in) {
		return &MalformedRecordError{
			UserID: record.UserID,
			Date:   record.Date,
			Reason: "clock-out " + out.Format("15:04:05") + " precedes clock-in " + in.Format("15:04:05"),
		}
	}
	if DateOf(out) != DateOf(in) {
		return &MalformedRecordError{
			UserID: record.UserID,
			Date:   record.Date,
			Reason: "clock-out on " + DateOf(out).String() + " is not on the clock-in day (overnight shifts are not supported)",
		}
	}
	return nil
}
