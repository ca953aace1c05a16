package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/reporting"
	"github.com/xuri/excelize/v2"
)

func sampleResult(t *testing.T) *reporting.Result {
	t.Helper()
	tue := attendance.NewDate(2025, time.March, 4)
	rng := attendance.DateRange{Start: attendance.NewDate(2025, time.March, 3), End: tue}
	policy := attendance.AttendancePolicy{
		ID: "office", WorkingDays: attendance.MondayToFriday,
		WorkStart: attendance.MustTimeOfDay(9, 0), WorkEnd: attendance.MustTimeOfDay(17, 0),
		LateGraceMinutes: 10, OvertimeThresholdMinutes: 30,
	}
	idx, err := attendance.Build([]attendance.PolicyAssignment{
		{ID: "a1", UserID: "alice", Policy: &policy, StartDate: rng.Start},
	}, nil, rng)
	require.NoError(t, err)

	in := time.Date(2025, time.March, 4, 9, 15, 0, 0, time.UTC)
	out := time.Date(2025, time.March, 4, 17, 45, 0, 0, time.UTC)
	batch := attendance.RunBatch(attendance.BatchInput{
		Range:   rng,
		Users:   []attendance.UserID{"alice", "bob"},
		Index:   idx,
		Records: []attendance.AttendanceRecord{{ID: "r1", UserID: "alice", Date: tue, ClockIn: &in, ClockOut: &out}},
	})

	return &reporting.Result{
		Range:     rng,
		Batch:     batch,
		Employees: map[attendance.UserID]attendance.Employee{"alice": {ID: "alice", Name: "Alice"}},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleResult(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	daily, err := f.GetRows(DailySheet)
	require.NoError(t, err)
	require.Len(t, daily, 5, "header + 2 users x 2 days")
	assert.Equal(t, "Employee ID", daily[0][0])

	tuesday := daily[2]
	assert.Equal(t, "alice", tuesday[0])
	assert.Equal(t, "Alice", tuesday[1])
	assert.Equal(t, "2025-03-04", tuesday[2])
	assert.Equal(t, "09:15:00", tuesday[7])
	assert.Equal(t, "yes", tuesday[9], "late")
	assert.Equal(t, "15", tuesday[11])

	bobMonday := daily[3]
	assert.Equal(t, "bob", bobMonday[1], "unknown employees fall back to their ID")
	assert.Equal(t, "gap", bobMonday[5])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "0.25", summary[1][10])
	assert.Equal(t, "2", summary[2][7], "bob's gaps")
}
