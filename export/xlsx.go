// Package export renders report results as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/reporting"
	"github.com/xuri/excelize/v2"
)

const (
	DailySheet   = "Daily"
	SummarySheet = "Summary"
)

var (
	dailyHeaders = []interface{}{
		"Employee ID", "Name", "Date", "Weekday", "Policy", "Status", "Working Day",
		"Clock In", "Clock Out", "Late", "Absent", "Overtime (min)", "Manual", "Error",
	}
	summaryHeaders = []interface{}{
		"Employee ID", "Name", "Working Days", "Off Days", "Present", "Late", "Absent",
		"Gaps", "Failures", "Overtime (min)", "Overtime (h)",
	}
)

// WriteXLSX writes a workbook with a per-day sheet and a per-user summary.
func WriteXLSX(w io.Writer, result *reporting.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DailySheet); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	if err := f.SetSheetRow(DailySheet, "A1", &dailyHeaders); err != nil {
		return err
	}
	for i, d := range result.Batch.Days {
		row := dailyRow(result, d)
		if err := f.SetSheetRow(DailySheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeaders); err != nil {
		return err
	}
	for i, s := range result.Batch.Summaries {
		row := []interface{}{
			string(s.UserID), result.EmployeeName(s.UserID),
			s.WorkingDays, s.OffDays, s.PresentDays, s.LateDays, s.AbsentDays,
			s.Gaps, s.Failures, s.OvertimeMinutes, s.OvertimeHours.StringFixed(2),
		}
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("error writing summary row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(DailySheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func dailyRow(result *reporting.Result, d attendance.DayResult) []interface{} {
	var clockIn, clockOut string
	manual := false
	if d.Record != nil {
		if d.Record.ClockIn != nil {
			clockIn = attendance.ClockOf(*d.Record.ClockIn).String()
		}
		if d.Record.ClockOut != nil {
			clockOut = attendance.ClockOf(*d.Record.ClockOut).String()
		}
		manual = d.Record.IsManual
	}
	var errText string
	if d.Err != nil {
		errText = d.Err.Error()
	}
	return []interface{}{
		string(d.UserID), result.EmployeeName(d.UserID),
		d.Date.String(), d.Date.Weekday().String(), string(d.PolicyID), string(d.Status),
		yesNo(d.WorkingDay), clockIn, clockOut,
		yesNo(d.Outcome.IsLate), yesNo(d.Outcome.IsAbsent), d.Outcome.OvertimeMinutes,
		yesNo(manual), errText,
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
