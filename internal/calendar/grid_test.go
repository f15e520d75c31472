package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/period"
)

// 2025-11-18 is a Tuesday.
func testToday(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	return time.Date(2025, 11, 18, 23, 45, 0, 0, loc)
}

func TestBuild_Columns(t *testing.T) {
	grid := Build(nil, testToday(t), period.Default())

	require.Len(t, grid.Columns, Days)
	assert.Equal(t, Column{Key: "day0", Label: "今天", Date: "2025-11-18", DayDate: "11.18"}, grid.Columns[0])
	assert.Equal(t, Column{Key: "day1", Label: "周三", Date: "2025-11-19", DayDate: "11.19"}, grid.Columns[1])
	assert.Equal(t, Column{Key: "day5", Label: "周日", Date: "2025-11-23", DayDate: "11.23"}, grid.Columns[5])
	assert.Equal(t, Column{Key: "day13", Label: "周一", Date: "2025-12-01", DayDate: "12.1"}, grid.Columns[13])
}

func TestBuild_ColumnsCrossYear(t *testing.T) {
	today := time.Date(2025, 12, 25, 8, 0, 0, 0, time.UTC)
	grid := Build(nil, today, period.Default())

	assert.Equal(t, "2025-12-25", grid.Columns[0].Date)
	assert.Equal(t, "2026-01-07", grid.Columns[13].Date)
	assert.Equal(t, "1.7", grid.Columns[13].DayDate)
}

func TestBuild_EmptyInputHasBaselineRows(t *testing.T) {
	grid := Build(nil, testToday(t), period.Default())

	require.Len(t, grid.Rows, 3)
	for i, want := range []string{"上午 8:00-12:00", "下午 14:00-18:00", "晚上 19:00-21:00"} {
		row := grid.Rows[i]
		assert.Equal(t, want, row.Label)
		assert.Equal(t, 0, row.Slot)
		assert.Len(t, row.Cells, Days)
		for key, content := range row.Cells {
			assert.Empty(t, content, "cell %s of row %d", key, i)
		}
	}
	assert.Empty(t, grid.Lookup)
	assert.Empty(t, grid.Dropped)
}

func TestBuild_TwoDoctorsShareTodayMorning(t *testing.T) {
	shifts := []model.Shift{
		{Date: "2025-11-18", TimePeriod: 1, DoctorName: "A"},
		{Date: "2025-11-18", TimePeriod: 1, DoctorName: "B"},
	}

	grid := Build(shifts, testToday(t), period.Default())

	require.Len(t, grid.Rows, 4)
	assert.Equal(t, 2, grid.RowCount(1))
	assert.Equal(t, 1, grid.RowCount(2))
	assert.Equal(t, 1, grid.RowCount(3))

	assert.Equal(t, "上午 8:00-12:00 (1)", grid.Rows[0].Label)
	assert.Equal(t, "上午 8:00-12:00 (2)", grid.Rows[1].Label)
	assert.Equal(t, "下午 14:00-18:00", grid.Rows[2].Label)
	assert.Equal(t, "晚上 19:00-21:00", grid.Rows[3].Label)

	assert.Equal(t, "A", grid.Rows[0].Cells["day0"])
	assert.Equal(t, "B", grid.Rows[1].Cells["day0"])
	for _, row := range grid.Rows {
		for key, content := range row.Cells {
			if key == "day0" && row.Period == 1 {
				continue
			}
			assert.Empty(t, content, "row %q column %s", row.Label, key)
		}
	}
}

func TestBuild_RowCountIsPeriodGlobal(t *testing.T) {
	shifts := []model.Shift{
		{Date: "2025-11-19", TimePeriod: 2, DoctorName: "A"},
		{Date: "2025-11-23", TimePeriod: 2, DoctorName: "B"},
		{Date: "2025-11-23", TimePeriod: 2, DoctorName: "C"},
		{Date: "2025-11-23", TimePeriod: 2, DoctorName: "D"},
		{Date: "2025-11-20", TimePeriod: 3, DoctorName: "E"},
	}

	grid := Build(shifts, testToday(t), period.Default())

	assert.Equal(t, 1, grid.RowCount(1))
	assert.Equal(t, 3, grid.RowCount(2))
	assert.Equal(t, 1, grid.RowCount(3))

	// rows: [P1] [P2 s0] [P2 s1] [P2 s2] [P3]
	require.Len(t, grid.Rows, 5)
	assert.Equal(t, "A", grid.Rows[1].Cells["day1"])
	assert.Empty(t, grid.Rows[2].Cells["day1"])
	assert.Empty(t, grid.Rows[3].Cells["day1"])
	assert.Equal(t, []string{"B", "C", "D"}, []string{
		grid.Rows[1].Cells["day5"], grid.Rows[2].Cells["day5"], grid.Rows[3].Cells["day5"],
	})
	assert.Equal(t, "E", grid.Rows[4].Cells["day2"])
}

func TestBuild_EveryShiftInExactlyOneCell(t *testing.T) {
	shifts := []model.Shift{
		{Date: "2025-11-18", TimePeriod: 1, DoctorName: "A", ScheduleID: "S1"},
		{Date: "2025-11-18", TimePeriod: 1, DoctorName: "B", ScheduleID: "S2"},
		{Date: "2025-11-18T00:00:00", TimePeriod: 2, DoctorName: "C", ScheduleID: "S3"},
		{Date: "2025-11-25", TimePeriod: 3, DoctorName: "D", ScheduleID: "S4", ClinicPlace: "3号诊室"},
		{Date: "2025-12-01", TimePeriod: 1, DoctorName: "E", ScheduleID: "S5"},
		{Date: "2025-12-01", TimePeriod: 1, DoctorName: "F", ScheduleID: "S6"},
		{Date: "2025-12-01", TimePeriod: 1, DoctorName: "G", ScheduleID: "S7"},
	}

	grid := Build(shifts, testToday(t), period.Default())

	require.Empty(t, grid.Dropped)
	require.Len(t, grid.Lookup, len(shifts))

	seen := make(map[string]int)
	for key, s := range grid.Lookup {
		seen[s.ScheduleID]++
		assert.Equal(t, s.TimePeriod, key.Period, "period of %s", s.ScheduleID)
		assert.Contains(t, s.Date, key.Date, "date of %s", s.ScheduleID)
	}
	for _, s := range shifts {
		assert.Equal(t, 1, seen[s.ScheduleID], "shift %s", s.ScheduleID)
	}

	filled := 0
	for _, row := range grid.Rows {
		for _, content := range row.Cells {
			if content != "" {
				filled++
			}
		}
	}
	assert.Equal(t, len(shifts), filled)
	assert.Equal(t, 3, grid.RowCount(1))
}

func TestBuild_ClinicPlacePreferred(t *testing.T) {
	grid := Build([]model.Shift{
		{Date: "2025-11-18", TimePeriod: 2, DoctorName: "王医生", ClinicPlace: "门诊楼2层5诊室"},
	}, testToday(t), period.Default())

	assert.Equal(t, "门诊楼2层5诊室", grid.Rows[1].Cells["day0"])
}

func TestBuild_DropsUnplaceableShifts(t *testing.T) {
	shifts := []model.Shift{
		{Date: "2025-11-18", TimePeriod: 9, DoctorName: "unknown period"},
		{Date: "2025-11-17", TimePeriod: 1, DoctorName: "yesterday"},
		{Date: "2025-12-02", TimePeriod: 1, DoctorName: "day 14"},
		{Date: "soon", TimePeriod: 1, DoctorName: "bad date"},
		{Date: "2025-11-18", TimePeriod: 1, DoctorName: "kept"},
	}

	grid := Build(shifts, testToday(t), period.Default())

	require.Len(t, grid.Dropped, 4)
	reasons := map[string]string{}
	for _, d := range grid.Dropped {
		reasons[d.Shift.DoctorName] = d.Reason
	}
	assert.Equal(t, DropUnknownPeriod, reasons["unknown period"])
	assert.Equal(t, DropOutOfWindow, reasons["yesterday"])
	assert.Equal(t, DropOutOfWindow, reasons["day 14"])
	assert.Equal(t, DropBadDate, reasons["bad date"])

	assert.Len(t, grid.Rows, 3)
	assert.Len(t, grid.Lookup, 1)
	assert.Equal(t, "kept", grid.Rows[0].Cells["day0"])
}

func TestBuild_CustomVocabulary(t *testing.T) {
	v := period.New([]period.Period{
		{Code: 1, Label: "AM", Detail: "AM 8-12"},
		{Code: 2, Label: "PM", Detail: "PM 14-18"},
	})

	grid := Build([]model.Shift{{Date: "2025-11-18", TimePeriod: 3, DoctorName: "evening"}}, testToday(t), v)

	assert.Len(t, grid.Rows, 2)
	require.Len(t, grid.Dropped, 1)
	assert.Equal(t, DropUnknownPeriod, grid.Dropped[0].Reason)
}

func TestGrid_ShiftAtAndAssignments(t *testing.T) {
	shifts := []model.Shift{
		{Date: "2025-11-19", TimePeriod: 1, DoctorName: "A", ScheduleID: "S1"},
		{Date: "2025-11-19", TimePeriod: 1, DoctorName: "B", ScheduleID: "S2"},
		{Date: "2025-11-18", TimePeriod: 3, DoctorName: "C", ScheduleID: "S3"},
	}
	grid := Build(shifts, testToday(t), period.Default())

	s, ok := grid.ShiftAt("day1", 1)
	require.True(t, ok)
	assert.Equal(t, "S2", s.ScheduleID)

	_, ok = grid.ShiftAt("day0", 0)
	assert.False(t, ok)
	_, ok = grid.ShiftAt("day99", 0)
	assert.False(t, ok)
	_, ok = grid.ShiftAt("day1", 42)
	assert.False(t, ok)

	assignments := grid.Assignments()
	require.Len(t, assignments, 3)
	assert.Equal(t, "S3", assignments[0].Shift.ScheduleID)
	assert.Equal(t, "S1", assignments[1].Shift.ScheduleID)
	assert.Equal(t, 1, assignments[2].Slot)
}
