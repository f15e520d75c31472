// Package calendar projects flat shift records onto the two-week schedule grid.
//
// Columns are the 14 calendar days starting today. Rows are (period, slot) pairs: every
// period gets as many slot rows as the busiest day in the window has shifts for it, so a
// period with three doctors on one day shows three rows on every day. Shifts that cannot
// be placed are reported in Grid.Dropped instead of being rendered.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/parse"
	"clinic-desk-backend/internal/period"
)

// Days is the width of the grid.
const Days = 14

const todayLabel = "今天"

var weekdayLabels = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// Reasons a shift is left out of the grid.
const (
	DropBadDate       = "unparseable date"
	DropUnknownPeriod = "unknown time period"
	DropOutOfWindow   = "outside the visible window"
)

// Column is one day of the grid.
type Column struct {
	Key     string `json:"key"`
	Label   string `json:"label"`   // weekday, or 今天 for day 0
	Date    string `json:"date"`    // YYYY-MM-DD
	DayDate string `json:"dayDate"` // month.day
}

// Row is one (period, slot) line of the grid; Cells is keyed by Column.Key.
type Row struct {
	Period int               `json:"period"`
	Slot   int               `json:"slot"`
	Label  string            `json:"label"`
	Cells  map[string]string `json:"cells"`
}

// CellKey addresses the shift behind a rendered cell.
type CellKey struct {
	Date   string
	Period int
	Slot   int
}

// Dropped is a shift the grid could not place.
type Dropped struct {
	Shift  model.Shift `json:"shift"`
	Reason string      `json:"reason"`
}

// Grid is the rendered schedule.
type Grid struct {
	Columns []Column                `json:"columns"`
	Rows    []Row                   `json:"rows"`
	Lookup  map[CellKey]model.Shift `json:"-"`
	Dropped []Dropped               `json:"dropped,omitempty"`
}

type groupKey struct {
	date   string
	period int
}

// Build renders shifts for the 14 days starting at today's local calendar day.
func Build(shifts []model.Shift, today time.Time, v *period.Vocabulary) Grid {
	columns := buildColumns(today)
	inWindow := make(map[string]bool, len(columns))
	for _, c := range columns {
		inWindow[c.Date] = true
	}

	grid := Grid{
		Columns: columns,
		Lookup:  make(map[CellKey]model.Shift),
	}

	groups := make(map[groupKey][]model.Shift)
	for _, s := range shifts {
		date, err := parse.CalendarDate(s.Date)
		switch {
		case err != nil:
			grid.Dropped = append(grid.Dropped, Dropped{Shift: s, Reason: DropBadDate})
		case !v.Known(s.TimePeriod):
			grid.Dropped = append(grid.Dropped, Dropped{Shift: s, Reason: DropUnknownPeriod})
		case !inWindow[date]:
			grid.Dropped = append(grid.Dropped, Dropped{Shift: s, Reason: DropOutOfWindow})
		default:
			k := groupKey{date: date, period: s.TimePeriod}
			groups[k] = append(groups[k], s)
		}
	}

	// Row count per period is the busiest column's group size, at least one.
	firstRow := make(map[int]int)
	for _, p := range v.Periods() {
		slots := 1
		for _, c := range columns {
			if n := len(groups[groupKey{date: c.Date, period: p.Code}]); n > slots {
				slots = n
			}
		}
		firstRow[p.Code] = len(grid.Rows)
		for slot := 0; slot < slots; slot++ {
			label := p.Detail
			if slots > 1 {
				label = fmt.Sprintf("%s (%d)", p.Detail, slot+1)
			}
			cells := make(map[string]string, len(columns))
			for _, c := range columns {
				cells[c.Key] = ""
			}
			grid.Rows = append(grid.Rows, Row{Period: p.Code, Slot: slot, Label: label, Cells: cells})
		}
	}

	for _, c := range columns {
		for _, p := range v.Periods() {
			for slot, s := range groups[groupKey{date: c.Date, period: p.Code}] {
				grid.Rows[firstRow[p.Code]+slot].Cells[c.Key] = cellText(s)
				grid.Lookup[CellKey{Date: c.Date, Period: p.Code, Slot: slot}] = s
			}
		}
	}
	return grid
}

func buildColumns(today time.Time) []Column {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	columns := make([]Column, 0, Days)
	for i := 0; i < Days; i++ {
		d := start.AddDate(0, 0, i)
		label := weekdayLabels[d.Weekday()]
		if i == 0 {
			label = todayLabel
		}
		columns = append(columns, Column{
			Key:     fmt.Sprintf("day%d", i),
			Label:   label,
			Date:    d.Format(parse.DateLayout),
			DayDate: fmt.Sprintf("%d.%d", int(d.Month()), d.Day()),
		})
	}
	return columns
}

func cellText(s model.Shift) string {
	if s.ClinicPlace != "" {
		return s.ClinicPlace
	}
	return s.DoctorName
}

// ShiftAt returns the shift rendered at the given column key and row index.
func (g Grid) ShiftAt(columnKey string, rowIndex int) (model.Shift, bool) {
	if rowIndex < 0 || rowIndex >= len(g.Rows) {
		return model.Shift{}, false
	}
	for _, c := range g.Columns {
		if c.Key == columnKey {
			row := g.Rows[rowIndex]
			s, ok := g.Lookup[CellKey{Date: c.Date, Period: row.Period, Slot: row.Slot}]
			return s, ok
		}
	}
	return model.Shift{}, false
}

// RowCount returns how many rows the grid allocated to a period.
func (g Grid) RowCount(periodCode int) int {
	n := 0
	for _, r := range g.Rows {
		if r.Period == periodCode {
			n++
		}
	}
	return n
}

// Assignment is a placed shift with its grid coordinates.
type Assignment struct {
	Date   string      `json:"date"`
	Period int         `json:"period"`
	Slot   int         `json:"slot"`
	Shift  model.Shift `json:"shift"`
}

// Assignments lists the lookup structure ordered by date, period and slot.
func (g Grid) Assignments() []Assignment {
	out := make([]Assignment, 0, len(g.Lookup))
	for k, s := range g.Lookup {
		out = append(out, Assignment{Date: k.Date, Period: k.Period, Slot: k.Slot, Shift: s})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		return a.Slot < b.Slot
	})
	return out
}
