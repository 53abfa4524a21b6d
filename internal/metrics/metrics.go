// Package metrics derives the dashboard's summary values and chart-ready
// tables from normalized sheets. Every function is pure; an empty or
// schema-incomplete table yields no output (ok == false), never an error.
package metrics

import (
	"sort"
	"time"

	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

// AnnualTotal sums the numeric cells of the value column. Both the month and
// the value column must be present.
func AnnualTotal(t *workbook.Table, month, value string) (float64, bool) {
	if t.Empty() {
		return 0, false
	}
	cols, ok := t.Require(month, value)
	if !ok {
		return 0, false
	}
	var sum float64
	for _, r := range t.Rows {
		if x, ok := r[cols[1]].Float(); ok {
			sum += x
		}
	}
	return sum, true
}

// Period is one dated row.
type Period struct {
	Month time.Time
	Row   int
}

// ByMonth returns the rows with a valid month in ascending month order. Rows
// whose month is not a date are left out; ties keep their original order.
func ByMonth(t *workbook.Table, month string) []Period {
	j, ok := t.Index(month)
	if !ok {
		return nil
	}
	var out []Period
	for i, r := range t.Rows {
		if m, ok := r[j].Date(); ok {
			out = append(out, Period{Month: m, Row: i})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Month.Before(out[b].Month) })
	return out
}

// LatestPeriod is the most recent row's month and the sum of its numeric
// non-month cells.
type LatestPeriod struct {
	Month time.Time
	Total float64
}

// LatestPeriodTotal sorts rows by month, takes the last one and sums every
// other numeric column of that row. The table needs the month column plus at
// least one more column.
func LatestPeriodTotal(t *workbook.Table, month string) (LatestPeriod, bool) {
	if t.Empty() || len(t.Columns) < 2 {
		return LatestPeriod{}, false
	}
	j, ok := t.Index(month)
	if !ok {
		return LatestPeriod{}, false
	}
	periods := ByMonth(t, month)
	if len(periods) == 0 {
		return LatestPeriod{}, false
	}
	last := periods[len(periods)-1]
	out := LatestPeriod{Month: last.Month}
	for k, v := range t.Rows[last.Row] {
		if k == j {
			continue
		}
		if x, ok := v.Float(); ok {
			out.Total += x
		}
	}
	return out, true
}

// Category is a labelled value.
type Category struct {
	Label string
	Value float64
}

// ranked returns rows with a numeric value, stable-sorted by value
// descending.
func ranked(t *workbook.Table, label, value string) ([]Category, bool) {
	if t.Empty() {
		return nil, false
	}
	cols, ok := t.Require(label, value)
	if !ok {
		return nil, false
	}
	var out []Category
	for _, r := range t.Rows {
		x, ok := r[cols[1]].Float()
		if !ok {
			continue
		}
		out = append(out, Category{Label: r[cols[0]].String(), Value: x})
	}
	if len(out) == 0 {
		return nil, false
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Value > out[b].Value })
	return out, true
}

// TopCategory returns the row with the largest value. Ties go to the row that
// comes first in the sheet.
func TopCategory(t *workbook.Table, label, value string) (Category, bool) {
	rows, ok := ranked(t, label, value)
	if !ok {
		return Category{}, false
	}
	return rows[0], true
}

// SheetCount is the number of sheets in the workbook.
func SheetCount(wb *workbook.Workbook) int { return wb.Len() }
