package metrics

import (
	"time"

	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

// MonthValue is one bar of the monthly chart.
type MonthValue struct {
	Month time.Time
	Value float64
}

// Label formats the month as YYYY-MM.
func (m MonthValue) Label() string { return m.Month.Format("2006-01") }

// Monthly returns value by month, ascending. Rows with an invalid month or a
// non-numeric value are left out.
func Monthly(t *workbook.Table, month, value string) ([]MonthValue, bool) {
	if t.Empty() {
		return nil, false
	}
	cols, ok := t.Require(month, value)
	if !ok {
		return nil, false
	}
	var out []MonthValue
	for _, p := range ByMonth(t, month) {
		x, ok := t.Rows[p.Row][cols[1]].Float()
		if !ok {
			continue
		}
		out = append(out, MonthValue{Month: p.Month, Value: x})
	}
	return out, len(out) > 0
}

// Series is one metric of a time-series chart.
type Series struct {
	Name   string
	Months []time.Time
	Values []float64
}

// SeriesFromLong groups a melted table back into per-metric series for
// plotting. Points with an invalid date or non-numeric value are dropped and
// each series is ordered by month.
func SeriesFromLong(long *workbook.Table, id string) ([]Series, bool) {
	if long.Empty() {
		return nil, false
	}
	cols, ok := long.Require(id, MetricColumn, ValueColumn)
	if !ok {
		return nil, false
	}
	index := map[string]int{}
	var out []Series
	for _, p := range ByMonth(long, id) {
		r := long.Rows[p.Row]
		x, ok := r[cols[2]].Float()
		if !ok {
			continue
		}
		name := r[cols[1]].String()
		k, seen := index[name]
		if !seen {
			k = len(out)
			index[name] = k
			out = append(out, Series{Name: name})
		}
		out[k].Months = append(out[k].Months, p.Month)
		out[k].Values = append(out[k].Values, x)
	}
	return out, len(out) > 0
}

// Point is one scatter point.
type Point struct {
	X, Y float64
}

// Points pairs two numeric columns row by row, skipping rows where either
// cell is not a number.
func Points(t *workbook.Table, x, y string) ([]Point, bool) {
	if t.Empty() {
		return nil, false
	}
	cols, ok := t.Require(x, y)
	if !ok {
		return nil, false
	}
	var out []Point
	for _, r := range t.Rows {
		xv, okx := r[cols[0]].Float()
		yv, oky := r[cols[1]].Float()
		if okx && oky {
			out = append(out, Point{X: xv, Y: yv})
		}
	}
	return out, len(out) > 0
}

// Bubble is one labelled point with a size.
type Bubble struct {
	Label string
	X, Y  float64
	Size  float64
}

// Bubbles reads label, x, y and size columns. Rows missing any number are
// skipped.
func Bubbles(t *workbook.Table, label, x, y, size string) ([]Bubble, bool) {
	if t.Empty() {
		return nil, false
	}
	cols, ok := t.Require(label, x, y, size)
	if !ok {
		return nil, false
	}
	var out []Bubble
	for _, r := range t.Rows {
		xv, ok1 := r[cols[1]].Float()
		yv, ok2 := r[cols[2]].Float()
		sv, ok3 := r[cols[3]].Float()
		if ok1 && ok2 && ok3 {
			out = append(out, Bubble{Label: r[cols[0]].String(), X: xv, Y: yv, Size: sv})
		}
	}
	return out, len(out) > 0
}
