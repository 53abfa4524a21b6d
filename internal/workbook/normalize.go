package workbook

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var monthLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006.01.02",
	"2006-01",
	"2006/01",
	"2006.01",
	"01/02/2006",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"2006년 1월 2일",
	"2006년 1월",
	"Jan 2006",
	"January 2006",
}

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

// ParseMonth coerces one cell to a date. Anything that cannot be read as a
// date becomes an InvalidDate carrying the original text; it never fails.
func ParseMonth(v Value) Value {
	switch v.Kind {
	case KindDate, KindInvalidDate:
		return v
	case KindString:
		if t, ok := parseMonthText(v.Str); ok {
			return Date(t)
		}
		return InvalidDate(v.Str)
	case KindNumber:
		// CSV numbers keep their source text; "2023.01" is a month, not a serial.
		if t, ok := parseMonthText(v.Str); ok {
			return Date(t)
		}
		if v.Num >= 1 && v.Num <= maxExcelSerial {
			if t, err := excelize.ExcelDateToTime(v.Num, false); err == nil {
				return Date(t)
			}
		}
		return InvalidDate(v.String())
	default:
		return InvalidDate("")
	}
}

func parseMonthText(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range monthLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeMonth returns a copy of t whose column holds only Date or
// InvalidDate cells. A table without the column is returned unchanged.
// Applying it twice gives the same table as applying it once.
func NormalizeMonth(t *Table, column string) *Table {
	j, ok := t.Index(column)
	if !ok {
		return t
	}
	out := t.Clone()
	for _, row := range out.Rows {
		row[j] = ParseMonth(row[j])
	}
	return out
}
