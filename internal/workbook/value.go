package workbook

import (
	"strconv"
	"time"
)

// Kind tags the type of a cell value.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindDate
	// KindInvalidDate marks a cell that was expected to hold a date but could
	// not be coerced into one.
	KindInvalidDate
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindInvalidDate:
		return "invalid-date"
	default:
		return "unknown"
	}
}

// Value is a single typed cell. Str carries the text of a string cell, the raw
// input of an invalid date, or the source text a CSV number was parsed from.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
}

func Empty() Value { return Value{Kind: KindEmpty} }
func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }
func InvalidDate(raw string) Value { return Value{Kind: KindInvalidDate, Str: raw} }

// Float returns the numeric value and whether the cell is a number.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// Date returns the time value and whether the cell is a valid date.
func (v Value) Date() (time.Time, bool) {
	if v.Kind != KindDate {
		return time.Time{}, false
	}
	return v.Time, true
}

// IsBlank reports an empty cell or an empty string.
func (v Value) IsBlank() bool {
	return v.Kind == KindEmpty || (v.Kind == KindString && v.Str == "")
}

// String renders the value the way it is shown in previews.
// InvalidDate keeps its original text so raw previews stay faithful.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindDate:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	case KindInvalidDate:
		if v.Str == "" {
			return "NaT"
		}
		return v.Str
	default:
		return ""
	}
}
