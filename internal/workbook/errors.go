package workbook

import (
	"errors"
	"fmt"
)

// ErrUnsupported indicates a file format no decoder accepts.
var ErrUnsupported = errors.New("unsupported workbook format")

// ErrNoSheets indicates a file that decoded but held no tabular sheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// LoadError reports a file that could not be parsed into a workbook. It is the
// only failure that stops a dashboard from rendering.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load failed"
	}
	if e.File != "" {
		return fmt.Sprintf("cannot read workbook %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("cannot read workbook: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
