package model

import (
	"fmt"
	"time"
)

// DateFormatError means a date string matched neither MM/DD/YYYY nor
// MM/DD/YY. It is fatal: a run never starts with unparseable input.
type DateFormatError struct {
	Input string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("date %q is not in a recognized format", e.Input)
}

// DataIntegrityError means a provider returned more than one bar for the
// same symbol and date. The run must not proceed with that series.
type DataIntegrityError struct {
	Symbol string
	Date   time.Time
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("duplicate bar for %s on %s", e.Symbol, e.Date.Format("2006-01-02"))
}

// UnknownActionError means a recommendation cell held something other than
// BUY, SELL, HOLD or REDUCE.
type UnknownActionError struct {
	Input string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown recommendation action %q", e.Input)
}
