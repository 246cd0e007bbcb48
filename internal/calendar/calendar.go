// Package calendar validates user dates against the B3 business-day calendar.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
)

// ErrNotBusinessDay marks dates on weekends or holidays
var ErrNotBusinessDay = errors.New("not a business day")

// ValidationError is a user input error detected before any network call
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid builds a *ValidationError
func Invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Calendar knows weekends and a fixed holiday list
type Calendar struct {
	holidays map[string]struct{}
}

// New creates a calendar from holiday dates
func New(holidays []time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		c.holidays[h.Format(contracts.DateFormat)] = struct{}{}
	}
	return c
}

// IsHoliday reports whether d is in the holiday list
func (c *Calendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[d.Format(contracts.DateFormat)]
	return ok
}

// IsBusinessDay reports whether d is Monday to Friday and not a holiday
func (c *Calendar) IsBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(d)
}

// PreviousBusinessDay returns the latest business day on or before d
func (c *Calendar) PreviousBusinessDay(d time.Time) time.Time {
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// ValidateBaseDate checks the screening base date
func (c *Calendar) ValidateBaseDate(d time.Time) error {
	if d.IsZero() {
		return Invalid("data_base", "date is required")
	}
	if !c.IsBusinessDay(d) {
		return notBusinessDay("data_base", d)
	}
	return nil
}

// ValidateRange checks a chart range: both ends business days, start < end
func (c *Calendar) ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return Invalid("periodo", "start and end dates are required")
	}
	if !c.IsBusinessDay(start) {
		return notBusinessDay("data_ini", start)
	}
	if !c.IsBusinessDay(end) {
		return notBusinessDay("data_fim", end)
	}
	if !start.Before(end) {
		return Invalid("periodo", "start date must be before end date")
	}
	return nil
}

func notBusinessDay(field string, d time.Time) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: d.Format(contracts.DateFormat) + " is not a business day",
		Err:     ErrNotBusinessDay,
	}
}

// ParseDate parses a YYYY-MM-DD date, returning a *ValidationError on failure
func ParseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(contracts.DateFormat, value)
	if err != nil {
		return time.Time{}, Invalid(field, "invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}
