package models

import (
	"fmt"
	"strings"
	"time"
)

// Signal files use day-first dates, matching broker trade exports.
const (
	DateLayout    = "02-01-2006"
	dateLayoutAlt = "02/01/2006"
)

// Date represents a calendar date with no time-of-day component.
// The zero value is the zero time.
type Date struct {
	time.Time
}

// NewDate creates a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a day-first date string (DD-MM-YYYY or DD/MM/YYYY).
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, dateLayoutAlt} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("unparseable date %q (want %s)", s, DateLayout)
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

// Key returns a string key suitable for map lookups.
func (d Date) Key() string {
	return d.Time.Format("2006-01-02")
}

// String formats the date day-first.
func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (d *Date) UnmarshalCSV(s string) error {
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (d Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.String(), nil
}
