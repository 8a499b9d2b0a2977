// Package datetime provides period label utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
)

const (
	// PeriodLayout is the format expected for period labels in workbooks and
	// is also the forecast output label format.
	PeriodLayout = constants.PeriodLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParsePeriod parses a monthly period label such as "Jun 2024" into the first
// day of that month in UTC.
func ParsePeriod(label string) (time.Time, error) {
	t, err := time.Parse(PeriodLayout, label)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period label %q: %w", label, err)
	}
	return t, nil
}

// FormatPeriod renders the month containing t as a period label.
func FormatPeriod(t time.Time) string {
	return MonthStart(t).Format(PeriodLayout)
}

// MonthStart truncates t to midnight UTC on the first of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// OffsetPeriod returns the period label the given number of months after
// (or before, when negative) the anchor month.
func OffsetPeriod(anchor time.Time, months int) string {
	return FormatPeriod(MonthStart(anchor).AddDate(0, months, 0))
}

// PeriodBeforePeriod returns true if first is strictly before second.
func PeriodBeforePeriod(first, second string) (bool, error) {
	firstT, err := ParsePeriod(first)
	if err != nil {
		return false, err
	}
	secondT, err := ParsePeriod(second)
	if err != nil {
		return false, err
	}
	return firstT.Before(secondT), nil
}

// YearsBetween returns the elapsed time between start and end expressed in
// 365-day years. It is negative when end precedes start.
func YearsBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24 / constants.DaysPerYear
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(constants.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}
