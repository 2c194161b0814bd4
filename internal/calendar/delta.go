package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Unit names a step size accepted by Timedelta.
type Unit string

const (
	UnitYear    Unit = "year"
	UnitQuarter Unit = "quarter"
	UnitMonth   Unit = "month"
	UnitWeek    Unit = "week"
	UnitDay     Unit = "day"
	UnitHour    Unit = "hour"
	UnitMinute  Unit = "minute"
	UnitSecond  Unit = "second"
)

// Units lists every supported unit from the largest to the smallest.
var Units = []Unit{UnitYear, UnitQuarter, UnitMonth, UnitWeek, UnitDay, UnitHour, UnitMinute, UnitSecond}

// ParseUnit accepts a unit name case-insensitively.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Units {
		if u == known {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: unknown time unit %q", ErrInvalidArgument, s)
}

// Timedelta adds amount units to t. Negative amounts subtract. The result is
// computed on the wall clock of t's location, so overflowing fields carry into
// the next larger field the same way time.Date normalises them: adding an hour
// to 23:00 on Dec 31 lands on Jan 1 of the following year.
func Timedelta(t time.Time, unit Unit, amount int) (time.Time, error) {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	switch unit {
	case UnitYear:
		year += amount
	case UnitQuarter:
		month += time.Month(3 * amount)
	case UnitMonth:
		month += time.Month(amount)
	case UnitWeek:
		day += 7 * amount
	case UnitDay:
		day += amount
	case UnitHour:
		hour += amount
	case UnitMinute:
		minute += amount
	case UnitSecond:
		sec += amount
	default:
		return time.Time{}, fmt.Errorf("%w: unknown time unit %q", ErrInvalidArgument, string(unit))
	}
	return time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), t.Location()), nil
}
