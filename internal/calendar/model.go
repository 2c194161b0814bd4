package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidArgument is returned for inputs outside the accepted domain,
	// such as a month index outside 0..11 or an unknown time unit.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidMonth indicates the month is not in the 1..12 range.
	ErrInvalidMonth = fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidArgument)
)

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// MonthRange returns the weekday of the first day of the month (0 = Sunday)
// and the number of days in the month. month is a 0-based index, so 0 is
// January and 11 is December.
func MonthRange(year, month int) (firstWeekday int, days int, err error) {
	if month < 0 || month > 11 {
		return 0, 0, fmt.Errorf("%w: month index %d out of range 0..11", ErrInvalidArgument, month)
	}
	days = monthDays[month]
	if month == 1 && IsLeap(year) {
		days++
	}
	return WeekDay(year, month, 1), days, nil
}

// WeekDay returns the weekday index (0 = Sunday .. 6 = Saturday) of the given
// date. month is 0-based; out of range days roll over like time.Date.
func WeekDay(year, month, day int) int {
	return int(time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC).Weekday())
}
