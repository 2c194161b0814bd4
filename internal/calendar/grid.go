package calendar

import (
	"time"
)

const (
	daysPerWeek = 7
	maxWeeks    = 6
)

// CalendarDate is one cell of a month grid. The flags are relative to the
// viewport (year, month) the grid was built for.
type CalendarDate struct {
	Time time.Time

	IsCurrentMonth bool
	IsPrevMonth    bool
	IsNextMonth    bool
	IsThisYear     bool
	IsNextYear     bool
	IsLastYear     bool
}

// Date returns the calendar day of the cell.
func (c CalendarDate) Date() Date {
	return DateOf(c.Time)
}

// WeekRow is one displayed week. Its first cell falls on the calendar's first
// weekday.
type WeekRow [daysPerWeek]CalendarDate

// Calendar builds month grids for a configurable first day of the week.
// The zero value starts weeks on Sunday and produces dates in time.Local.
type Calendar struct {
	firstWeekDay time.Weekday
	loc          *time.Location
}

// CalendarOption configures a Calendar.
type CalendarOption func(*Calendar)

// WithFirstWeekDay sets the weekday grids start on.
func WithFirstWeekDay(wd time.Weekday) CalendarOption {
	return func(c *Calendar) {
		c.SetFirstWeekDay(wd)
	}
}

// WithLocation sets the location grid dates are produced in.
func WithLocation(loc *time.Location) CalendarOption {
	return func(c *Calendar) {
		c.loc = loc
	}
}

// NewCalendar constructs a Calendar.
func NewCalendar(opts ...CalendarOption) *Calendar {
	c := &Calendar{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calendar) FirstWeekDay() time.Weekday {
	return c.firstWeekDay
}

// SetFirstWeekDay changes the first weekday. Values outside 0..6 wrap.
// Grids built before the change keep their old layout.
func (c *Calendar) SetFirstWeekDay(wd time.Weekday) {
	c.firstWeekDay = (wd%daysPerWeek + daysPerWeek) % daysPerWeek
}

func (c *Calendar) location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Weekdays returns the seven weekdays in display order.
func (c *Calendar) Weekdays() []time.Weekday {
	out := make([]time.Weekday, daysPerWeek)
	for i := range out {
		out[i] = (c.firstWeekDay + time.Weekday(i)) % daysPerWeek
	}
	return out
}

// Timedelta adds amount units to t, see the package level Timedelta.
func (c *Calendar) Timedelta(t time.Time, unit Unit, amount int) (time.Time, error) {
	return Timedelta(t, unit, amount)
}

// MonthDates returns the flat grid for the month (0-based index): leading
// days of the previous month, the month itself and trailing days of the next
// month, always a whole number of weeks. extraWeek pads the grid to six weeks.
func (c *Calendar) MonthDates(year, month int, extraWeek bool) ([]CalendarDate, error) {
	first, days, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}

	leading := (first - int(c.firstWeekDay) + daysPerWeek) % daysPerWeek
	weeks := (leading + days + daysPerWeek - 1) / daysPerWeek
	if extraWeek {
		weeks = maxWeeks
	}

	loc := c.location()
	out := make([]CalendarDate, 0, weeks*daysPerWeek)
	for i := 0; i < weeks*daysPerWeek; i++ {
		// time.Date normalises day offsets across month and year boundaries.
		t := time.Date(year, time.Month(month+1), 1-leading+i, 0, 0, 0, 0, loc)
		out = append(out, newCalendarDate(t, year, month))
	}
	return out, nil
}

// MonthDatesCalendar returns the month grid grouped into week rows.
func (c *Calendar) MonthDatesCalendar(year, month int) ([]WeekRow, error) {
	dates, err := c.MonthDates(year, month, false)
	if err != nil {
		return nil, err
	}
	return Weeks(dates), nil
}

// Weeks groups a flat grid into rows of seven. A trailing partial row is
// dropped.
func Weeks(dates []CalendarDate) []WeekRow {
	rows := make([]WeekRow, 0, len(dates)/daysPerWeek)
	for i := 0; i+daysPerWeek <= len(dates); i += daysPerWeek {
		var row WeekRow
		copy(row[:], dates[i:i+daysPerWeek])
		rows = append(rows, row)
	}
	return rows
}

func newCalendarDate(t time.Time, year, month int) CalendarDate {
	y, m := t.Year(), int(t.Month())-1
	return CalendarDate{
		Time:           t,
		IsCurrentMonth: y == year && m == month,
		IsPrevMonth:    y < year || (y == year && m < month),
		IsNextMonth:    y > year || (y == year && m > month),
		IsThisYear:     y == year,
		IsNextYear:     y > year,
		IsLastYear:     y < year,
	}
}
