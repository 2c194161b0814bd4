package calendar

import (
	"fmt"
	"time"

	calendarlib "github.com/Lofanmi/chinese-calendar-golang/calendar"

	"github.com/lululau/datepick/internal/holidays"
)

// Lunar metadata is only available for this Gregorian year range.
const (
	MinLunarYear = 1900
	MaxLunarYear = 3000
)

// ViewMode indicates whether we display a single month or an entire year.
type ViewMode int

const (
	ModeMonth ViewMode = iota
	ModeYear
)

// Request captures the viewport year/month/mode that should be rendered.
type Request struct {
	Year  int
	Month time.Month
	Mode  ViewMode
}

// Normalize keeps the month within January..December by rolling the year.
func (r Request) Normalize() Request {
	return r.Shift(UnitMonth, 0)
}

// Shift moves the viewport by amount units. Units smaller than a month only
// move the viewport when they cross a month boundary from the 1st.
func (r Request) Shift(unit Unit, amount int) Request {
	first := time.Date(r.Year, r.Month, 1, 0, 0, 0, 0, time.UTC)
	moved, err := Timedelta(first, unit, amount)
	if err != nil {
		return r
	}
	r.Year, r.Month = moved.Year(), moved.Month()
	return r
}

func (r Request) NextMonth() Request     { return r.Shift(UnitMonth, 1) }
func (r Request) PreviousMonth() Request { return r.Shift(UnitMonth, -1) }
func (r Request) NextYear() Request      { return r.Shift(UnitYear, 1) }
func (r Request) PreviousYear() Request  { return r.Shift(UnitYear, -1) }

// Day is a grid cell enriched with display metadata.
type Day struct {
	CalendarDate

	IsToday         bool
	LunarDayAlias   string
	LunarMonthAlias string
	SolarTerm       string
	HolidayInfo     *holidays.Info
	hasLunarData    bool
}

// SecondaryLabel selects the string that should be rendered beneath the
// Gregorian date. Solar terms take precedence, followed by lunar month names
// whenever it is the first day of a lunar month.
func (d Day) SecondaryLabel() string {
	if d.SolarTerm != "" {
		return d.SolarTerm
	}
	if d.LunarDayAlias == "初一" && d.LunarMonthAlias != "" {
		return d.LunarMonthAlias
	}
	return d.LunarDayAlias
}

// HasLunarData reports whether lunar metadata was successfully calculated.
func (d Day) HasLunarData() bool {
	return d.hasLunarData
}

// MonthView describes a month laid out into weeks.
type MonthView struct {
	Year     int
	Month    time.Month
	Title    string
	Weekdays []time.Weekday
	Weeks    [][]Day
}

// Service materialises month/year views on top of a Calendar grid.
type Service struct {
	now       func() time.Time
	holidays  holidays.Table
	cal       *Calendar
	extraWeek bool
}

// Option configures the Service.
type Option func(*Service)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithHolidays sets the holiday table for the service.
func WithHolidays(table holidays.Table) Option {
	return func(s *Service) {
		s.holidays = table
	}
}

// WithCalendar sets the grid builder, e.g. one starting weeks on Monday.
func WithCalendar(c *Calendar) Option {
	return func(s *Service) {
		s.cal = c
	}
}

// WithExtraWeek makes every month six weeks tall.
func WithExtraWeek(on bool) Option {
	return func(s *Service) {
		s.extraWeek = on
	}
}

// NewService constructs a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cal == nil {
		s.cal = NewCalendar()
	}
	return s
}

// Calendar exposes the grid builder so callers can change the first weekday.
func (s *Service) Calendar() *Calendar {
	return s.cal
}

func (s *Service) ExtraWeek() bool {
	return s.extraWeek
}

func (s *Service) SetExtraWeek(on bool) {
	s.extraWeek = on
}

// HasHolidayData reports whether a holiday table is loaded.
func (s *Service) HasHolidayData() bool {
	return len(s.holidays) > 0
}

// Month builds a MonthView.
func (s *Service) Month(year int, month time.Month) (MonthView, error) {
	if month < time.January || month > time.December {
		return MonthView{}, ErrInvalidMonth
	}
	dates, err := s.cal.MonthDates(year, int(month)-1, s.extraWeek)
	if err != nil {
		return MonthView{}, err
	}

	now := s.now()
	rows := Weeks(dates)
	weeks := make([][]Day, len(rows))
	for i, row := range rows {
		week := make([]Day, len(row))
		for j, cell := range row {
			week[j] = s.buildDay(cell, now)
		}
		weeks[i] = week
	}

	return MonthView{
		Year:     year,
		Month:    month,
		Title:    fmt.Sprintf("%d 年 %d 月", year, int(month)),
		Weekdays: s.cal.Weekdays(),
		Weeks:    weeks,
	}, nil
}

// Year returns the MonthView list for an entire year.
func (s *Service) Year(year int) ([]MonthView, error) {
	months := make([]MonthView, 0, 12)
	for m := time.January; m <= time.December; m++ {
		view, err := s.Month(year, m)
		if err != nil {
			return nil, err
		}
		months = append(months, view)
	}
	return months, nil
}

func (s *Service) buildDay(cell CalendarDate, now time.Time) Day {
	day := cell.Time
	d := Day{
		CalendarDate: cell,
		IsToday:      DateOf(day) == DateOf(now),
	}
	if s.holidays != nil {
		d.HolidayInfo = s.holidays.Lookup(day.Year(), day.Month(), day.Day())
	}
	if day.Year() < MinLunarYear || day.Year() > MaxLunarYear {
		return d
	}

	cal := calendarlib.BySolar(
		int64(day.Year()),
		int64(day.Month()),
		int64(day.Day()),
		12, 0, 0,
	)
	d.LunarDayAlias = cal.Lunar.DayAlias()
	d.LunarMonthAlias = cal.Lunar.MonthAlias()
	d.hasLunarData = true
	if solarterm := cal.Solar.CurrentSolarterm; solarterm != nil {
		if solarterm.IsInDay(&day) {
			d.SolarTerm = solarterm.Alias()
		}
	}
	return d
}
