package calendar

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestIsLeap(t *testing.T) {
	for year := 1583; year <= 2500; year++ {
		want := year%4 == 0 && (year%100 != 0 || year%400 == 0)
		if got := IsLeap(year); got != want {
			t.Fatalf("IsLeap(%d)=%v want %v", year, got, want)
		}
	}
	if !IsLeap(2016) || IsLeap(2017) || IsLeap(1900) || !IsLeap(2000) {
		t.Fatalf("unexpected leap results for known years")
	}
}

func TestMonthRange(t *testing.T) {
	first, days, err := MonthRange(2017, 5)
	if err != nil {
		t.Fatalf("MonthRange returned error: %v", err)
	}
	if first != WeekDay(2017, 5, 1) || days != 30 {
		t.Fatalf("MonthRange(2017, 5)=(%d, %d)", first, days)
	}
	if first != int(time.Thursday) {
		t.Fatalf("June 1 2017 is a Thursday, got %d", first)
	}

	first, days, err = MonthRange(2016, 1)
	if err != nil {
		t.Fatalf("MonthRange returned error: %v", err)
	}
	if first != WeekDay(2016, 1, 1) || days != 29 {
		t.Fatalf("MonthRange(2016, 1)=(%d, %d)", first, days)
	}
	if _, days, _ := MonthRange(2017, 1); days != 28 {
		t.Fatalf("February 2017 should have 28 days, got %d", days)
	}

	for _, month := range []int{-1, 12} {
		if _, _, err := MonthRange(2017, month); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("MonthRange(2017, %d) error=%v want ErrInvalidArgument", month, err)
		}
	}
}

func TestWeekdays(t *testing.T) {
	cal := NewCalendar()
	want := []time.Weekday{0, 1, 2, 3, 4, 5, 6}
	if got := cal.Weekdays(); !slices.Equal(got, want) {
		t.Fatalf("Weekdays()=%v want %v", got, want)
	}

	cal.SetFirstWeekDay(time.Friday)
	want = []time.Weekday{5, 6, 0, 1, 2, 3, 4}
	if got := cal.Weekdays(); !slices.Equal(got, want) {
		t.Fatalf("Weekdays()=%v want %v", got, want)
	}

	cal.SetFirstWeekDay(8)
	if cal.FirstWeekDay() != time.Monday {
		t.Fatalf("first weekday should wrap to Monday, got %v", cal.FirstWeekDay())
	}
}

func TestMonthDates(t *testing.T) {
	cal := NewCalendar(WithLocation(time.UTC))

	tests := []struct {
		name      string
		first     time.Weekday
		extraWeek bool
		length    int
		start     Date
		end       Date
	}{
		{"sunday", time.Sunday, false, 35, NewDate(2017, 5, 28), NewDate(2017, 7, 1)},
		{"sunday extra week", time.Sunday, true, 42, NewDate(2017, 5, 28), NewDate(2017, 7, 8)},
		{"friday", time.Friday, false, 42, NewDate(2017, 5, 26), NewDate(2017, 7, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal.SetFirstWeekDay(tt.first)
			dates, err := cal.MonthDates(2017, 5, tt.extraWeek)
			if err != nil {
				t.Fatalf("MonthDates returned error: %v", err)
			}
			if len(dates) != tt.length {
				t.Fatalf("expected %d dates, got %d", tt.length, len(dates))
			}
			if got := dates[0].Date(); got != tt.start {
				t.Fatalf("grid starts %s want %s", got, tt.start)
			}
			if got := dates[len(dates)-1].Date(); got != tt.end {
				t.Fatalf("grid ends %s want %s", got, tt.end)
			}
			assertContiguous(t, dates, tt.first)
		})
	}
}

func TestMonthDatesFourWeekMonth(t *testing.T) {
	// February 2015 starts on a Sunday and has 28 days.
	cal := NewCalendar(WithLocation(time.UTC))
	dates, err := cal.MonthDates(2015, 1, false)
	if err != nil {
		t.Fatalf("MonthDates returned error: %v", err)
	}
	if len(dates) != 28 {
		t.Fatalf("expected 28 dates, got %d", len(dates))
	}
	dates, _ = cal.MonthDates(2015, 1, true)
	if len(dates) != 42 {
		t.Fatalf("extra week should force 42 dates, got %d", len(dates))
	}
}

func TestMonthDatesAcrossYearBoundary(t *testing.T) {
	cal := NewCalendar(WithLocation(time.UTC))

	jan, err := cal.MonthDates(2017, 0, false)
	if err != nil {
		t.Fatalf("MonthDates returned error: %v", err)
	}
	// Jan 1 2017 is a Sunday: no leading days, trailing days are February.
	if jan[0].Date() != NewDate(2017, 1, 1) {
		t.Fatalf("January grid starts %s", jan[0].Date())
	}

	dec, err := cal.MonthDates(2017, 11, false)
	if err != nil {
		t.Fatalf("MonthDates returned error: %v", err)
	}
	last := dec[len(dec)-1]
	if last.Date() != NewDate(2018, 1, 6) {
		t.Fatalf("December 2017 grid ends %s", last.Date())
	}
	if !last.IsNextMonth || !last.IsNextYear || last.IsThisYear || last.IsCurrentMonth {
		t.Fatalf("unexpected flags on trailing January cell: %+v", last)
	}
	lead := dec[0]
	if lead.Date() != NewDate(2017, 11, 26) || !lead.IsPrevMonth || !lead.IsThisYear || lead.IsLastYear {
		t.Fatalf("unexpected leading cell: %s %+v", lead.Date(), lead)
	}

	cal.SetFirstWeekDay(time.Monday)
	jan, _ = cal.MonthDates(2017, 0, false)
	first := jan[0]
	if first.Date() != NewDate(2016, 12, 26) || !first.IsLastYear || !first.IsPrevMonth {
		t.Fatalf("unexpected leading December cell: %s %+v", first.Date(), first)
	}
}

func TestMonthDatesCalendar(t *testing.T) {
	cal := NewCalendar(WithFirstWeekDay(time.Friday), WithLocation(time.UTC))
	rows, err := cal.MonthDatesCalendar(2017, 5)
	if err != nil {
		t.Fatalf("MonthDatesCalendar returned error: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row[0].Time.Weekday() != time.Friday {
			t.Fatalf("row %d starts on %v", i, row[0].Time.Weekday())
		}
		if row[6].Time.Weekday() != time.Thursday {
			t.Fatalf("row %d ends on %v", i, row[6].Time.Weekday())
		}
	}
	if _, err := cal.MonthDatesCalendar(2017, 12); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func assertContiguous(t *testing.T, dates []CalendarDate, first time.Weekday) {
	t.Helper()
	if dates[0].Time.Weekday() != first {
		t.Fatalf("grid should start on %v, got %v", first, dates[0].Time.Weekday())
	}
	for i := 1; i < len(dates); i++ {
		if dates[i].Date() != dates[i-1].Date().AddDays(1) {
			t.Fatalf("gap between %s and %s", dates[i-1].Date(), dates[i].Date())
		}
	}
	for _, d := range dates {
		flags := 0
		for _, f := range []bool{d.IsPrevMonth, d.IsCurrentMonth, d.IsNextMonth} {
			if f {
				flags++
			}
		}
		if flags != 1 {
			t.Fatalf("cell %s should have exactly one month flag: %+v", d.Date(), d)
		}
	}
}
