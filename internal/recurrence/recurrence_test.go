package recurrence

import (
	"errors"
	"slices"
	"testing"

	"github.com/lululau/datepick/internal/calendar"
)

func TestExpand(t *testing.T) {
	from := calendar.NewDate(2017, 6, 1)
	to := calendar.NewDate(2017, 6, 30)
	mondays := []calendar.Date{
		calendar.NewDate(2017, 6, 5),
		calendar.NewDate(2017, 6, 12),
		calendar.NewDate(2017, 6, 19),
		calendar.NewDate(2017, 6, 26),
	}

	tests := []struct {
		name string
		expr string
		want []calendar.Date
	}{
		{"rrule weekly", "FREQ=WEEKLY;BYDAY=MO", mondays},
		{"rrule prefix", "RRULE:FREQ=WEEKLY;BYDAY=MO", mondays},
		{"rrule count", "FREQ=DAILY;COUNT=3", calendar.Span(from, from.AddDays(2))},
		{"cron monday mornings", "30 9 * * 1", mondays},
		{"cron every minute collapses per day", "* * 1-2 6 *", calendar.Span(from, from.AddDays(1))},
		{"reversed bounds", "FREQ=MONTHLY;BYMONTHDAY=15", []calendar.Date{calendar.NewDate(2017, 6, 15)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := from, to
			if tt.name == "reversed bounds" {
				lo, hi = to, from
			}
			got, err := Expand(tt.expr, lo, hi)
			if err != nil {
				t.Fatalf("Expand returned error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Expand(%q)=%v want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestExpandRejectsGarbage(t *testing.T) {
	from := calendar.NewDate(2017, 6, 1)
	for _, expr := range []string{"FREQ=SOMETIMES", "not a cron"} {
		if _, err := Expand(expr, from, from.AddDays(7)); !errors.Is(err, calendar.ErrInvalidArgument) {
			t.Fatalf("Expand(%q) error=%v want ErrInvalidArgument", expr, err)
		}
	}
}

func TestDetect(t *testing.T) {
	if Detect("rrule:freq=daily") != KindRRule {
		t.Fatalf("expected rrule")
	}
	if Detect("0 0 * * *") != KindCron {
		t.Fatalf("expected cron")
	}
}
