// Package recurrence expands RRULE and cron expressions into calendar days.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/teambition/rrule-go"

	"github.com/lululau/datepick/internal/calendar"
)

// MaxDays caps how many days a single expansion may produce.
const MaxDays = 3660

// Kind identifies the syntax of an expression.
type Kind int

const (
	KindRRule Kind = iota
	KindCron
)

// Detect reports whether expr is an RRULE ("FREQ=..." with an optional
// "RRULE:" prefix) or a cron expression.
func Detect(expr string) Kind {
	upper := strings.ToUpper(strings.TrimSpace(expr))
	if strings.HasPrefix(upper, "RRULE:") || strings.Contains(upper, "FREQ=") {
		return KindRRule
	}
	return KindCron
}

// Expand returns the distinct days in [from, to] on which expr fires, in
// ascending order. Rules are evaluated in UTC starting at midnight of from
// unless the RRULE carries its own DTSTART.
func Expand(expr string, from, to calendar.Date) ([]calendar.Date, error) {
	if to.Before(from) {
		from, to = to, from
	}
	start := from.In(time.UTC)
	end := to.AddDays(1).In(time.UTC).Add(-time.Nanosecond)

	var (
		days []calendar.Date
		err  error
	)
	switch Detect(expr) {
	case KindRRule:
		days, err = expandRRule(expr, start, end)
	default:
		days, err = expandCron(expr, start, end)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", calendar.ErrInvalidArgument, err)
	}
	return days, nil
}

func expandRRule(expr string, start, end time.Time) ([]calendar.Date, error) {
	body := strings.TrimSpace(expr)
	if strings.HasPrefix(strings.ToUpper(body), "RRULE:") {
		body = body[len("RRULE:"):]
	}
	opt, err := rrule.StrToROption(body)
	if err != nil {
		return nil, fmt.Errorf("parse rrule %q: %w", expr, err)
	}
	if opt.Dtstart.IsZero() {
		opt.Dtstart = start
	}
	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("build rrule %q: %w", expr, err)
	}

	var out []calendar.Date
	for _, t := range rule.Between(start, end, true) {
		if len(out) >= MaxDays {
			break
		}
		out = appendDistinct(out, calendar.DateOf(t.In(time.UTC)))
	}
	return out, nil
}

func expandCron(expr string, start, end time.Time) ([]calendar.Date, error) {
	sched, err := cron.ParseStandard(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("parse cron %q: %w", expr, err)
	}

	var out []calendar.Date
	cursor := start.Add(-time.Second)
	for len(out) < MaxDays {
		next := sched.Next(cursor)
		if next.IsZero() || next.After(end) {
			break
		}
		day := calendar.DateOf(next)
		out = appendDistinct(out, day)
		// Skip the rest of the day; only the date matters.
		cursor = day.AddDays(1).In(time.UTC).Add(-time.Second)
	}
	return out, nil
}

func appendDistinct(days []calendar.Date, d calendar.Date) []calendar.Date {
	if n := len(days); n > 0 && days[n-1] == d {
		return days
	}
	return append(days, d)
}
