package selection

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/lululau/datepick/internal/calendar"
)

func newEngine(t *testing.T, mode Mode) *Engine {
	t.Helper()
	e, err := New(mode)
	if err != nil {
		t.Fatalf("New(%s) failed: %v", mode, err)
	}
	return e
}

func day(y int, m time.Month, d int) calendar.Date {
	return calendar.NewDate(y, m, d)
}

func TestSingleMode(t *testing.T) {
	e := newEngine(t, Single)
	d := calendar.DateOf(time.Date(2017, 6, 5, 15, 30, 0, 0, time.Local))

	if err := e.Select(d, day(2017, 6, 9)); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got, ok := e.Single(); !ok || got != d {
		t.Fatalf("Single()=%v,%v want %v", got, ok, d)
	}

	if err := e.Deselect(day(2017, 6, 6)); err != nil {
		t.Fatalf("Deselect failed: %v", err)
	}
	if !e.Contains(d) {
		t.Fatalf("deselecting another date should be a no-op")
	}

	// Time of day is irrelevant to matching.
	if err := e.Deselect(calendar.DateOf(time.Date(2017, 6, 5, 1, 0, 0, 0, time.Local))); err != nil {
		t.Fatalf("Deselect failed: %v", err)
	}
	if _, ok := e.Single(); ok || e.Len() != 0 {
		t.Fatalf("expected selection to be cleared")
	}

	_ = e.Select(d)
	if err := e.Deselect(); err != nil || e.Len() != 0 {
		t.Fatalf("Deselect() should clear, err=%v len=%d", err, e.Len())
	}

	_ = e.Select(d)
	if err := e.Deselect(d, d.AddDays(1)); !errors.Is(err, ErrInvalidModeOperation) {
		t.Fatalf("expected ErrInvalidModeOperation, got %v", err)
	}
	if !e.Contains(d) {
		t.Fatalf("rejected deselect must not change the selection")
	}
}

func TestMultipleMode(t *testing.T) {
	e := newEngine(t, Multiple)
	var all []calendar.Date
	for i := 1; i <= 10; i++ {
		all = append(all, day(2017, 6, i))
	}
	if err := e.Select(all...); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := e.Select(all[0], all[1]); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if e.Len() != 10 {
		t.Fatalf("duplicates should collapse, got %d", e.Len())
	}

	var even, odd []calendar.Date
	for _, d := range all {
		if d.Day%2 == 0 {
			even = append(even, d)
		} else {
			odd = append(odd, d)
		}
	}
	if err := e.Deselect(even...); err != nil {
		t.Fatalf("Deselect failed: %v", err)
	}
	if got := e.Dates(); !slices.Equal(got, odd) {
		t.Fatalf("Dates()=%v want %v", got, odd)
	}

	if err := e.Deselect(even...); err != nil {
		t.Fatalf("Deselect of absent dates failed: %v", err)
	}
	if got := e.Dates(); !slices.Equal(got, odd) {
		t.Fatalf("deselecting absent dates should be a no-op, got %v", got)
	}

	if err := e.Deselect(); err != nil || len(e.Value().Dates) != 0 {
		t.Fatalf("Deselect() should clear all")
	}
}

func TestMultipleToggle(t *testing.T) {
	e := newEngine(t, Multiple)
	d := day(2017, 6, 5)
	e.Toggle(d)
	if !e.Contains(d) {
		t.Fatalf("toggle should add")
	}
	e.Toggle(d)
	if e.Contains(d) {
		t.Fatalf("second toggle should remove")
	}
}

func TestRangeSelectPair(t *testing.T) {
	e := newEngine(t, Range)
	start := day(2017, 6, 5)
	end := start.AddDays(5)

	if err := e.Select(end, start); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if e.Len() != 6 || len(e.Dates()) != 6 {
		t.Fatalf("expected 6 dates, got %d", e.Len())
	}
	if s, en, ok := e.Range(); !ok || s != start || en != end {
		t.Fatalf("Range()=%v..%v,%v", s, en, ok)
	}
	if v := e.Value(); v.Pending || v.Dates[0] != start || v.Dates[5] != end {
		t.Fatalf("unexpected value %+v", v)
	}
}

func TestRangeSelectUnorderedSpan(t *testing.T) {
	e := newEngine(t, Range)
	first, mid, last := day(2017, 6, 28), day(2017, 7, 2), day(2017, 7, 4)
	if err := e.Select(mid, last, first); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	want := calendar.Span(first, last)
	if got := e.Dates(); !slices.Equal(got, want) {
		t.Fatalf("Dates()=%v want %v", got, want)
	}
}

func TestRangeAnchorFlow(t *testing.T) {
	e := newEngine(t, Range)
	a, b := day(2017, 6, 10), day(2017, 6, 7)

	_ = e.Select(a)
	if anchor, ok := e.Pending(); !ok || anchor != a {
		t.Fatalf("expected pending anchor %v", a)
	}
	if !e.Value().Pending || e.Len() != 1 {
		t.Fatalf("pending anchor should be the only selected day")
	}

	_ = e.Select(b)
	if s, en, ok := e.Range(); !ok || s != b || en != a {
		t.Fatalf("range should complete backwards: %v..%v", s, en)
	}
	if _, ok := e.Pending(); ok {
		t.Fatalf("anchor should be consumed")
	}

	// A new single date starts over with a fresh anchor.
	_ = e.Select(day(2017, 6, 20))
	if _, _, ok := e.Range(); ok {
		t.Fatalf("completed range should be replaced by the new anchor")
	}

	e.Toggle(day(2017, 6, 20))
	if e.Len() != 0 {
		t.Fatalf("toggling the anchor should cancel the pending selection")
	}
}

func TestRangeDeselect(t *testing.T) {
	start, end := day(2017, 6, 10), day(2017, 6, 20)

	tests := []struct {
		name   string
		period []calendar.Date
		empty  bool
	}{
		{"disjoint before", []calendar.Date{day(2017, 6, 1), day(2017, 6, 9)}, false},
		{"disjoint after", []calendar.Date{day(2017, 6, 21)}, false},
		{"covers", []calendar.Date{day(2017, 6, 1), day(2017, 6, 30)}, true},
		{"overlaps start", []calendar.Date{day(2017, 6, 5), day(2017, 6, 10)}, true},
		{"overlaps end", []calendar.Date{day(2017, 6, 25), day(2017, 6, 15)}, true},
		{"contained", []calendar.Date{day(2017, 6, 12), day(2017, 6, 14)}, true},
		{"single day inside", []calendar.Date{day(2017, 6, 15)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, Range)
			_ = e.Select(start, end)
			if err := e.Deselect(tt.period...); err != nil {
				t.Fatalf("Deselect failed: %v", err)
			}
			if tt.empty && e.Len() != 0 {
				t.Fatalf("expected whole range to be dropped, got %d days", e.Len())
			}
			if !tt.empty && e.Len() != 11 {
				t.Fatalf("expected range unchanged, got %d days", e.Len())
			}
		})
	}
}

func TestSetModeClears(t *testing.T) {
	e := newEngine(t, Multiple)
	_ = e.Select(day(2017, 6, 1), day(2017, 6, 2))
	if err := e.SetMode(Range); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if e.Mode() != Range || e.Len() != 0 {
		t.Fatalf("mode switch should reset values")
	}
	if err := e.SetMode(Mode(7)); !errors.Is(err, calendar.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := e.Select(); !errors.Is(err, calendar.ErrInvalidArgument) {
		t.Fatalf("empty select should fail, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"single", "Multiple", " range "} {
		m, err := ParseMode(name)
		if err != nil {
			t.Fatalf("ParseMode(%q) failed: %v", name, err)
		}
		if got, _ := ParseMode(m.String()); got != m {
			t.Fatalf("round trip mismatch for %q", name)
		}
	}
	if _, err := ParseMode("week"); !errors.Is(err, calendar.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if Range.Next() != Single {
		t.Fatalf("mode cycle should wrap")
	}
}

func TestSelectRecurring(t *testing.T) {
	e := newEngine(t, Multiple)
	n, err := e.SelectRecurring("FREQ=WEEKLY;BYDAY=MO,FR", day(2017, 6, 1), day(2017, 6, 30))
	if err != nil {
		t.Fatalf("SelectRecurring failed: %v", err)
	}
	if n != 9 || e.Len() != 9 {
		t.Fatalf("expected 9 days (5 Fridays, 4 Mondays), got n=%d len=%d", n, e.Len())
	}
	if !e.Contains(day(2017, 6, 2)) || e.Contains(day(2017, 6, 3)) {
		t.Fatalf("unexpected membership")
	}

	r := newEngine(t, Range)
	if _, err := r.SelectRecurring("0 0 * * *", day(2017, 6, 1), day(2017, 6, 30)); !errors.Is(err, ErrInvalidModeOperation) {
		t.Fatalf("expected ErrInvalidModeOperation, got %v", err)
	}
}
