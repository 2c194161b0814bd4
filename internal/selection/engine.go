// Package selection keeps the set of picked calendar days for one of three
// modes: a single day, several discrete days, or a contiguous range.
package selection

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lululau/datepick/internal/calendar"
	"github.com/lululau/datepick/internal/recurrence"
)

// ErrInvalidModeOperation is returned when an operation or its input does
// not fit the active mode.
var ErrInvalidModeOperation = errors.New("operation not valid in this selection mode")

type Mode int

const (
	Single Mode = iota
	Multiple
	Range
)

var modeNames = [...]string{"single", "multiple", "range"}

func (m Mode) String() string {
	if m.valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) valid() bool {
	return m >= Single && m <= Range
}

// Next cycles single -> multiple -> range -> single.
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(modeNames))
}

// ParseMode accepts a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown selection mode %q", calendar.ErrInvalidArgument, s)
}

// Value is a snapshot of the selection, shaped by Mode:
//   - Single: Dates holds zero or one day.
//   - Multiple: Dates holds the set in ascending order.
//   - Range: Dates holds every day of the completed range, or just the anchor
//     when Pending is true.
type Value struct {
	Mode    Mode
	Dates   []calendar.Date
	Pending bool
}

// Engine is the selection state machine. It is not safe for concurrent use;
// one owner drives it.
type Engine struct {
	mode Mode

	single    calendar.Date
	hasSingle bool

	set map[calendar.Date]struct{}

	start, end calendar.Date
	hasRange   bool
	anchor     calendar.Date
	hasAnchor  bool
}

// New returns an empty engine in the given mode.
func New(mode Mode) (*Engine, error) {
	e := &Engine{}
	if err := e.SetMode(mode); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) Mode() Mode {
	return e.mode
}

// SetMode switches modes. The selection is always cleared, even when the
// mode does not change.
func (e *Engine) SetMode(mode Mode) error {
	if !mode.valid() {
		return fmt.Errorf("%w: unknown selection mode %d", calendar.ErrInvalidArgument, int(mode))
	}
	e.mode = mode
	e.Clear()
	return nil
}

// Clear empties the selection, including a pending range anchor.
func (e *Engine) Clear() {
	e.single, e.hasSingle = calendar.Date{}, false
	e.set = make(map[calendar.Date]struct{})
	e.start, e.end, e.hasRange = calendar.Date{}, calendar.Date{}, false
	e.anchor, e.hasAnchor = calendar.Date{}, false
}

// Select adds days according to the mode:
//   - Single: the first day replaces the selection.
//   - Multiple: every day is added once.
//   - Range: one day sets the pending anchor, or completes the range when an
//     anchor is pending. Two or more days select the inclusive span between
//     the earliest and the latest of them.
func (e *Engine) Select(days ...calendar.Date) error {
	if len(days) == 0 {
		return fmt.Errorf("%w: select needs at least one date", calendar.ErrInvalidArgument)
	}
	switch e.mode {
	case Single:
		e.single, e.hasSingle = days[0], true
	case Multiple:
		for _, d := range days {
			e.set[d] = struct{}{}
		}
	case Range:
		if len(days) == 1 {
			e.selectOne(days[0])
			return nil
		}
		lo, hi := bounds(days)
		e.setRange(lo, hi)
	}
	return nil
}

func (e *Engine) selectOne(d calendar.Date) {
	if e.hasAnchor {
		e.setRange(e.anchor, d)
		return
	}
	e.start, e.end, e.hasRange = calendar.Date{}, calendar.Date{}, false
	e.anchor, e.hasAnchor = d, true
}

func (e *Engine) setRange(a, b calendar.Date) {
	if b.Before(a) {
		a, b = b, a
	}
	e.start, e.end, e.hasRange = a, b, true
	e.anchor, e.hasAnchor = calendar.Date{}, false
}

// Toggle flips one day. In range mode toggling the pending anchor cancels
// it; any other day behaves like Select.
func (e *Engine) Toggle(d calendar.Date) {
	switch e.mode {
	case Single:
		if e.hasSingle && e.single == d {
			e.Clear()
			return
		}
		e.single, e.hasSingle = d, true
	case Multiple:
		if _, ok := e.set[d]; ok {
			delete(e.set, d)
			return
		}
		e.set[d] = struct{}{}
	case Range:
		if e.hasAnchor && e.anchor == d {
			e.Clear()
			return
		}
		e.selectOne(d)
	}
}

// Deselect removes days. Without arguments it clears the selection in every
// mode. Otherwise:
//   - Single: clears only when the day is the selected one. Passing more
//     than one day is ErrInvalidModeOperation.
//   - Multiple: removes each listed day; absent days are ignored.
//   - Range: the days define a period from the earliest to the latest. If it
//     overlaps the current range at all, the whole range is dropped; there
//     is no partial trimming. A disjoint period changes nothing.
func (e *Engine) Deselect(days ...calendar.Date) error {
	if len(days) == 0 {
		e.Clear()
		return nil
	}
	switch e.mode {
	case Single:
		if len(days) > 1 {
			return fmt.Errorf("%w: single mode deselects one date, got %d", ErrInvalidModeOperation, len(days))
		}
		if e.hasSingle && e.single == days[0] {
			e.Clear()
		}
	case Multiple:
		for _, d := range days {
			delete(e.set, d)
		}
	case Range:
		start, end, ok := e.current()
		if !ok {
			return nil
		}
		lo, hi := bounds(days)
		if !hi.Before(start) && !lo.After(end) {
			e.Clear()
		}
	}
	return nil
}

// SelectRecurring adds every day in [from, to] on which expr (an RRULE or a
// cron expression) fires. Only multiple mode can hold such a set. It returns
// the number of days the rule produced.
func (e *Engine) SelectRecurring(expr string, from, to calendar.Date) (int, error) {
	if e.mode != Multiple {
		return 0, fmt.Errorf("%w: recurring selection needs multiple mode, not %s", ErrInvalidModeOperation, e.mode)
	}
	days, err := recurrence.Expand(expr, from, to)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}
	return len(days), e.Select(days...)
}

// current returns the span occupied by the range selection; a pending anchor
// occupies a single day.
func (e *Engine) current() (calendar.Date, calendar.Date, bool) {
	switch {
	case e.hasRange:
		return e.start, e.end, true
	case e.hasAnchor:
		return e.anchor, e.anchor, true
	default:
		return calendar.Date{}, calendar.Date{}, false
	}
}

// Contains reports whether d is selected. A pending anchor counts.
func (e *Engine) Contains(d calendar.Date) bool {
	switch e.mode {
	case Single:
		return e.hasSingle && e.single == d
	case Multiple:
		_, ok := e.set[d]
		return ok
	default:
		start, end, ok := e.current()
		return ok && !d.Before(start) && !d.After(end)
	}
}

// Dates lists the selected days in ascending order.
func (e *Engine) Dates() []calendar.Date {
	switch e.mode {
	case Single:
		if !e.hasSingle {
			return []calendar.Date{}
		}
		return []calendar.Date{e.single}
	case Multiple:
		out := make([]calendar.Date, 0, len(e.set))
		for d := range e.set {
			out = append(out, d)
		}
		slices.SortFunc(out, calendar.Date.Compare)
		return out
	default:
		start, end, ok := e.current()
		if !ok {
			return []calendar.Date{}
		}
		return calendar.Span(start, end)
	}
}

// Len returns the number of selected days.
func (e *Engine) Len() int {
	switch e.mode {
	case Single:
		if e.hasSingle {
			return 1
		}
		return 0
	case Multiple:
		return len(e.set)
	default:
		start, end, ok := e.current()
		if !ok {
			return 0
		}
		return calendar.DaysBetween(start, end) + 1
	}
}

// Value returns a snapshot shaped by the active mode.
func (e *Engine) Value() Value {
	return Value{
		Mode:    e.mode,
		Dates:   e.Dates(),
		Pending: e.mode == Range && e.hasAnchor,
	}
}

// Single returns the selected day in single mode.
func (e *Engine) Single() (calendar.Date, bool) {
	return e.single, e.mode == Single && e.hasSingle
}

// Range returns the completed range in range mode.
func (e *Engine) Range() (start, end calendar.Date, ok bool) {
	return e.start, e.end, e.mode == Range && e.hasRange
}

// Pending returns the anchor of a range that is still waiting for its
// second day.
func (e *Engine) Pending() (calendar.Date, bool) {
	return e.anchor, e.mode == Range && e.hasAnchor
}

func bounds(days []calendar.Date) (lo, hi calendar.Date) {
	lo, hi = days[0], days[0]
	for _, d := range days[1:] {
		if d.Before(lo) {
			lo = d
		}
		if d.After(hi) {
			hi = d
		}
	}
	return lo, hi
}
