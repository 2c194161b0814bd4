// Package export writes a selection as an iCalendar feed of all-day events.
package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/lululau/datepick/internal/calendar"
	"github.com/lululau/datepick/internal/selection"
)

const productID = "-//lululau//datepick//ZH"

// ICS serialises the selection. Single and multiple selections become one
// all-day event per day; a completed range becomes one event spanning it. A
// pending range anchor is exported as a one-day event.
func ICS(e *selection.Engine, summary string, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	if start, end, ok := e.Range(); ok {
		addAllDay(cal, summary, start, end, now)
		return cal.Serialize()
	}
	for _, d := range e.Dates() {
		addAllDay(cal, summary, d, d, now)
	}
	return cal.Serialize()
}

func addAllDay(cal *ics.Calendar, summary string, first, last calendar.Date, now time.Time) {
	uid := fmt.Sprintf("%s-%s@datepick", first, last)
	event := cal.AddEvent(uid)
	event.SetDtStampTime(now.UTC())
	event.SetSummary(summary)
	event.SetAllDayStartAt(first.In(time.UTC))
	// DTEND of an all-day event is exclusive.
	event.SetAllDayEndAt(last.AddDays(1).In(time.UTC))
}
