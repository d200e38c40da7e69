package calendar

import (
	"fmt"
	"time"

	"github.com/dukerupert/homebase/internal/model"

	ical "github.com/arran4/golang-ical"
)

const timedEventLength = time.Hour

// Feed renders events as an iCalendar document. Events without a time of
// day become all-day entries; timed events are read in loc and last an
// hour. Rows with an unparsable date are skipped.
func Feed(events []model.Event, name string, loc *time.Location, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//homebase//events//EN")
	cal.SetXWRCalName(name)

	for _, e := range events {
		day, err := time.ParseInLocation(model.DateLayout, e.Date, loc)
		if err != nil {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("event-%d@homebase", e.ID))
		ev.SetDtStampTime(now)
		ev.SetCreatedTime(e.CreatedAt)
		ev.SetSummary(summary(e))
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}

		if start, ok := startAt(day, e.Time, loc); ok {
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(timedEventLength))
			continue
		}
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}
	return cal.Serialize()
}

func summary(e model.Event) string {
	if e.Emoji == "" {
		return e.Title
	}
	return e.Emoji + " " + e.Title
}

func startAt(day time.Time, clock string, loc *time.Location) (time.Time, bool) {
	if clock == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(model.ClockLayout, clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), true
}
