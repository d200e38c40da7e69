package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/homebase/internal/model"

	ical "github.com/arran4/golang-ical"
)

func TestFeed(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	events := []model.Event{
		{ID: 1, Title: "Dentist", Date: "2026-05-02", Time: "14:30", Emoji: "🏥", CreatedAt: now},
		{ID: 2, Title: "Anniversary", Date: "2026-05-10", Description: "book a table", CreatedAt: now},
		{ID: 3, Title: "Broken", Date: "not-a-date", CreatedAt: now},
	}

	out := Feed(events, "Our home", time.UTC, now)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	got := cal.Events()
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2 (unparsable date skipped)", len(got))
	}

	if got[0].Id() != "event-1@homebase" {
		t.Errorf("uid = %q", got[0].Id())
	}
	if s := got[0].GetProperty(ical.ComponentPropertySummary).Value; s != "🏥 Dentist" {
		t.Errorf("summary = %q", s)
	}
	start, err := got[0].GetStartAt()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if want := time.Date(2026, 5, 2, 14, 30, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}

	if s := got[1].GetProperty(ical.ComponentPropertySummary).Value; s != "Anniversary" {
		t.Errorf("summary = %q", s)
	}
	if d := got[1].GetProperty(ical.ComponentPropertyDescription); d == nil || d.Value != "book a table" {
		t.Errorf("description = %+v", d)
	}
	if !strings.Contains(out, "DTSTART;VALUE=DATE:20260510") {
		t.Errorf("all-day start missing in\n%s", out)
	}
	if !strings.Contains(out, "X-WR-CALNAME:Our home") {
		t.Error("calendar name missing")
	}
}
