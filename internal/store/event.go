package store

import (
	"database/sql"
	"time"

	"github.com/dukerupert/homebase/internal/calendar"
	"github.com/dukerupert/homebase/internal/model"
)

const eventCols = `id, title, date, time, description, reminder_sent, is_deleted, created_at`

func scanEvent(sc scanner) (*model.Event, error) {
	var e model.Event
	var clock, desc sql.NullString
	var reminded, deleted int
	if err := sc.Scan(&e.ID, &e.Title, &e.Date, &clock, &desc, &reminded, &deleted, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Time = clock.String
	e.Description = desc.String
	e.ReminderSent = reminded != 0
	e.IsDeleted = deleted != 0
	e.Emoji = calendar.Emoji(e.Title, e.Description)
	return &e, nil
}

type EventStore struct {
	entityTable[model.Event]
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{entityTable[model.Event]{
		db:      db,
		entity:  model.EntityEvent,
		table:   "events",
		cols:    eventCols,
		label:   "title",
		orderBy: "date ASC, COALESCE(time, '') ASC, id ASC",
		scan:    scanEvent,
	}}
}

// Create adds an event. date is YYYY-MM-DD; an empty clock stores an
// all-day event.
func (s *EventStore) Create(title, date, clock, description string) (*model.Event, error) {
	id, err := s.insert(`title, date, time, description`, title, date, nullString(clock), description)
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Update applies the non-nil fields. Moving an event to another date makes
// it eligible for a reminder again.
func (s *EventStore) Update(id int64, u model.EventUpdate) (*model.Event, error) {
	var sets []string
	var args []any
	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Date != nil {
		sets = append(sets, "date = ?", "reminder_sent = 0")
		args = append(args, *u.Date)
	}
	if u.Time != nil {
		sets = append(sets, "time = ?")
		args = append(args, nullString(*u.Time))
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if err := s.update(id, sets, args); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *EventStore) MarkReminderSent(id int64) error {
	return s.update(id, []string{"reminder_sent = 1"}, nil)
}

// CountUrgent counts active events dated today or tomorrow.
func (s *EventStore) CountUrgent(today time.Time) (int, error) {
	return s.count(`is_deleted = 0 AND date IN (?, ?)`,
		today.Format(model.DateLayout), today.AddDate(0, 0, 1).Format(model.DateLayout))
}

// ListNeedingReminder returns active events dated tomorrow that have not
// had a reminder yet.
func (s *EventStore) ListNeedingReminder(today time.Time) ([]model.Event, error) {
	return s.list(`is_deleted = 0 AND reminder_sent = 0 AND date = ?`,
		today.AddDate(0, 0, 1).Format(model.DateLayout))
}

// ListRange returns active events dated between from and to inclusive.
func (s *EventStore) ListRange(from, to string) ([]model.Event, error) {
	return s.list(`is_deleted = 0 AND date >= ? AND date <= ?`, from, to)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
