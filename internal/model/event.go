package model

import "time"

// DateLayout is the calendar-date format stored for events and chore due dates.
const DateLayout = "2006-01-02"

// ClockLayout is the optional time-of-day format stored for events.
const ClockLayout = "15:04"

type Event struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Date         string    `json:"date"`
	Time         string    `json:"time,omitempty"`
	Description  string    `json:"description"`
	Emoji        string    `json:"emoji"`
	ReminderSent bool      `json:"reminder_sent"`
	IsDeleted    bool      `json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
}

type EventUpdate struct {
	Title       *string
	Date        *string
	Time        *string
	Description *string
}
