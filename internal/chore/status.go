package chore

import (
	"log/slog"
	"time"

	"github.com/dukerupert/homebase/internal/model"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusDueToday  Status = "due_today"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

type ChoreWithStatus struct {
	model.Chore
	Status     Status `json:"status"`
	DoneByName string `json:"done_by_name,omitempty"`
}

// ComputeStatus determines a chore's status relative to today.
// Chores without a due date stay pending until done.
func ComputeStatus(c model.Chore, today time.Time) Status {
	if c.Done {
		return StatusCompleted
	}
	if c.DueDate == nil || *c.DueDate == "" {
		return StatusPending
	}

	due, err := time.ParseInLocation(model.DateLayout, *c.DueDate, today.Location())
	if err != nil {
		slog.Error("invalid chore due date", "chore_id", c.ID, "due_date", *c.DueDate, "error", err)
		return StatusPending
	}

	today = startOfDay(today)
	switch {
	case due.Before(today):
		return StatusOverdue
	case due.Equal(today):
		return StatusDueToday
	}
	return StatusPending
}

// WithStatus decorates chores with their status and the completer's display name.
func WithStatus(chores []model.Chore, today time.Time, names map[model.Member]string) []ChoreWithStatus {
	out := make([]ChoreWithStatus, 0, len(chores))
	for _, c := range chores {
		cs := ChoreWithStatus{Chore: c, Status: ComputeStatus(c, today)}
		if c.DoneBy != nil {
			cs.DoneByName = names[*c.DoneBy]
		}
		out = append(out, cs)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
