package model

import (
	"strings"
	"time"
)

// Priority is the single ordered chore priority: urgent > high > normal > low.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting; lower sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	case PriorityNormal:
		return 3
	case PriorityLow:
		return 4
	}
	return 3
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// legacyPriorities maps the urgency and priority labels written by earlier
// versions of the household app.
var legacyPriorities = map[string]Priority{
	"דחוף":       PriorityUrgent,
	"גבוה":       PriorityHigh,
	"רגיל":       PriorityNormal,
	"נמוך":       PriorityLow,
	"urgent 🔴":  PriorityUrgent,
	"regular 🔵": PriorityNormal,
}

// ParsePriority accepts current and legacy labels. Unknown values map to normal.
func ParsePriority(s string) Priority {
	s = strings.ToLower(strings.TrimSpace(s))
	if p := Priority(s); p.Valid() {
		return p
	}
	if p, ok := legacyPriorities[s]; ok {
		return p
	}
	return PriorityNormal
}

type Chore struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Priority  Priority   `json:"priority"`
	DueDate   *string    `json:"due_date"`
	Done      bool       `json:"done"`
	DoneBy    *Member    `json:"done_by"`
	DoneAt    *time.Time `json:"done_at"`
	IsDeleted bool       `json:"is_deleted"`
	CreatedAt time.Time  `json:"created_at"`
}

type ChoreUpdate struct {
	Name     *string
	Priority *Priority
	DueDate  **string // non-nil pointer to nil clears the due date
}
