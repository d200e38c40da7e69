package model

import "time"

// Entity names double as table keys for the recycle bin and archive log.
const (
	EntityShopping = "shopping"
	EntityExpense  = "expense"
	EntityEvent    = "event"
	EntityChore    = "chore"
	EntityCatTask  = "cat_task"
)

// Archive actions.
const (
	ActionDeleted   = "deleted"
	ActionCompleted = "completed"
	ActionBought    = "bought"
	ActionRestored  = "restored"
	ActionPurged    = "purged"
)

// ArchiveEntry is one append-only history record.
type ArchiveEntry struct {
	ID         int64          `json:"id"`
	Entity     string         `json:"entity"`
	EntityID   int64          `json:"entity_id"`
	Action     string         `json:"action"`
	Label      string         `json:"label"`
	Detail     map[string]any `json:"detail,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	ArchivedAt time.Time      `json:"archived_at"`
}

// DeletedItem is a recycle-bin row.
type DeletedItem struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
	Name   string `json:"name"`
}

// Summary aggregates the figures shown at the top of the household dashboard.
type Summary struct {
	Balance         string    `json:"balance"`
	UrgentEvents    int       `json:"urgent_events"`
	ReminderEvents  []Event   `json:"reminder_events"`
	OverdueCatTasks []CatTask `json:"overdue_cat_tasks"`
	OpenChores      int       `json:"open_chores"`
	UnboughtItems   int       `json:"unbought_items"`
}
