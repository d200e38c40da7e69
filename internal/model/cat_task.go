package model

import "time"

// CatTask is a recurring pet-care task that falls overdue FrequencyHours
// after it was last done.
type CatTask struct {
	ID             int64      `json:"id"`
	TaskName       string     `json:"task_name"`
	FrequencyHours int        `json:"frequency_hours"`
	LastDoneAt     *time.Time `json:"last_done_at"`
	DoneBy         *Member    `json:"done_by"`
	IsDeleted      bool       `json:"is_deleted"`
}

type CatTaskUpdate struct {
	TaskName       *string
	FrequencyHours *int
}
