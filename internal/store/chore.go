package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/homebase/internal/model"
)

const choreCols = `id, name, priority, due_date, done, done_by, done_at, is_deleted, created_at`

// choreOrder puts open chores first, then by priority rank and due date
// with undated chores last.
const choreOrder = `done ASC,
	CASE priority WHEN 'urgent' THEN 1 WHEN 'high' THEN 2 WHEN 'normal' THEN 3 WHEN 'low' THEN 4 ELSE 3 END ASC,
	due_date IS NULL ASC, due_date ASC, id ASC`

func scanChore(sc scanner) (*model.Chore, error) {
	var c model.Chore
	var priority string
	var dueDate, doneBy sql.NullString
	var doneAt sql.NullTime
	var done, deleted int
	err := sc.Scan(&c.ID, &c.Name, &priority, &dueDate, &done, &doneBy, &doneAt, &deleted, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Priority = model.ParsePriority(priority)
	if dueDate.Valid && dueDate.String != "" {
		c.DueDate = &dueDate.String
	}
	c.Done = done != 0
	c.DoneBy = nullMember(doneBy)
	if doneAt.Valid {
		c.DoneAt = &doneAt.Time
	}
	c.IsDeleted = deleted != 0
	return &c, nil
}

type ChoreStore struct {
	entityTable[model.Chore]
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{entityTable[model.Chore]{
		db:      db,
		entity:  model.EntityChore,
		table:   "chores",
		cols:    choreCols,
		label:   "name",
		orderBy: choreOrder,
		scan:    scanChore,
	}}
}

func (s *ChoreStore) Create(name string, priority model.Priority, dueDate *string) (*model.Chore, error) {
	if !priority.Valid() {
		priority = model.PriorityNormal
	}
	var due sql.NullString
	if dueDate != nil {
		due = nullString(*dueDate)
	}
	id, err := s.insert(`name, priority, due_date`, name, string(priority), due)
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *ChoreStore) Update(id int64, u model.ChoreUpdate) (*model.Chore, error) {
	var sets []string
	var args []any
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*u.Priority))
	}
	if u.DueDate != nil {
		var due sql.NullString
		if *u.DueDate != nil {
			due = nullString(**u.DueDate)
		}
		sets = append(sets, "due_date = ?")
		args = append(args, due)
	}
	if err := s.update(id, sets, args); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Complete marks the chore done by actor and records it in the archive log.
func (s *ChoreStore) Complete(id int64, actor model.Member) (*model.Chore, error) {
	now := time.Now().UTC()
	err := s.mutate(id, `is_deleted = 0`, model.ActionCompleted, string(actor), nil,
		`UPDATE chores SET done = 1, done_by = ?, done_at = ? WHERE id = ?`, string(actor), now, id)
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Uncomplete reopens a chore and clears who completed it and when.
func (s *ChoreStore) Uncomplete(id int64) (*model.Chore, error) {
	if err := s.update(id, []string{"done = 0", "done_by = NULL", "done_at = NULL"}, nil); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// CountOpen returns the number of active chores not yet done.
func (s *ChoreStore) CountOpen() (int, error) {
	n, err := s.count(`is_deleted = 0 AND done = 0`)
	if err != nil {
		return 0, fmt.Errorf("count open chores: %w", err)
	}
	return n, nil
}
