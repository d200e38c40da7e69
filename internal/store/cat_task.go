package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/homebase/internal/chore"
	"github.com/dukerupert/homebase/internal/model"
)

const catTaskCols = `id, task_name, frequency_hours, last_done_at, done_by, is_deleted`

func scanCatTask(sc scanner) (*model.CatTask, error) {
	var c model.CatTask
	var lastDone sql.NullTime
	var doneBy sql.NullString
	var deleted int
	if err := sc.Scan(&c.ID, &c.TaskName, &c.FrequencyHours, &lastDone, &doneBy, &deleted); err != nil {
		return nil, err
	}
	if lastDone.Valid {
		c.LastDoneAt = &lastDone.Time
	}
	c.DoneBy = nullMember(doneBy)
	c.IsDeleted = deleted != 0
	return &c, nil
}

type CatTaskStore struct {
	entityTable[model.CatTask]
}

func NewCatTaskStore(db *sql.DB) *CatTaskStore {
	return &CatTaskStore{entityTable[model.CatTask]{
		db:      db,
		entity:  model.EntityCatTask,
		table:   "cat_care",
		cols:    catTaskCols,
		label:   "task_name",
		orderBy: "id ASC",
		scan:    scanCatTask,
	}}
}

// Create adds a task. Task names are unique: creating a name that already
// exists leaves the table untouched and returns the existing row with
// created set to false. A name held by a task in the recycle bin fails
// with ErrInRecycleBin.
func (s *CatTaskStore) Create(name string, frequencyHours int) (task *model.CatTask, created bool, err error) {
	result, err := s.db.Exec(
		`INSERT OR IGNORE INTO cat_care (task_name, frequency_hours) VALUES (?, ?)`,
		name, frequencyHours,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert cat task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+catTaskCols+` FROM cat_care WHERE task_name = ?`, name)
	task, err = scanCatTask(row)
	if err != nil {
		return nil, false, fmt.Errorf("get cat task %q: %w", name, err)
	}
	if n == 0 && task.IsDeleted {
		return nil, false, fmt.Errorf("create cat task %q: %w", name, ErrInRecycleBin)
	}
	return task, n > 0, nil
}

func (s *CatTaskStore) Update(id int64, u model.CatTaskUpdate) (*model.CatTask, error) {
	var sets []string
	var args []any
	if u.TaskName != nil {
		sets = append(sets, "task_name = ?")
		args = append(args, *u.TaskName)
	}
	if u.FrequencyHours != nil {
		sets = append(sets, "frequency_hours = ?")
		args = append(args, *u.FrequencyHours)
	}
	if err := s.update(id, sets, args); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Complete stamps the task as done now by actor. The frequency is unchanged.
func (s *CatTaskStore) Complete(id int64, actor model.Member) (*model.CatTask, error) {
	now := time.Now().UTC()
	err := s.mutate(id, `is_deleted = 0`, model.ActionCompleted, string(actor), nil,
		`UPDATE cat_care SET last_done_at = ?, done_by = ? WHERE id = ?`, now, string(actor), id)
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// ListOverdue returns active tasks that are overdue at now.
func (s *CatTaskStore) ListOverdue(now time.Time) ([]model.CatTask, error) {
	tasks, err := s.ListActive()
	if err != nil {
		return nil, err
	}
	var overdue []model.CatTask
	for _, t := range tasks {
		if chore.IsOverdue(t.LastDoneAt, t.FrequencyHours, now) {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}
