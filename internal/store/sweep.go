package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/homebase/internal/model"
)

// DefaultRetentionDays is how long past events and completed chores stay
// on the active lists.
const DefaultRetentionDays = 2

// SweepActor is the archive actor recorded for rows the sweep deletes.
const SweepActor = "sweep"

// SweepResult counts the rows a sweep moved to the recycle bin.
type SweepResult struct {
	Events int64 `json:"events"`
	Chores int64 `json:"chores"`
}

// Sweeper soft-deletes stale events and completed chores.
type Sweeper struct {
	db            *sql.DB
	retentionDays int
}

func NewSweeper(db *sql.DB, retentionDays int) *Sweeper {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &Sweeper{db: db, retentionDays: retentionDays}
}

// Run sweeps events dated before today minus the retention window, and
// completed chores due before it. Undated chores are never swept.
func (s *Sweeper) Run(ctx context.Context, today time.Time) (SweepResult, error) {
	cutoff := today.AddDate(0, 0, -s.retentionDays).Format(model.DateLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SweepResult{}, fmt.Errorf("begin sweep: %w", err)
	}
	defer tx.Rollback()

	var res SweepResult
	res.Events, err = sweepTable(ctx, tx, model.EntityEvent, "events", "title",
		`is_deleted = 0 AND date < ?`, cutoff)
	if err != nil {
		return SweepResult{}, err
	}
	res.Chores, err = sweepTable(ctx, tx, model.EntityChore, "chores", "name",
		`is_deleted = 0 AND done = 1 AND due_date IS NOT NULL AND due_date != '' AND due_date < ?`, cutoff)
	if err != nil {
		return SweepResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return SweepResult{}, fmt.Errorf("commit sweep: %w", err)
	}
	return res, nil
}

// sweepTable records a deleted entry for every row matching where, then
// moves those rows to the recycle bin.
func sweepTable(ctx context.Context, tx *sql.Tx, entity, table, label, where string, args ...any) (int64, error) {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO archive_log (entity, entity_id, action, label, actor)
		 SELECT ?, id, ?, COALESCE(`+label+`, ''), ? FROM `+table+` WHERE `+where,
		append([]any{entity, model.ActionDeleted, SweepActor}, args...)...)
	if err != nil {
		return 0, fmt.Errorf("archive swept %s: %w", table, err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE `+table+` SET is_deleted = 1 WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("sweep %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
