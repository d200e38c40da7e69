package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/homebase/internal/model"
)

var (
	// ErrNotFound is returned by mutations whose id matches no eligible row.
	ErrNotFound = errors.New("not found")
	// ErrUnknownEntity is returned by the recycle bin for entity names it does not manage.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrDuplicateName is returned when a rename collides with a unique name.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInRecycleBin is returned when a unique name belongs to a deleted row.
	ErrInRecycleBin = errors.New("name is in the recycle bin")
)

type scanner interface{ Scan(...any) error }

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Lifecycle is the soft-delete capability every entity store shares.
type Lifecycle interface {
	SoftDelete(id int64, actor string) error
	Restore(id int64) error
	Purge(id int64) error
}

// entityTable holds the queries common to all soft-deletable tables.
// Entity stores embed it and add their own create and update operations.
type entityTable[T any] struct {
	db      *sql.DB
	entity  string
	table   string
	cols    string
	label   string
	orderBy string
	scan    func(scanner) (*T, error)
}

func (t *entityTable[T]) Entity() string { return t.entity }

func (t *entityTable[T]) list(where string, args ...any) ([]T, error) {
	rows, err := t.db.Query(
		`SELECT `+t.cols+` FROM `+t.table+` WHERE `+where+` ORDER BY `+t.orderBy,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.entity, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.entity, err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// ListActive returns every row that is not in the recycle bin.
func (t *entityTable[T]) ListActive() ([]T, error) {
	return t.list(`is_deleted = 0`)
}

// GetByID returns the row with the given id whether or not it is deleted,
// or nil when no such row exists.
func (t *entityTable[T]) GetByID(id int64) (*T, error) {
	row := t.db.QueryRow(`SELECT `+t.cols+` FROM `+t.table+` WHERE id = ?`, id)
	v, err := t.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", t.entity, id, err)
	}
	return v, nil
}

// ListDeleted returns the recycle-bin view of this table, newest id first.
func (t *entityTable[T]) ListDeleted() ([]model.DeletedItem, error) {
	rows, err := t.db.Query(
		`SELECT id, COALESCE(`+t.label+`, '') FROM `+t.table+` WHERE is_deleted = 1 ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list deleted %s: %w", t.entity, err)
	}
	defer rows.Close()

	var items []model.DeletedItem
	for rows.Next() {
		it := model.DeletedItem{Entity: t.entity}
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, fmt.Errorf("scan deleted %s: %w", t.entity, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// SoftDelete moves an active row into the recycle bin.
func (t *entityTable[T]) SoftDelete(id int64, actor string) error {
	return t.mutate(id, `is_deleted = 0`, model.ActionDeleted, actor, nil,
		`UPDATE `+t.table+` SET is_deleted = 1 WHERE id = ?`, id)
}

// Restore takes a row back out of the recycle bin.
func (t *entityTable[T]) Restore(id int64) error {
	return t.mutate(id, `is_deleted = 1`, model.ActionRestored, "", nil,
		`UPDATE `+t.table+` SET is_deleted = 0 WHERE id = ?`, id)
}

// Purge hard-deletes a row regardless of its deleted flag.
func (t *entityTable[T]) Purge(id int64) error {
	return t.mutate(id, `1 = 1`, model.ActionPurged, "", nil,
		`DELETE FROM `+t.table+` WHERE id = ?`, id)
}

// mutate runs stmt against the row with the given id when it matches cond,
// and records action in the archive log in the same transaction.
func (t *entityTable[T]) mutate(id int64, cond, action, actor string, detail map[string]any, stmt string, args ...any) error {
	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("begin %s %s: %w", action, t.entity, err)
	}
	defer tx.Rollback()

	var label string
	err = tx.QueryRow(
		`SELECT COALESCE(`+t.label+`, '') FROM `+t.table+` WHERE id = ? AND `+cond, id,
	).Scan(&label)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s %s %d: %w", action, t.entity, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup %s %d: %w", t.entity, id, err)
	}

	if _, err := tx.Exec(stmt, args...); err != nil {
		return fmt.Errorf("%s %s %d: %w", action, t.entity, id, err)
	}

	err = appendArchive(tx, model.ArchiveEntry{
		Entity:   t.entity,
		EntityID: id,
		Action:   action,
		Label:    label,
		Detail:   detail,
		Actor:    actor,
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// update applies a partial update to an active row. With no columns to set
// it only checks that the row exists.
func (t *entityTable[T]) update(id int64, sets []string, args []any) error {
	if len(sets) == 0 {
		var n int
		err := t.db.QueryRow(`SELECT COUNT(*) FROM `+t.table+` WHERE id = ? AND is_deleted = 0`, id).Scan(&n)
		if err != nil {
			return fmt.Errorf("update %s %d: %w", t.entity, id, err)
		}
		if n == 0 {
			return fmt.Errorf("update %s %d: %w", t.entity, id, ErrNotFound)
		}
		return nil
	}

	result, err := t.db.Exec(
		`UPDATE `+t.table+` SET `+strings.Join(sets, ", ")+` WHERE id = ? AND is_deleted = 0`,
		append(args, id)...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update %s %d: %w", t.entity, id, ErrDuplicateName)
		}
		return fmt.Errorf("update %s %d: %w", t.entity, id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update %s %d: %w", t.entity, id, ErrNotFound)
	}
	return nil
}

func (t *entityTable[T]) count(where string, args ...any) (int, error) {
	var n int
	err := t.db.QueryRow(`SELECT COUNT(*) FROM `+t.table+` WHERE `+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t.entity, err)
	}
	return n, nil
}

func (t *entityTable[T]) insert(cols string, args ...any) (int64, error) {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	result, err := t.db.Exec(`INSERT INTO `+t.table+` (`+cols+`) VALUES (`+marks+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", t.entity, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullMember(s sql.NullString) *model.Member {
	if !s.Valid || s.String == "" {
		return nil
	}
	m := model.Member(s.String)
	return &m
}
