package database

import (
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dukerupert/homebase/internal/model"
)

type columnUpgrade struct {
	table  string
	column string
	ddl    string
}

// columnUpgrades lists columns added after the first household database
// files were created. Each is attempted on every start.
var columnUpgrades = []columnUpgrade{
	{"shopping_items", "is_deleted", "INTEGER NOT NULL DEFAULT 0"},
	{"shopping_items", "quantity", "TEXT NOT NULL DEFAULT '1'"},
	{"expenses", "is_deleted", "INTEGER NOT NULL DEFAULT 0"},
	{"events", "is_deleted", "INTEGER NOT NULL DEFAULT 0"},
	{"events", "reminder_sent", "INTEGER NOT NULL DEFAULT 0"},
	{"chores", "is_deleted", "INTEGER NOT NULL DEFAULT 0"},
	{"chores", "due_date", "TEXT"},
	{"chores", "done_by", "TEXT"},
	{"chores", "created_at", "TIMESTAMP NOT NULL DEFAULT '1970-01-01 00:00:00'"},
	{"chores", "priority", "TEXT NOT NULL DEFAULT 'normal'"},
	{"cat_care", "is_deleted", "INTEGER NOT NULL DEFAULT 0"},
}

// upgradeColumns adds missing columns to tables that already exist.
// "duplicate column" and "no such table" failures are expected and ignored;
// anything else aborts startup.
func upgradeColumns(db *sql.DB) error {
	for _, u := range columnUpgrades {
		_, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", u.table, u.column, u.ddl))
		if err == nil || isIgnorableAlterError(err) {
			continue
		}
		return fmt.Errorf("add column %s.%s: %w", u.table, u.column, err)
	}
	return nil
}

func isIgnorableAlterError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "no such table")
}

// legacyMembers maps the member names stored by the first release.
var legacyMembers = map[string]string{
	"טלאור": "a",
	"רומי":  "b",
}

// legacyMemberExpr returns a CASE expression that rewrites the first
// release's member names in col, with its bind arguments.
func legacyMemberExpr(col string) (string, []any) {
	var b strings.Builder
	var args []any
	b.WriteString("CASE " + col)
	for _, name := range slices.Sorted(maps.Keys(legacyMembers)) {
		b.WriteString(" WHEN ? THEN ?")
		args = append(args, name, legacyMembers[name])
	}
	b.WriteString(" ELSE " + col + " END")
	return b.String(), args
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// migrateLegacyData converts the data of a first-release file in one
// transaction: the expense table, member names and the history tables.
func migrateLegacyData(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := migrateLegacyExpenses(tx); err != nil {
		return fmt.Errorf("migrate expenses: %w", err)
	}
	if err := migrateLegacyMembers(tx); err != nil {
		return fmt.Errorf("migrate members: %w", err)
	}
	if err := migrateLegacyArchives(tx); err != nil {
		return fmt.Errorf("migrate history: %w", err)
	}
	return tx.Commit()
}

// expensesTable matches the expenses table in 00001_init.sql.
const expensesTable = `CREATE TABLE expenses_new (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    amount TEXT NOT NULL,
    description TEXT NOT NULL,
    payer TEXT NOT NULL,
    split_type TEXT NOT NULL,
    member_a_pct TEXT NOT NULL DEFAULT '50',
    member_a_share TEXT NOT NULL,
    member_b_share TEXT NOT NULL,
    is_deleted INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// migrateLegacyExpenses rebuilds an expense table that still has the
// per-name REAL share columns. Those columns are NOT NULL and amount has
// REAL affinity, so rows are copied into a fresh table that replaces the
// old one.
// Amounts and shares become decimal text, payers become member keys, and
// custom splits keep their ratio as member A's percentage.
func migrateLegacyExpenses(tx querier) error {
	hasShares, err := hasColumn(tx, "expenses", "talor_share")
	if err != nil || !hasShares {
		return err
	}

	if _, err := tx.Exec(expensesTable); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	payer, args := legacyMemberExpr("payer")
	_, err = tx.Exec(`
		INSERT INTO expenses_new (id, amount, description, payer, split_type, member_a_pct, member_a_share, member_b_share, is_deleted, created_at)
		SELECT id,
			printf('%.2f', amount),
			COALESCE(description, ''),
			`+payer+`,
			CASE
				WHEN split_type IN ('equal', 'self', 'other', 'custom') THEN split_type
				WHEN split_type = '50/50' THEN 'equal'
				ELSE 'custom' END,
			CASE
				WHEN split_type NOT IN ('50/50', 'equal') AND amount > 0 THEN printf('%.2f', talor_share * 100.0 / amount)
				ELSE '50' END,
			printf('%.2f', talor_share),
			printf('%.2f', romi_share),
			COALESCE(is_deleted, 0),
			COALESCE(created_at, CURRENT_TIMESTAMP)
		FROM expenses`, args...)
	if err != nil {
		return fmt.Errorf("copy rows: %w", err)
	}

	if _, err := tx.Exec(`DROP TABLE expenses`); err != nil {
		return fmt.Errorf("drop old table: %w", err)
	}
	if _, err := tx.Exec(`ALTER TABLE expenses_new RENAME TO expenses`); err != nil {
		return fmt.Errorf("rename table: %w", err)
	}
	return nil
}

// migrateLegacyMembers rewrites who completed chores and cat tasks.
func migrateLegacyMembers(tx querier) error {
	for _, table := range []string{"chores", "cat_care"} {
		expr, args := legacyMemberExpr("done_by")
		if _, err := tx.Exec(`UPDATE `+table+` SET done_by = `+expr+` WHERE done_by IS NOT NULL`, args...); err != nil {
			return fmt.Errorf("rewrite %s.done_by: %w", table, err)
		}
	}
	return nil
}

// legacyActionDeleted is the action the first release wrote for removals.
const legacyActionDeleted = "נמחק"

// legacyActionBought is the action written when bought items were cleared.
const legacyActionBought = "נקנה"

type legacyArchive struct {
	table  string
	entity string
	label  string
	detail string
	// action is the archive_log action for rows not marked as deleted.
	action string
	actor  string
}

var legacyArchives = []legacyArchive{
	{
		table:  "archive_shopping",
		entity: model.EntityShopping,
		label:  "name",
		detail: "json_object('category', COALESCE(category, ''), 'quantity', COALESCE(quantity, '1'))",
		action: model.ActionBought,
	},
	{
		table:  "archive_chores",
		entity: model.EntityChore,
		label:  "name",
		detail: "json_object('due_date', due_date, 'done_at', done_at)",
		action: model.ActionCompleted,
		actor:  "done_by",
	},
	{
		table:  "archive_expenses",
		entity: model.EntityExpense,
		label:  "description",
		detail: "json_object('amount', printf('%.2f', amount), 'date', original_date)",
		action: model.ActionDeleted,
	},
	{
		table:  "archive_events",
		entity: model.EntityEvent,
		label:  "title",
		detail: "json_object('date', date, 'time', time)",
		action: model.ActionDeleted,
	},
}

// migrateLegacyArchives copies the per-entity history tables of the first
// release into the archive log. The old tables are left in place.
func migrateLegacyArchives(tx querier) error {
	for _, a := range legacyArchives {
		ok, err := hasColumn(tx, a.table, "original_id")
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		actor, args := "''", []any{}
		if a.actor != "" {
			var expr string
			expr, args = legacyMemberExpr(a.actor)
			actor = "COALESCE(" + expr + ", '')"
		}
		args = append([]any{a.entity, legacyActionDeleted, model.ActionDeleted, legacyActionBought, model.ActionBought, a.action}, args...)

		_, err = tx.Exec(`
			INSERT INTO archive_log (entity, entity_id, action, label, detail, actor, archived_at)
			SELECT ?,
				COALESCE(original_id, 0),
				CASE action WHEN ? THEN ? WHEN ? THEN ? ELSE ? END,
				COALESCE(`+a.label+`, ''),
				`+a.detail+`,
				`+actor+`,
				COALESCE(archived_at, CURRENT_TIMESTAMP)
			FROM `+a.table+` ORDER BY id`, args...)
		if err != nil {
			return fmt.Errorf("copy %s: %w", a.table, err)
		}
	}
	return nil
}

// isUnmanaged reports whether goose has never run against this database,
// which is the case for new files and for files written by older releases.
func isUnmanaged(db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'goose_db_version'`).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// migrateLegacyPriority folds the old urgency labels and the emoji-tagged
// priority labels into the single priority enum. It runs once, when a
// database is first brought under migration control.
func migrateLegacyPriority(db *sql.DB) error {
	hasUrgency, err := hasColumn(db, "chores", "urgency")
	if err != nil {
		return err
	}
	if hasUrgency {
		_, err = db.Exec(`
			UPDATE chores SET priority = CASE urgency
				WHEN 'דחוף' THEN 'urgent'
				WHEN 'גבוה' THEN 'high'
				WHEN 'נמוך' THEN 'low'
				WHEN 'Urgent 🔴' THEN 'urgent'
				ELSE 'normal' END
			WHERE urgency IS NOT NULL`)
		if err != nil {
			return fmt.Errorf("fold urgency: %w", err)
		}
	}
	_, err = db.Exec(`
		UPDATE chores SET priority = CASE priority WHEN 'Urgent 🔴' THEN 'urgent' ELSE 'normal' END
		WHERE priority IS NULL OR priority NOT IN ('urgent', 'high', 'normal', 'low')`)
	if err != nil {
		return fmt.Errorf("normalize priority: %w", err)
	}
	return nil
}

func hasColumn(q querier, table, column string) (bool, error) {
	rows, err := q.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("scan table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
