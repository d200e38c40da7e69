// Package store persists the household lists in SQLite. Every entity table
// supports soft delete, restore and purge through a shared generic table,
// and lifecycle changes are recorded in an append-only archive log.
package store

import "database/sql"

// Stores bundles the per-entity stores that share one database handle.
type Stores struct {
	db *sql.DB

	Shopping *ShoppingStore
	Expenses *ExpenseStore
	Events   *EventStore
	Chores   *ChoreStore
	CatTasks *CatTaskStore
	Archive  *ArchiveStore
	Push     *PushStore
	Backups  *BackupStore
	Bin      *RecycleBin
}

func New(db *sql.DB) *Stores {
	s := &Stores{
		db:       db,
		Shopping: NewShoppingStore(db),
		Expenses: NewExpenseStore(db),
		Events:   NewEventStore(db),
		Chores:   NewChoreStore(db),
		CatTasks: NewCatTaskStore(db),
		Archive:  NewArchiveStore(db),
		Push:     NewPushStore(db),
		Backups:  NewBackupStore(db),
	}
	s.Bin = NewRecycleBin(s.Shopping, s.Expenses, s.Events, s.Chores, s.CatTasks)
	return s
}

// Sweeper returns a retention sweeper over the same database.
func (s *Stores) Sweeper(retentionDays int) *Sweeper {
	return NewSweeper(s.db, retentionDays)
}

// Table returns the lifecycle operations for an entity name.
func (s *Stores) Table(entity string) (Lifecycle, error) {
	return s.Bin.table(entity)
}
