package store

import (
	"fmt"

	"github.com/dukerupert/homebase/internal/model"
)

type binTable interface {
	Lifecycle
	Entity() string
	ListDeleted() ([]model.DeletedItem, error)
}

// RecycleBin is the cross-entity view of soft-deleted rows.
type RecycleBin struct {
	order  []string
	tables map[string]binTable
}

func NewRecycleBin(tables ...binTable) *RecycleBin {
	b := &RecycleBin{tables: make(map[string]binTable, len(tables))}
	for _, t := range tables {
		b.order = append(b.order, t.Entity())
		b.tables[t.Entity()] = t
	}
	return b
}

// List returns the deleted rows of every table, grouped by entity.
func (b *RecycleBin) List() ([]model.DeletedItem, error) {
	items := []model.DeletedItem{}
	for _, name := range b.order {
		deleted, err := b.tables[name].ListDeleted()
		if err != nil {
			return nil, err
		}
		items = append(items, deleted...)
	}
	return items, nil
}

func (b *RecycleBin) Restore(entity string, id int64) error {
	t, err := b.table(entity)
	if err != nil {
		return err
	}
	return t.Restore(id)
}

func (b *RecycleBin) Purge(entity string, id int64) error {
	t, err := b.table(entity)
	if err != nil {
		return err
	}
	return t.Purge(id)
}

func (b *RecycleBin) table(entity string) (binTable, error) {
	t, ok := b.tables[entity]
	if !ok {
		return nil, fmt.Errorf("recycle bin %q: %w", entity, ErrUnknownEntity)
	}
	return t, nil
}
