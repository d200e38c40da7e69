package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/shopping"
)

const shoppingCols = `id, name, category, quantity, bought, is_deleted, created_at`

func scanShoppingItem(sc scanner) (*model.ShoppingItem, error) {
	var it model.ShoppingItem
	var qty sql.NullString
	var bought, deleted int
	if err := sc.Scan(&it.ID, &it.Name, &it.Category, &qty, &bought, &deleted, &it.CreatedAt); err != nil {
		return nil, err
	}
	it.Quantity = qty.String
	if it.Quantity == "" {
		it.Quantity = "1"
	}
	it.Bought = bought != 0
	it.IsDeleted = deleted != 0
	return &it, nil
}

type ShoppingStore struct {
	entityTable[model.ShoppingItem]
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{entityTable[model.ShoppingItem]{
		db:      db,
		entity:  model.EntityShopping,
		table:   "shopping_items",
		cols:    shoppingCols,
		label:   "name",
		orderBy: "category ASC, name ASC, id ASC",
		scan:    scanShoppingItem,
	}}
}

// Create adds an unbought item. An empty category is filled in from the
// item name and an empty quantity defaults to "1".
func (s *ShoppingStore) Create(name, category, quantity string) (*model.ShoppingItem, error) {
	name = strings.TrimSpace(name)
	if category == "" {
		category = shopping.Categorize(name)
	}
	if quantity == "" {
		quantity = "1"
	}
	id, err := s.insert(`name, category, quantity`, name, category, quantity)
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *ShoppingStore) Update(id int64, u model.ShoppingItemUpdate) (*model.ShoppingItem, error) {
	var sets []string
	var args []any
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*u.Name))
	}
	if u.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *u.Category)
	}
	if u.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *u.Quantity)
	}
	if u.Bought != nil {
		sets = append(sets, "bought = ?")
		args = append(args, boolInt(*u.Bought))
	}
	if err := s.update(id, sets, args); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *ShoppingStore) SetBought(id int64, bought bool) (*model.ShoppingItem, error) {
	return s.Update(id, model.ShoppingItemUpdate{Bought: &bought})
}

// CountUnbought returns the number of active items still to buy.
func (s *ShoppingStore) CountUnbought() (int, error) {
	return s.count(`is_deleted = 0 AND bought = 0`)
}

// ClearBought moves every bought item into the archive log and removes it
// from the list. It returns how many items were cleared.
func (s *ShoppingStore) ClearBought(actor string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin clear bought: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT ` + shoppingCols + ` FROM shopping_items WHERE bought = 1 AND is_deleted = 0 ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("select bought items: %w", err)
	}
	var items []model.ShoppingItem
	for rows.Next() {
		it, err := scanShoppingItem(rows)
		if err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan bought item: %w", err)
		}
		items = append(items, *it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, it := range items {
		err := appendArchive(tx, model.ArchiveEntry{
			Entity:   model.EntityShopping,
			EntityID: it.ID,
			Action:   model.ActionBought,
			Label:    it.Name,
			Detail:   map[string]any{"category": it.Category, "quantity": it.Quantity},
			Actor:    actor,
		})
		if err != nil {
			return 0, err
		}
	}

	if _, err := tx.Exec(`DELETE FROM shopping_items WHERE bought = 1 AND is_deleted = 0`); err != nil {
		return 0, fmt.Errorf("delete bought items: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit clear bought: %w", err)
	}
	return len(items), nil
}
