package store

import (
	"errors"
	"testing"

	"github.com/dukerupert/homebase/internal/model"
	"github.com/shopspring/decimal"
)

func TestRecycleBinAcrossEntities(t *testing.T) {
	stores := setupTestStores(t)

	item, _ := stores.Shopping.Create("Milk", "", "")
	exp, _ := stores.Expenses.Create(dec("10"), "coffee", model.MemberA, model.SplitEqual, decimal.Zero)
	ev, _ := stores.Events.Create("Vet", day(1), "", "")
	ch, _ := stores.Chores.Create("Dishes", "", nil)
	cat, _, _ := stores.CatTasks.Create("Feed", 12)

	stores.Shopping.SoftDelete(item.ID, "a")
	stores.Expenses.SoftDelete(exp.ID, "a")
	stores.Events.SoftDelete(ev.ID, "b")
	stores.Chores.SoftDelete(ch.ID, "b")
	stores.CatTasks.SoftDelete(cat.ID, "a")

	items, err := stores.Bin.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := map[string]string{
		model.EntityShopping: "Milk",
		model.EntityExpense:  "coffee",
		model.EntityEvent:    "Vet",
		model.EntityChore:    "Dishes",
		model.EntityCatTask:  "Feed",
	}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for _, it := range items {
		if want[it.Entity] != it.Name {
			t.Errorf("%s name = %q, want %q", it.Entity, it.Name, want[it.Entity])
		}
	}

	if err := stores.Bin.Restore(model.EntityEvent, ev.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	events, _ := stores.Events.ListActive()
	if len(events) != 1 {
		t.Errorf("active events = %d, want 1", len(events))
	}

	if err := stores.Bin.Purge(model.EntityCatTask, cat.ID); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if got, _ := stores.CatTasks.GetByID(cat.ID); got != nil {
		t.Error("purged cat task should be gone")
	}

	items, _ = stores.Bin.List()
	if len(items) != 3 {
		t.Errorf("bin after restore and purge = %d, want 3", len(items))
	}
}

func TestRecycleBinUnknownEntity(t *testing.T) {
	stores := setupTestStores(t)

	if err := stores.Bin.Restore("notes", 1); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("restore err = %v, want ErrUnknownEntity", err)
	}
	if err := stores.Bin.Purge("", 1); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("purge err = %v, want ErrUnknownEntity", err)
	}
	if _, err := stores.Table("users"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("table err = %v, want ErrUnknownEntity", err)
	}
}

func TestRecycleBinEmpty(t *testing.T) {
	stores := setupTestStores(t)

	items, err := stores.Bin.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %v, want empty non-nil slice", items)
	}
	if err := stores.Bin.Restore(model.EntityChore, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("restore missing err = %v, want ErrNotFound", err)
	}
}
