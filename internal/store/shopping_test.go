package store

import (
	"errors"
	"testing"

	"github.com/dukerupert/homebase/internal/model"
)

func TestShoppingCreate(t *testing.T) {
	s := setupTestStores(t).Shopping

	item, err := s.Create("  Milk ", "", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Name != "Milk" {
		t.Errorf("name = %q, want %q", item.Name, "Milk")
	}
	if item.Category != "Dairy" {
		t.Errorf("category = %q, want %q", item.Category, "Dairy")
	}
	if item.Quantity != "1" {
		t.Errorf("quantity = %q, want %q", item.Quantity, "1")
	}
	if item.Bought || item.IsDeleted {
		t.Errorf("new item bought=%v deleted=%v, want both false", item.Bought, item.IsDeleted)
	}

	explicit, err := s.Create("Soap", "Cleaning", "3")
	if err != nil {
		t.Fatalf("create explicit: %v", err)
	}
	if explicit.Category != "Cleaning" || explicit.Quantity != "3" {
		t.Errorf("got %q/%q, want Cleaning/3", explicit.Category, explicit.Quantity)
	}
}

func TestShoppingListOrder(t *testing.T) {
	s := setupTestStores(t).Shopping

	s.Create("Tomato", "Vegetables", "")
	s.Create("Cheese", "Dairy", "")
	s.Create("Butter", "Dairy", "")

	items, err := s.ListActive()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Butter", "Cheese", "Tomato"}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i, name := range want {
		if items[i].Name != name {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Name, name)
		}
	}
}

func TestShoppingUpdate(t *testing.T) {
	s := setupTestStores(t).Shopping

	item, _ := s.Create("Bread", "", "")
	qty := "2 loaves"
	got, err := s.Update(item.ID, model.ShoppingItemUpdate{Quantity: &qty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Quantity != "2 loaves" {
		t.Errorf("quantity = %q, want %q", got.Quantity, "2 loaves")
	}
	if got.Name != "Bread" {
		t.Errorf("name changed to %q", got.Name)
	}

	if _, err := s.Update(9999, model.ShoppingItemUpdate{Quantity: &qty}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing err = %v, want ErrNotFound", err)
	}
	if _, err := s.Update(9999, model.ShoppingItemUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty update missing err = %v, want ErrNotFound", err)
	}
}

func TestShoppingSetBought(t *testing.T) {
	s := setupTestStores(t).Shopping

	item, _ := s.Create("Eggs", "", "")
	got, err := s.SetBought(item.ID, true)
	if err != nil {
		t.Fatalf("set bought: %v", err)
	}
	if !got.Bought {
		t.Error("expected bought")
	}

	n, err := s.CountUnbought()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("unbought = %d, want 0", n)
	}

	got, _ = s.SetBought(item.ID, false)
	if got.Bought {
		t.Error("expected not bought")
	}
}

func TestShoppingClearBought(t *testing.T) {
	stores := setupTestStores(t)
	s := stores.Shopping

	milk, _ := s.Create("Milk", "", "2")
	eggs, _ := s.Create("Eggs", "", "")
	s.Create("Apples", "", "")
	s.SetBought(milk.ID, true)
	s.SetBought(eggs.ID, true)

	n, err := s.ClearBought("a")
	if err != nil {
		t.Fatalf("clear bought: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared = %d, want 2", n)
	}

	items, _ := s.ListActive()
	if len(items) != 1 || items[0].Name != "Apples" {
		t.Errorf("remaining = %+v, want only Apples", items)
	}
	if got, _ := s.GetByID(milk.ID); got != nil {
		t.Error("cleared item should be hard-deleted")
	}

	entries, err := stores.Archive.List(model.EntityShopping, 10)
	if err != nil {
		t.Fatalf("archive list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("archive entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Action != model.ActionBought {
			t.Errorf("action = %q, want %q", e.Action, model.ActionBought)
		}
		if e.Actor != "a" {
			t.Errorf("actor = %q, want %q", e.Actor, "a")
		}
		if e.Label == "Milk" && e.Detail["quantity"] != "2" {
			t.Errorf("milk detail = %v, want quantity 2", e.Detail)
		}
	}

	n, err = s.ClearBought("a")
	if err != nil {
		t.Fatalf("clear again: %v", err)
	}
	if n != 0 {
		t.Errorf("second clear = %d, want 0", n)
	}
}

func TestShoppingSoftDeleteRestorePurge(t *testing.T) {
	stores := setupTestStores(t)
	s := stores.Shopping

	item, _ := s.Create("Rice", "", "")

	if err := s.SoftDelete(item.ID, "b"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	active, _ := s.ListActive()
	if len(active) != 0 {
		t.Errorf("active after delete = %d, want 0", len(active))
	}
	bin, _ := stores.Bin.List()
	if len(bin) != 1 || bin[0].Entity != model.EntityShopping || bin[0].Name != "Rice" {
		t.Fatalf("bin = %+v, want the deleted rice", bin)
	}

	if err := s.SoftDelete(item.ID, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}

	if err := s.Restore(item.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	active, _ = s.ListActive()
	if len(active) != 1 {
		t.Errorf("active after restore = %d, want 1", len(active))
	}
	if err := s.Restore(item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("restore of active row err = %v, want ErrNotFound", err)
	}

	if err := s.Purge(item.ID); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if got, _ := s.GetByID(item.ID); got != nil {
		t.Error("expected purged row to be gone")
	}
	if err := s.Purge(item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("purge missing err = %v, want ErrNotFound", err)
	}

	entries, _ := stores.Archive.List(model.EntityShopping, 0)
	var actions []string
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	want := []string{model.ActionPurged, model.ActionRestored, model.ActionDeleted}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("actions[%d] = %q, want %q", i, actions[i], want[i])
		}
	}
}
