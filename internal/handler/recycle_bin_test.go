package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/dukerupert/homebase/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecycleBinRestoreAndPurge(t *testing.T) {
	stores := setupStores(t)
	bin := NewRecycleBinHandler(stores, nil, testLogger())
	chores := NewChoreHandler(stores.Chores, testNames, nil, testLogger())

	_, err := stores.Chores.Create("Vacuum", model.PriorityNormal, nil)
	require.NoError(t, err)
	_, err = stores.Shopping.Create("apples", "", "")
	require.NoError(t, err)

	rec := call(t, chores.Delete, "DELETE", "/", nil, model.MemberA, "id", "1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NoError(t, stores.Shopping.SoftDelete(1, "b"))

	rec = call(t, bin.List, "GET", "/api/recycle-bin", nil, model.MemberA)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]model.DeletedItem](t, rec)
	require.Len(t, items, 2)
	assert.Contains(t, items, model.DeletedItem{Entity: model.EntityChore, ID: 1, Name: "Vacuum"})

	rec = call(t, bin.Restore, "POST", "/", nil, model.MemberA, "entity", model.EntityChore, "id", "1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	active, err := stores.Chores.ListActive()
	require.NoError(t, err)
	assert.Len(t, active, 1)

	rec = call(t, bin.Restore, "POST", "/", nil, model.MemberA, "entity", model.EntityChore, "id", "1")
	assert.Equal(t, http.StatusNotFound, rec.Code, "already active")

	rec = call(t, bin.Purge, "DELETE", "/", nil, model.MemberA, "entity", model.EntityShopping, "id", "1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	got, err := stores.Shopping.GetByID(1)
	require.NoError(t, err)
	assert.Nil(t, got)

	rec = call(t, bin.Purge, "DELETE", "/", nil, model.MemberA, "entity", "pets", "id", "1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown entity", errorOf(t, rec))
}

func TestArchiveFilter(t *testing.T) {
	stores := setupStores(t)
	bin := NewRecycleBinHandler(stores, nil, testLogger())

	_, err := stores.Chores.Create("Vacuum", model.PriorityNormal, nil)
	require.NoError(t, err)
	_, err = stores.Chores.Complete(1, model.MemberA)
	require.NoError(t, err)
	_, err = stores.Events.Create("Party", "2026-01-01", "", "")
	require.NoError(t, err)
	require.NoError(t, stores.Events.SoftDelete(1, "a"))

	rec := call(t, bin.Archive, "GET", "/api/archive", nil, model.MemberA)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.ArchiveEntry](t, rec), 2)

	rec = call(t, bin.Archive, "GET", "/api/archive?entity=event", nil, model.MemberA)
	entries := decode[[]model.ArchiveEntry](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, "Party", entries[0].Label)

	rec = call(t, bin.Archive, "GET", "/api/archive?entity=event&limit=0", nil, model.MemberA)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, bin.Archive, "GET", "/api/archive?entity=pets", nil, model.MemberA)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummary(t *testing.T) {
	stores := setupStores(t)
	bin := NewRecycleBinHandler(stores, nil, testLogger())
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	bin.now = func() time.Time { return now }

	_, err := stores.Expenses.Create(decimal.NewFromInt(100), "power bill", model.MemberB, model.SplitEqual, decimal.Zero)
	require.NoError(t, err)
	_, err = stores.Events.Create("Vet", "2026-03-11", "", "")
	require.NoError(t, err)
	_, err = stores.Shopping.Create("milk", "", "")
	require.NoError(t, err)

	rec := call(t, bin.Summary, "GET", "/api/summary", nil, model.MemberA)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[model.Summary](t, rec)
	assert.Equal(t, "-50.00", sum.Balance)
	assert.Equal(t, 1, sum.UrgentEvents)
	assert.Len(t, sum.ReminderEvents, 1)
	assert.Equal(t, 1, sum.UnboughtItems)
	assert.Equal(t, 0, sum.OpenChores)
	assert.NotNil(t, sum.OverdueCatTasks)
}
