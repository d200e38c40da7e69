package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/dukerupert/homebase/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatTaskCreateIsIdempotentByName(t *testing.T) {
	stores := setupStores(t)
	h := NewCatTaskHandler(stores.CatTasks, testNames, nil, testLogger())

	body := map[string]any{"task_name": "Feed", "frequency_hours": 12}
	rec := call(t, h.Create, "POST", "/api/cat-tasks", body, model.MemberA)
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[catTaskView](t, rec)
	assert.True(t, first.Overdue, "never-done task is overdue")
	assert.Equal(t, "never", first.Since)

	rec = call(t, h.Create, "POST", "/api/cat-tasks", map[string]any{"task_name": "Feed", "frequency_hours": 48}, model.MemberA)
	require.Equal(t, http.StatusOK, rec.Code)
	again := decode[catTaskView](t, rec)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 12, again.FrequencyHours)
}

func TestCatTaskCreateNameInRecycleBin(t *testing.T) {
	stores := setupStores(t)
	h := NewCatTaskHandler(stores.CatTasks, testNames, nil, testLogger())

	feed, _, err := stores.CatTasks.Create("Feed", 12)
	require.NoError(t, err)
	require.NoError(t, stores.CatTasks.SoftDelete(feed.ID, "a"))

	rec := call(t, h.Create, "POST", "/api/cat-tasks", map[string]any{"task_name": "Feed", "frequency_hours": 12}, model.MemberA)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "recycle bin")

	rec = call(t, h.List, "GET", "/api/cat-tasks", nil, model.MemberA)
	assert.Empty(t, decode[[]catTaskView](t, rec))
}

func TestCatTaskCompleteAndList(t *testing.T) {
	stores := setupStores(t)
	h := NewCatTaskHandler(stores.CatTasks, testNames, nil, testLogger())

	_, _, err := stores.CatTasks.Create("Litter", 24)
	require.NoError(t, err)

	rec := call(t, h.Complete, "POST", "/", nil, model.MemberA, "id", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	done := decode[catTaskView](t, rec)
	assert.False(t, done.Overdue)
	assert.Equal(t, "Talor", done.DoneByName)
	require.NotNil(t, done.NextDue)

	h.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	rec = call(t, h.List, "GET", "/api/cat-tasks", nil, model.MemberA)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]catTaskView](t, rec)
	require.Len(t, list, 1)
	assert.True(t, list[0].Overdue)
	assert.Equal(t, "1 day ago", list[0].Since)
}

func TestCatTaskUpdate(t *testing.T) {
	stores := setupStores(t)
	h := NewCatTaskHandler(stores.CatTasks, testNames, nil, testLogger())

	_, _, err := stores.CatTasks.Create("Feed", 12)
	require.NoError(t, err)
	_, _, err = stores.CatTasks.Create("Brush", 72)
	require.NoError(t, err)

	rec := call(t, h.Update, "PATCH", "/", map[string]any{"frequency_hours": 8}, model.MemberA, "id", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, decode[catTaskView](t, rec).FrequencyHours)

	rec = call(t, h.Update, "PATCH", "/", map[string]any{"task_name": "Brush"}, model.MemberA, "id", "1")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h.Update, "PATCH", "/", map[string]any{"frequency_hours": 0}, model.MemberA, "id", "1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
