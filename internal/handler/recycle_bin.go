package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/store"
	"github.com/dukerupert/homebase/internal/websocket"
)

var knownEntities = map[string]bool{
	model.EntityShopping: true,
	model.EntityExpense:  true,
	model.EntityEvent:    true,
	model.EntityChore:    true,
	model.EntityCatTask:  true,
}

// RecycleBinHandler serves the cross-entity recycle bin, the archive log and
// the dashboard summary.
type RecycleBinHandler struct {
	notifier
	stores *store.Stores
	logger *slog.Logger
	now    func() time.Time
}

func NewRecycleBinHandler(stores *store.Stores, hub *websocket.Hub, logger *slog.Logger) *RecycleBinHandler {
	return &RecycleBinHandler{
		notifier: notifier{hub: hub},
		stores:   stores,
		logger:   logger,
		now:      time.Now,
	}
}

// List handles GET /api/recycle-bin
func (h *RecycleBinHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.stores.Bin.List()
	if err != nil {
		writeStoreError(w, h.logger, err, "list recycle bin")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Restore handles POST /api/recycle-bin/{entity}/{id}/restore
func (h *RecycleBinHandler) Restore(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.stores.Bin.Restore(entity, id); err != nil {
		writeStoreError(w, h.logger, err, "restore "+entity)
		return
	}
	h.notify(r, entity, model.ActionRestored, id)
	w.WriteHeader(http.StatusNoContent)
}

// Purge handles DELETE /api/recycle-bin/{entity}/{id}
func (h *RecycleBinHandler) Purge(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.stores.Bin.Purge(entity, id); err != nil {
		writeStoreError(w, h.logger, err, "purge "+entity)
		return
	}
	h.notify(r, entity, model.ActionPurged, id)
	w.WriteHeader(http.StatusNoContent)
}

// Archive handles GET /api/archive?entity=&limit=
func (h *RecycleBinHandler) Archive(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	if entity != "" && !knownEntities[entity] {
		writeError(w, http.StatusBadRequest, "unknown entity")
		return
	}
	limit := store.MaxArchiveEntries
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.stores.Archive.List(entity, limit)
	if err != nil {
		writeStoreError(w, h.logger, err, "list archive")
		return
	}
	if entries == nil {
		entries = []model.ArchiveEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Summary handles GET /api/summary
func (h *RecycleBinHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.stores.Summary(h.now())
	if err != nil {
		writeStoreError(w, h.logger, err, "build summary")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
