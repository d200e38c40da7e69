// Package handler exposes the household lists as a JSON API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/store"
	"github.com/dukerupert/homebase/internal/websocket"
)

// Names maps members to their display names.
type Names map[model.Member]string

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store sentinels to client errors and logs the rest.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrUnknownEntity):
		writeError(w, http.StatusBadRequest, "unknown entity")
	case errors.Is(err, store.ErrDuplicateName):
		writeError(w, http.StatusConflict, "name already exists")
	case errors.Is(err, store.ErrInRecycleBin):
		writeError(w, http.StatusConflict, "name is in the recycle bin; restore it from there")
	default:
		logger.Error(action, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<16))
	return dec.Decode(v)
}

func validDate(s string) bool {
	_, err := time.Parse(model.DateLayout, s)
	return err == nil
}

func validClock(s string) bool {
	_, err := time.Parse(model.ClockLayout, s)
	return err == nil
}

// notifier pushes invalidation messages to connected clients.
type notifier struct {
	hub *websocket.Hub
}

func (n notifier) notify(r *http.Request, entity, action string, id int64) {
	if n.hub != nil {
		n.hub.Broadcast(websocket.Invalidate(entity, action, id, string(auth.Member(r.Context()))))
	}
}

// lifecycle serves the soft-delete route every entity shares.
type lifecycle struct {
	notifier
	table  store.Lifecycle
	entity string
	logger *slog.Logger
}

func (l lifecycle) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := l.table.SoftDelete(id, string(auth.Member(r.Context()))); err != nil {
		writeStoreError(w, l.logger, err, "delete "+l.entity)
		return
	}
	l.notify(r, l.entity, model.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
