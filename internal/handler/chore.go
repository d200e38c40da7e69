package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/chore"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/store"
	"github.com/dukerupert/homebase/internal/websocket"
)

type ChoreHandler struct {
	lifecycle
	chores *store.ChoreStore
	names  Names
	now    func() time.Time
}

func NewChoreHandler(chores *store.ChoreStore, names Names, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{
		lifecycle: lifecycle{notifier: notifier{hub: hub}, table: chores, entity: model.EntityChore, logger: logger},
		chores:    chores,
		names:     names,
		now:       time.Now,
	}
}

type choreRequest struct {
	Name     *string `json:"name"`
	Priority *string `json:"priority"`
	// An empty due date clears it on update.
	DueDate *string `json:"due_date"`
}

func (req *choreRequest) validate() string {
	if req.Name != nil {
		n := strings.TrimSpace(*req.Name)
		if n == "" {
			return "name is required"
		}
		req.Name = &n
	}
	if req.Priority != nil && !model.Priority(*req.Priority).Valid() {
		return "priority must be urgent, high, normal or low"
	}
	if req.DueDate != nil && *req.DueDate != "" && !validDate(*req.DueDate) {
		return "due_date must be YYYY-MM-DD"
	}
	return ""
}

// List returns active chores with their status: open chores first, by
// priority, then due date.
func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	chores, err := h.chores.ListActive()
	if err != nil {
		writeStoreError(w, h.logger, err, "list chores")
		return
	}
	writeJSON(w, http.StatusOK, chore.WithStatus(chores, h.now(), h.names))
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	priority := model.PriorityNormal
	if req.Priority != nil {
		priority = model.Priority(*req.Priority)
	}
	due := req.DueDate
	if due != nil && *due == "" {
		due = nil
	}

	c, err := h.chores.Create(*req.Name, priority, due)
	if err != nil {
		writeStoreError(w, h.logger, err, "create chore")
		return
	}
	h.notify(r, model.EntityChore, "created", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req choreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var u model.ChoreUpdate
	u.Name = req.Name
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		u.Priority = &p
	}
	if req.DueDate != nil {
		due := req.DueDate
		if *due == "" {
			due = nil
		}
		u.DueDate = &due
	}

	c, err := h.chores.Update(id, u)
	if err != nil {
		writeStoreError(w, h.logger, err, "update chore")
		return
	}
	h.notify(r, model.EntityChore, "updated", id)
	writeJSON(w, http.StatusOK, c)
}

// Complete handles POST /api/chores/{id}/complete
func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	c, err := h.chores.Complete(id, auth.Member(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, err, "complete chore")
		return
	}
	h.notify(r, model.EntityChore, model.ActionCompleted, id)
	writeJSON(w, http.StatusOK, c)
}

// Uncomplete handles POST /api/chores/{id}/uncomplete
func (h *ChoreHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	c, err := h.chores.Uncomplete(id)
	if err != nil {
		writeStoreError(w, h.logger, err, "reopen chore")
		return
	}
	h.notify(r, model.EntityChore, "reopened", id)
	writeJSON(w, http.StatusOK, c)
}
