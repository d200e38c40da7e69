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

// maxFrequencyHours caps recurring tasks at one year.
const maxFrequencyHours = 24 * 366

type CatTaskHandler struct {
	lifecycle
	tasks *store.CatTaskStore
	names Names
	now   func() time.Time
}

func NewCatTaskHandler(tasks *store.CatTaskStore, names Names, hub *websocket.Hub, logger *slog.Logger) *CatTaskHandler {
	return &CatTaskHandler{
		lifecycle: lifecycle{notifier: notifier{hub: hub}, table: tasks, entity: model.EntityCatTask, logger: logger},
		tasks:     tasks,
		names:     names,
		now:       time.Now,
	}
}

type catTaskView struct {
	model.CatTask
	Overdue    bool       `json:"overdue"`
	Since      string     `json:"since"`
	NextDue    *time.Time `json:"next_due"`
	DoneByName string     `json:"done_by_name,omitempty"`
}

func (h *CatTaskHandler) view(t model.CatTask, now time.Time) catTaskView {
	v := catTaskView{
		CatTask: t,
		Overdue: chore.IsOverdue(t.LastDoneAt, t.FrequencyHours, now),
		Since:   chore.Since(t.LastDoneAt, now),
		NextDue: chore.NextDue(t.LastDoneAt, t.FrequencyHours),
	}
	if t.DoneBy != nil {
		v.DoneByName = h.names[*t.DoneBy]
	}
	return v
}

type catTaskRequest struct {
	TaskName       *string `json:"task_name"`
	FrequencyHours *int    `json:"frequency_hours"`
}

func (req *catTaskRequest) validate() string {
	if req.TaskName != nil {
		n := strings.TrimSpace(*req.TaskName)
		if n == "" {
			return "task_name is required"
		}
		req.TaskName = &n
	}
	if req.FrequencyHours != nil && (*req.FrequencyHours < 1 || *req.FrequencyHours > maxFrequencyHours) {
		return "frequency_hours must be between 1 and 8784"
	}
	return ""
}

func (h *CatTaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListActive()
	if err != nil {
		writeStoreError(w, h.logger, err, "list cat tasks")
		return
	}
	now := h.now()
	out := make([]catTaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, h.view(t, now))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create adds a task. An existing name returns the stored task with 200
// instead of 201. A name held by a deleted task is a conflict.
func (h *CatTaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.TaskName == nil || req.FrequencyHours == nil {
		writeError(w, http.StatusBadRequest, "task_name and frequency_hours are required")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task, created, err := h.tasks.Create(*req.TaskName, *req.FrequencyHours)
	if err != nil {
		writeStoreError(w, h.logger, err, "create cat task")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.notify(r, model.EntityCatTask, "created", task.ID)
	}
	writeJSON(w, status, h.view(*task, h.now()))
}

func (h *CatTaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req catTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task, err := h.tasks.Update(id, model.CatTaskUpdate{TaskName: req.TaskName, FrequencyHours: req.FrequencyHours})
	if err != nil {
		writeStoreError(w, h.logger, err, "update cat task")
		return
	}
	h.notify(r, model.EntityCatTask, "updated", id)
	writeJSON(w, http.StatusOK, h.view(*task, h.now()))
}

// Complete handles POST /api/cat-tasks/{id}/complete
func (h *CatTaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	task, err := h.tasks.Complete(id, auth.Member(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, err, "complete cat task")
		return
	}
	h.notify(r, model.EntityCatTask, model.ActionCompleted, id)
	writeJSON(w, http.StatusOK, h.view(*task, h.now()))
}
