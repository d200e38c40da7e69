package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/homebase/internal/calendar"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/store"
	"github.com/dukerupert/homebase/internal/websocket"
)

type EventHandler struct {
	lifecycle
	events *store.EventStore
	names  Names
	now    func() time.Time
}

func NewEventHandler(events *store.EventStore, names Names, hub *websocket.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		lifecycle: lifecycle{notifier: notifier{hub: hub}, table: events, entity: model.EntityEvent, logger: logger},
		events:    events,
		names:     names,
		now:       time.Now,
	}
}

type eventRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Description *string `json:"description"`
}

func (req *eventRequest) validate() string {
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return "title is required"
		}
		req.Title = &t
	}
	if req.Date != nil && !validDate(*req.Date) {
		return "date must be YYYY-MM-DD"
	}
	if req.Time != nil && *req.Time != "" && !validClock(*req.Time) {
		return "time must be HH:MM"
	}
	return ""
}

// List handles GET /api/events, optionally bounded by ?from=&to= dates.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")

	var events []model.Event
	var err error
	switch {
	case from == "" && to == "":
		events, err = h.events.ListActive()
	case validDate(from) && validDate(to):
		events, err = h.events.ListRange(from, to)
	default:
		writeError(w, http.StatusBadRequest, "from and to must both be YYYY-MM-DD")
		return
	}
	if err != nil {
		writeStoreError(w, h.logger, err, "list events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Title == nil {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Date == nil {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var clock, desc string
	if req.Time != nil {
		clock = *req.Time
	}
	if req.Description != nil {
		desc = *req.Description
	}

	ev, err := h.events.Create(*req.Title, *req.Date, clock, desc)
	if err != nil {
		writeStoreError(w, h.logger, err, "create event")
		return
	}
	h.notify(r, model.EntityEvent, "created", ev.ID)
	writeJSON(w, http.StatusCreated, ev)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ev, err := h.events.Update(id, model.EventUpdate{
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
	})
	if err != nil {
		writeStoreError(w, h.logger, err, "update event")
		return
	}
	h.notify(r, model.EntityEvent, "updated", id)
	writeJSON(w, http.StatusOK, ev)
}

// Calendar handles GET /api/events.ics, the active events as an iCalendar
// feed for phone calendar apps.
func (h *EventHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListActive()
	if err != nil {
		writeStoreError(w, h.logger, err, "list events")
		return
	}
	name := h.names[model.MemberA] + " & " + h.names[model.MemberB]
	feed := calendar.Feed(events, name, time.Local, h.now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="homebase.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(feed))
}
