package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/shopping"
	"github.com/dukerupert/homebase/internal/store"
	"github.com/dukerupert/homebase/internal/websocket"
)

type ShoppingHandler struct {
	lifecycle
	items *store.ShoppingStore
}

func NewShoppingHandler(items *store.ShoppingStore, hub *websocket.Hub, logger *slog.Logger) *ShoppingHandler {
	n := notifier{hub: hub}
	return &ShoppingHandler{
		lifecycle: lifecycle{notifier: n, table: items, entity: model.EntityShopping, logger: logger},
		items:     items,
	}
}

type shoppingRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Quantity *string `json:"quantity"`
	Bought   *bool   `json:"bought"`
}

func (req shoppingRequest) validate() string {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return "name is required"
	}
	if req.Category != nil && *req.Category != "" && !shopping.ValidCategory(*req.Category) {
		return "unknown category"
	}
	return ""
}

func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListActive()
	if err != nil {
		writeStoreError(w, h.logger, err, "list shopping items")
		return
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Categories handles GET /api/shopping/categories
func (h *ShoppingHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, shopping.Categories)
}

func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shoppingRequest
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

	var category, quantity string
	if req.Category != nil {
		category = *req.Category
	}
	if req.Quantity != nil {
		quantity = strings.TrimSpace(*req.Quantity)
	}

	item, err := h.items.Create(*req.Name, category, quantity)
	if err != nil {
		writeStoreError(w, h.logger, err, "create shopping item")
		return
	}
	h.notify(r, model.EntityShopping, "created", item.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (h *ShoppingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req shoppingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.items.Update(id, model.ShoppingItemUpdate{
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		Bought:   req.Bought,
	})
	if err != nil {
		writeStoreError(w, h.logger, err, "update shopping item")
		return
	}
	h.notify(r, model.EntityShopping, "updated", id)
	writeJSON(w, http.StatusOK, item)
}

// ToggleBought handles POST /api/shopping/{id}/bought
func (h *ShoppingHandler) ToggleBought(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	cur, err := h.items.GetByID(id)
	if err != nil {
		writeStoreError(w, h.logger, err, "get shopping item")
		return
	}
	if cur == nil || cur.IsDeleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	item, err := h.items.SetBought(id, !cur.Bought)
	if err != nil {
		writeStoreError(w, h.logger, err, "toggle shopping item")
		return
	}
	h.notify(r, model.EntityShopping, "updated", id)
	writeJSON(w, http.StatusOK, item)
}

// ClearBought handles POST /api/shopping/clear-bought
func (h *ShoppingHandler) ClearBought(w http.ResponseWriter, r *http.Request) {
	n, err := h.items.ClearBought(string(auth.Member(r.Context())))
	if err != nil {
		writeStoreError(w, h.logger, err, "clear bought items")
		return
	}
	if n > 0 {
		h.notify(r, model.EntityShopping, "cleared", 0)
	}
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}
