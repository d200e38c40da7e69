package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/ledger"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/store"
	"github.com/dukerupert/homebase/internal/websocket"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type ExpenseHandler struct {
	lifecycle
	expenses *store.ExpenseStore
	names    Names
}

func NewExpenseHandler(expenses *store.ExpenseStore, names Names, hub *websocket.Hub, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		lifecycle: lifecycle{notifier: notifier{hub: hub}, table: expenses, entity: model.EntityExpense, logger: logger},
		expenses:  expenses,
		names:     names,
	}
}

type expenseRequest struct {
	Amount      *decimal.Decimal  `json:"amount"`
	Description *string           `json:"description"`
	Payer       model.Member      `json:"payer"`
	SplitType   model.SplitPolicy `json:"split_type"`
	MemberAPct  *decimal.Decimal  `json:"member_a_pct"`
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.ListActive()
	if err != nil {
		writeStoreError(w, h.logger, err, "list expenses")
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// Create records an expense. The payer defaults to the session member and
// the split to equal.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Amount == nil || req.Amount.IsNegative() {
		writeError(w, http.StatusBadRequest, "amount must be zero or more")
		return
	}
	if req.Description == nil || strings.TrimSpace(*req.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.Payer == "" {
		req.Payer = auth.Member(r.Context())
	}
	if !req.Payer.Valid() {
		writeError(w, http.StatusBadRequest, "payer must be a or b")
		return
	}
	if req.SplitType == "" {
		req.SplitType = model.SplitEqual
	}
	if !req.SplitType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown split type")
		return
	}
	pct := decimal.Zero
	if req.SplitType == model.SplitCustom {
		if req.MemberAPct == nil || req.MemberAPct.IsNegative() || req.MemberAPct.GreaterThan(hundred) {
			writeError(w, http.StatusBadRequest, "member_a_pct must be between 0 and 100")
			return
		}
		pct = *req.MemberAPct
	}

	exp, err := h.expenses.Create(*req.Amount, strings.TrimSpace(*req.Description), req.Payer, req.SplitType, pct)
	if err != nil {
		writeStoreError(w, h.logger, err, "create expense")
		return
	}
	h.notify(r, model.EntityExpense, "created", exp.ID)
	writeJSON(w, http.StatusCreated, exp)
}

// Update changes the description or amount. Payer and split are fixed once
// recorded.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Payer != "" || req.SplitType != "" || req.MemberAPct != nil {
		writeError(w, http.StatusBadRequest, "payer and split cannot be changed")
		return
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		writeError(w, http.StatusBadRequest, "amount must be zero or more")
		return
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			writeError(w, http.StatusBadRequest, "description is required")
			return
		}
		req.Description = &d
	}

	exp, err := h.expenses.Update(id, model.ExpenseUpdate{Amount: req.Amount, Description: req.Description})
	if err != nil {
		writeStoreError(w, h.logger, err, "update expense")
		return
	}
	h.notify(r, model.EntityExpense, "updated", id)
	writeJSON(w, http.StatusOK, exp)
}

type balanceResponse struct {
	Balance  string        `json:"balance"`
	Amount   string        `json:"amount"`
	Creditor *model.Member `json:"creditor"`
	Debtor   *model.Member `json:"debtor"`
	Settled  bool          `json:"settled"`
	Message  string        `json:"message"`
}

// Balance handles GET /api/balance. A positive balance means member A is owed.
func (h *ExpenseHandler) Balance(w http.ResponseWriter, r *http.Request) {
	bal, err := h.expenses.Balance()
	if err != nil {
		writeStoreError(w, h.logger, err, "calculate balance")
		return
	}
	writeJSON(w, http.StatusOK, describeBalance(bal, h.names))
}

func describeBalance(bal decimal.Decimal, names Names) balanceResponse {
	resp := balanceResponse{
		Balance: bal.StringFixed(2),
		Amount:  bal.Abs().StringFixed(2),
		Settled: ledger.Settled(bal),
		Message: ledger.Describe(bal, names),
	}
	if !resp.Settled {
		debtor, creditor := ledger.Debtor(bal)
		resp.Creditor, resp.Debtor = &creditor, &debtor
	}
	return resp
}
