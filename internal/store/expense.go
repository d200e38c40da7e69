package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/homebase/internal/ledger"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/shopspring/decimal"
)

const expenseCols = `id, amount, description, payer, split_type, member_a_pct, member_a_share, member_b_share, is_deleted, created_at`

func scanExpense(sc scanner) (*model.Expense, error) {
	var e model.Expense
	var desc sql.NullString
	var deleted int
	err := sc.Scan(&e.ID, &e.Amount, &desc, &e.Payer, &e.SplitType, &e.MemberAPct,
		&e.MemberAShare, &e.MemberBShare, &deleted, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Description = desc.String
	e.IsDeleted = deleted != 0
	return &e, nil
}

type ExpenseStore struct {
	entityTable[model.Expense]
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{entityTable[model.Expense]{
		db:      db,
		entity:  model.EntityExpense,
		table:   "expenses",
		cols:    expenseCols,
		label:   "description",
		orderBy: "created_at DESC, id DESC",
		scan:    scanExpense,
	}}
}

// Create records an expense and fixes both member shares at insert time.
// pctA is member A's percentage and is only read for custom splits.
func (s *ExpenseStore) Create(amount decimal.Decimal, description string, payer model.Member, policy model.SplitPolicy, pctA decimal.Decimal) (*model.Expense, error) {
	if policy != model.SplitCustom {
		pctA = ledger.DefaultPct(policy, payer)
	}
	shares, err := ledger.Split(amount, policy, payer, pctA)
	if err != nil {
		return nil, fmt.Errorf("split expense: %w", err)
	}
	id, err := s.insert(`amount, description, payer, split_type, member_a_pct, member_a_share, member_b_share`,
		amount.String(), description, string(payer), string(policy), pctA.String(), shares.A.String(), shares.B.String())
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Update changes description and amount. A new amount is split again with
// the policy, payer and percentage stored on the expense.
func (s *ExpenseStore) Update(id int64, u model.ExpenseUpdate) (*model.Expense, error) {
	var sets []string
	var args []any
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Amount != nil {
		cur, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if cur == nil || cur.IsDeleted {
			return nil, fmt.Errorf("update expense %d: %w", id, ErrNotFound)
		}
		shares, err := ledger.Split(*u.Amount, cur.SplitType, cur.Payer, cur.MemberAPct)
		if err != nil {
			return nil, fmt.Errorf("split expense: %w", err)
		}
		sets = append(sets, "amount = ?", "member_a_share = ?", "member_b_share = ?")
		args = append(args, u.Amount.String(), shares.A.String(), shares.B.String())
	}
	if err := s.update(id, sets, args); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Balance nets all active expenses. Positive means member A is owed.
func (s *ExpenseStore) Balance() (decimal.Decimal, error) {
	expenses, err := s.ListActive()
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.Balance(expenses), nil
}
