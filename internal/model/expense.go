package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitPolicy decides how an expense amount is divided between the members.
type SplitPolicy string

const (
	SplitEqual  SplitPolicy = "equal"
	SplitSelf   SplitPolicy = "self"  // payer carries the whole amount
	SplitOther  SplitPolicy = "other" // the other member carries the whole amount
	SplitCustom SplitPolicy = "custom"
)

func (p SplitPolicy) Valid() bool {
	switch p {
	case SplitEqual, SplitSelf, SplitOther, SplitCustom:
		return true
	}
	return false
}

type Expense struct {
	ID           int64           `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Payer        Member          `json:"payer"`
	SplitType    SplitPolicy     `json:"split_type"`
	MemberAPct   decimal.Decimal `json:"member_a_pct"`
	MemberAShare decimal.Decimal `json:"member_a_share"`
	MemberBShare decimal.Decimal `json:"member_b_share"`
	IsDeleted    bool            `json:"is_deleted"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ExpenseUpdate carries the editable expense fields. Changing the amount
// re-derives the shares from the stored split policy.
type ExpenseUpdate struct {
	Amount      *decimal.Decimal
	Description *string
}
