// Package ledger divides shared expenses between the two household members
// and nets them into a single balance.
package ledger

import (
	"fmt"

	"github.com/dukerupert/homebase/internal/model"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Shares holds the portion of an expense each member carries.
type Shares struct {
	A decimal.Decimal
	B decimal.Decimal
}

// Split computes member shares for amount under policy. pctA is member A's
// percentage and is only read for SplitCustom. Shares always sum to amount:
// the odd cent of an equal split goes to the payer, and the custom split
// gives B whatever A does not carry.
func Split(amount decimal.Decimal, policy model.SplitPolicy, payer model.Member, pctA decimal.Decimal) (Shares, error) {
	if amount.IsNegative() {
		return Shares{}, fmt.Errorf("amount %s is negative", amount)
	}
	if !payer.Valid() {
		return Shares{}, fmt.Errorf("unknown payer %q", payer)
	}

	var payerShare, otherShare decimal.Decimal
	switch policy {
	case model.SplitEqual:
		otherShare = amount.Div(two).RoundDown(2)
		payerShare = amount.Sub(otherShare)
	case model.SplitSelf:
		payerShare, otherShare = amount, decimal.Zero
	case model.SplitOther:
		payerShare, otherShare = decimal.Zero, amount
	case model.SplitCustom:
		if pctA.LessThan(decimal.Zero) || pctA.GreaterThan(hundred) {
			return Shares{}, fmt.Errorf("percentage %s out of range", pctA)
		}
		a := amount.Mul(pctA).Div(hundred).Round(2)
		return Shares{A: a, B: amount.Sub(a)}, nil
	default:
		return Shares{}, fmt.Errorf("unknown split policy %q", policy)
	}

	if payer == model.MemberA {
		return Shares{A: payerShare, B: otherShare}, nil
	}
	return Shares{A: otherShare, B: payerShare}, nil
}

// DefaultPct returns the member A percentage recorded for a policy that is
// not custom.
func DefaultPct(policy model.SplitPolicy, payer model.Member) decimal.Decimal {
	switch policy {
	case model.SplitSelf:
		if payer == model.MemberA {
			return hundred
		}
		return decimal.Zero
	case model.SplitOther:
		if payer == model.MemberA {
			return decimal.Zero
		}
		return hundred
	}
	return decimal.NewFromInt(50)
}
