package ledger

import (
	"github.com/dukerupert/homebase/internal/model"
	"github.com/shopspring/decimal"
)

// Balance nets the expenses into one signed amount. Positive means member A
// is owed by member B; negative means A owes B. The payer's own share is
// owed to nobody; the other member's share is owed to the payer.
func Balance(expenses []model.Expense) decimal.Decimal {
	owedToA := decimal.Zero
	owedToB := decimal.Zero
	for _, e := range expenses {
		if e.Payer == model.MemberA {
			owedToA = owedToA.Add(e.MemberBShare)
		} else {
			owedToB = owedToB.Add(e.MemberAShare)
		}
	}
	return owedToA.Sub(owedToB)
}

// Settled reports whether a balance is within a cent of zero.
func Settled(balance decimal.Decimal) bool {
	return balance.Abs().LessThan(decimal.New(1, -2))
}

// Debtor returns who owes whom for a non-settled balance.
func Debtor(balance decimal.Decimal) (debtor, creditor model.Member) {
	if balance.IsPositive() {
		return model.MemberB, model.MemberA
	}
	return model.MemberA, model.MemberB
}

// Describe renders a balance for people, e.g. "Romi owes Talor 12.50".
func Describe(balance decimal.Decimal, names map[model.Member]string) string {
	if Settled(balance) {
		return "all settled"
	}
	debtor, creditor := Debtor(balance)
	return names[debtor] + " owes " + names[creditor] + " " + balance.Abs().StringFixed(2)
}
