package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tells whether an entry adds to or subtracts from the wallet.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Wire names used by the wallet clients for each kind.
const (
	wireIncome  = "input"
	wireExpense = "output"
)

// ParseKind maps a client-supplied type to a Kind. Both the canonical names
// and the client wire names are accepted, matched exactly.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case string(KindIncome), wireIncome:
		return KindIncome, true
	case string(KindExpense), wireExpense:
		return KindExpense, true
	}
	return "", false
}

// Wire returns the name clients expect in the "type" field.
func (k Kind) Wire() string {
	if k == KindIncome {
		return wireIncome
	}
	return wireExpense
}

// Entry represents a single income or expense record owned by one user.
type Entry struct {
	ID          int64
	UserID      int64
	Kind        Kind
	Amount      decimal.Decimal
	Description string
	CreatedOn   string
	CreatedAt   time.Time
}

// CreatedOnLayout is the day/month label stamped on new entries.
const CreatedOnLayout = "02/01"
