package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CreditDebit marks the direction of a transaction.
type CreditDebit string

const (
	Credit CreditDebit = "Credit"
	Debit  CreditDebit = "Debit"
)

// Transaction is a single booked movement on the applicant's account.
type Transaction struct {
	BookedAt    time.Time
	ID          string
	Category    string
	Description string
	Currency    string
	CreditDebit CreditDebit
	Amount      decimal.Decimal
}

// RecentTransactions returns at most limit transactions, most recently booked first.
// Transactions without a booking date keep their relative order after dated ones.
func RecentTransactions(txs []Transaction, limit int) []Transaction {
	if limit <= 0 || len(txs) == 0 {
		return []Transaction{}
	}

	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].BookedAt, sorted[j].BookedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted
}
