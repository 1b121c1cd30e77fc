package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FieldStatus records whether an input was supplied by the aggregator.
type FieldStatus string

const (
	FieldPresent FieldStatus = "Present"
	FieldMissing FieldStatus = "Missing"
)

// BalanceTrend is the direction of the account balance over the insight window.
type BalanceTrend string

const (
	TrendPositive BalanceTrend = "positive"
	TrendNegative BalanceTrend = "negative"
	TrendNeutral  BalanceTrend = "neutral"
)

// ParseBalanceTrend maps an aggregator trend label onto a BalanceTrend.
// "stable" is treated as neutral. Unknown labels report ok=false.
func ParseBalanceTrend(s string) (BalanceTrend, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return TrendPositive, true
	case "negative":
		return TrendNegative, true
	case "neutral", "stable":
		return TrendNeutral, true
	default:
		return TrendNeutral, false
	}
}

// Amount is a monetary input together with its presence status.
type Amount struct {
	Value  decimal.Decimal `json:"amount"`
	Status FieldStatus     `json:"status"`
}

// PresentAmount wraps a supplied value.
func PresentAmount(v decimal.Decimal) Amount {
	return Amount{Value: v, Status: FieldPresent}
}

// MissingAmount is the zero default for an absent value.
func MissingAmount() Amount {
	return Amount{Value: decimal.Zero, Status: FieldMissing}
}

// FinancialProfile is the fully populated snapshot every pipeline stage reads.
// It is built once per evaluation by NormalizeProfile and never mutated.
type FinancialProfile struct {
	Transactions       []Transaction
	MonthlyIncome      Amount
	MonthlyDebt        Amount
	CurrentBalance     Amount
	BalanceTrend       BalanceTrend
	BalanceTrendStatus FieldStatus
}
