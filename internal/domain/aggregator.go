package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountData is the applicant bundle as delivered by the banking-data
// aggregator. Every section is optional; NormalizeProfile fills the gaps.
type AccountData struct {
	IncomeInsights   *IncomeInsights   `json:"incomeInsights,omitempty"`
	SpendingInsights *SpendingInsights `json:"spendingInsights,omitempty"`
	AccountBalance   *AccountBalance   `json:"accountBalance,omitempty"`
	BalanceInsights  *BalanceInsights  `json:"balanceInsights,omitempty"`
	Transactions     []RawTransaction  `json:"transactions,omitempty"`
}

// RawTransaction is one aggregator transaction record.
type RawTransaction struct {
	Amount                 *MoneyAmount `json:"amount,omitempty"`
	TransactionID          string       `json:"transactionId,omitempty"`
	Type                   string       `json:"type,omitempty"`
	TransactionType        string       `json:"transactionType,omitempty"`
	SubTransactionType     string       `json:"subTransactionType,omitempty"`
	TransactionDescription string       `json:"transactionDescription,omitempty"`
	CreditDebitIndicator   string       `json:"creditDebitIndicator,omitempty"`
	BookingDateTime        string       `json:"bookingDateTime,omitempty"`
}

// MoneyAmount is an aggregator amount. Values arrive either as JSON numbers
// or as decimal strings.
type MoneyAmount struct {
	Currency string              `json:"currency,omitempty"`
	Value    decimal.NullDecimal `json:"value"`
}

// RecurringSummary describes a recurring credit or debit stream.
type RecurringSummary struct {
	StreamDescriptionPattern string              `json:"streamDescriptionPattern,omitempty"`
	StreamType               string              `json:"streamType,omitempty"`
	Frequency                string              `json:"frequency,omitempty"`
	AvgAmount                decimal.NullDecimal `json:"avgAmount"`
}

// IncomeInsights carries recurring credit streams, either per account or flat.
type IncomeInsights struct {
	Accounts               []IncomeAccount    `json:"accounts,omitempty"`
	RecurringCreditSummary []RecurringSummary `json:"recurringCreditSummary,omitempty"`
}

// IncomeAccount is the per-account income breakdown.
type IncomeAccount struct {
	AccountID              string             `json:"accountId,omitempty"`
	AccountCurrency        string             `json:"accountCurrency,omitempty"`
	RecurringCreditSummary []RecurringSummary `json:"recurringCreditSummary,omitempty"`
}

// SpendingInsights carries recurring debit streams, either per account or flat.
type SpendingInsights struct {
	Accounts              []SpendingAccount  `json:"accounts,omitempty"`
	RecurringDebitSummary []RecurringSummary `json:"recurringDebitSummary,omitempty"`
}

// SpendingAccount is the per-account spending breakdown.
type SpendingAccount struct {
	AccountID             string             `json:"accountId,omitempty"`
	AccountCurrency       string             `json:"accountCurrency,omitempty"`
	RecurringDebitSummary []RecurringSummary `json:"recurringDebitSummary,omitempty"`
}

// AccountBalance lists the balances reported for the account.
type AccountBalance struct {
	Balances []Balance `json:"balances,omitempty"`
}

// Balance is one typed balance (e.g. ClosingAvailable).
type Balance struct {
	Amount *MoneyAmount `json:"amount,omitempty"`
	Type   string       `json:"type,omitempty"`
}

// BalanceInsights carries the balance trend label.
type BalanceInsights struct {
	Trend string `json:"trend,omitempty"`
}

// NormalizeProfile is the single default-filling step of the pipeline. It
// reads the aggregator bundle through the following paths and substitutes
// the listed default when a path is absent or null:
//
//	path                                                         default
//	incomeInsights.accounts[0].recurringCreditSummary[0].avgAmount  -> incomeInsights.recurringCreditSummary[0].avgAmount -> 0 (Missing)
//	spendingInsights.accounts[0].recurringDebitSummary[0].avgAmount -> spendingInsights.recurringDebitSummary[0].avgAmount -> 0 (Missing)
//	accountBalance.balances[0].amount.value                        0 (Missing)
//	balanceInsights.trend                                          neutral (Missing when absent or unrecognised)
//	transactions[]                                                 [] ; per record: missing text fields -> "", missing amount -> 0, bad date -> zero time
//
// Every downstream component may assume a fully populated profile.
func NormalizeProfile(data *AccountData) FinancialProfile {
	profile := FinancialProfile{
		Transactions:       []Transaction{},
		MonthlyIncome:      MissingAmount(),
		MonthlyDebt:        MissingAmount(),
		CurrentBalance:     MissingAmount(),
		BalanceTrend:       TrendNeutral,
		BalanceTrendStatus: FieldMissing,
	}
	if data == nil {
		return profile
	}

	if v, ok := incomeAmount(data.IncomeInsights); ok {
		profile.MonthlyIncome = PresentAmount(v)
	}
	if v, ok := debtAmount(data.SpendingInsights); ok {
		profile.MonthlyDebt = PresentAmount(v)
	}
	if v, ok := balanceAmount(data.AccountBalance); ok {
		profile.CurrentBalance = PresentAmount(v)
	}
	if data.BalanceInsights != nil {
		if trend, ok := ParseBalanceTrend(data.BalanceInsights.Trend); ok {
			profile.BalanceTrend = trend
			profile.BalanceTrendStatus = FieldPresent
		}
	}

	for _, raw := range data.Transactions {
		profile.Transactions = append(profile.Transactions, normalizeTransaction(raw))
	}

	return profile
}

func incomeAmount(in *IncomeInsights) (decimal.Decimal, bool) {
	if in == nil {
		return decimal.Zero, false
	}
	if len(in.Accounts) > 0 {
		if v, ok := firstAvg(in.Accounts[0].RecurringCreditSummary); ok {
			return v, true
		}
	}
	return firstAvg(in.RecurringCreditSummary)
}

func debtAmount(sp *SpendingInsights) (decimal.Decimal, bool) {
	if sp == nil {
		return decimal.Zero, false
	}
	if len(sp.Accounts) > 0 {
		if v, ok := firstAvg(sp.Accounts[0].RecurringDebitSummary); ok {
			return v, true
		}
	}
	return firstAvg(sp.RecurringDebitSummary)
}

func balanceAmount(ab *AccountBalance) (decimal.Decimal, bool) {
	if ab == nil || len(ab.Balances) == 0 || ab.Balances[0].Amount == nil {
		return decimal.Zero, false
	}
	v := ab.Balances[0].Amount.Value
	return v.Decimal, v.Valid
}

func firstAvg(streams []RecurringSummary) (decimal.Decimal, bool) {
	if len(streams) == 0 || !streams[0].AvgAmount.Valid {
		return decimal.Zero, false
	}
	return streams[0].AvgAmount.Decimal, true
}

func normalizeTransaction(raw RawTransaction) Transaction {
	tx := Transaction{
		ID:          raw.TransactionID,
		Category:    raw.Type,
		Description: raw.TransactionDescription,
		CreditDebit: CreditDebit(raw.CreditDebitIndicator),
		Amount:      decimal.Zero,
	}
	if tx.Category == "" {
		tx.Category = raw.TransactionType
	}
	if raw.Amount != nil {
		tx.Currency = raw.Amount.Currency
		if raw.Amount.Value.Valid {
			tx.Amount = raw.Amount.Value.Decimal
		}
	}
	if raw.BookingDateTime != "" {
		if at, err := time.Parse(time.RFC3339, raw.BookingDateTime); err == nil {
			tx.BookedAt = at.UTC()
		}
	}
	return tx
}
