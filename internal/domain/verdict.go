package domain

import "github.com/shopspring/decimal"

// Verdict is the rule engine's binary outcome.
type Verdict string

const (
	VerdictApprove Verdict = "Approve"
	VerdictReject  Verdict = "Reject"
)

// RuleCheck is the audit record of one threshold rule.
type RuleCheck struct {
	Rule      string  `json:"rule"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Passed    bool    `json:"passed"`
}

// TrendExplanation is the balance trend input and its presence status.
type TrendExplanation struct {
	Value  BalanceTrend `json:"value"`
	Status FieldStatus  `json:"status"`
}

// RuleExplanation lists every input and check behind a RuleVerdict, not just
// the rule that decided it.
type RuleExplanation struct {
	MonthlyIncome  Amount           `json:"monthly_income"`
	MonthlyDebt    Amount           `json:"monthly_debt"`
	CurrentBalance Amount           `json:"current_balance"`
	LoanAmount     decimal.Decimal  `json:"loan_amount"`
	BalanceTrend   TrendExplanation `json:"balance_trend"`
	Checks         []RuleCheck      `json:"checks"`
	Error          string           `json:"error,omitempty"`
}

// RuleMetrics are the computed affordability ratios.
type RuleMetrics struct {
	DTIRatio       float64      `json:"dti_ratio"`
	LiquidityRatio float64      `json:"liquidity_ratio"`
	BalanceTrend   BalanceTrend `json:"balance_trend"`
}

// RuleVerdict is the affordability engine's result. It is fully populated on
// every path, including faults.
type RuleVerdict struct {
	Decision    Verdict         `json:"decision"`
	Reason      string          `json:"reason"`
	Metrics     RuleMetrics     `json:"metrics"`
	Explanation RuleExplanation `json:"explanation"`
}

// Approved reports whether the rule engine approved.
func (v RuleVerdict) Approved() bool {
	return v.Decision == VerdictApprove
}
