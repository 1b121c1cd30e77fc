package domain

import "github.com/shopspring/decimal"

// RiskStatus discriminates a genuine risk score from the fallback kinds.
type RiskStatus string

const (
	RiskAvailable         RiskStatus = "available"
	RiskUnconfigured      RiskStatus = "unconfigured"
	RiskQuotaExceeded     RiskStatus = "quota_exceeded"
	RiskTimeout           RiskStatus = "timeout"
	RiskTransportError    RiskStatus = "transport_error"
	RiskMalformedResponse RiskStatus = "malformed_response"
)

const (
	MinRiskScore = 0
	MaxRiskScore = 100

	// FallbackRiskScore is the neutral placeholder used when no real score exists.
	FallbackRiskScore = 50
)

// RiskRequest is the fixed-schema input sent to a risk provider.
type RiskRequest struct {
	RecentTransactions []Transaction
	MonthlyIncome      decimal.Decimal
	LoanAmount         decimal.Decimal
	CurrentBalance     decimal.Decimal
	BalanceTrend       BalanceTrend
}

// RiskReply is a parsed provider answer.
type RiskReply struct {
	Details   map[string]any
	Reason    string
	RiskScore int
}

// RiskAssessment is the risk assessor's result. When Available is false the
// score is a placeholder and must not be weighed as real risk.
type RiskAssessment struct {
	Details   map[string]any `json:"details,omitempty"`
	Reason    string         `json:"reason"`
	Status    RiskStatus     `json:"status"`
	RiskScore int            `json:"risk_score"`
	Available bool           `json:"available"`
}

// ValidRiskScore reports whether score lies in [0,100].
func ValidRiskScore(score int) bool {
	return score >= MinRiskScore && score <= MaxRiskScore
}
