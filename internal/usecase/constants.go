package usecase

import "time"

const (
	// MaxDTIRatio is the highest acceptable debt-to-income percentage.
	MaxDTIRatio = 40.0

	// MinLiquidityRatio is the lowest acceptable balance-to-loan percentage.
	MinLiquidityRatio = 50.0

	// SentinelDTIRatio is reported when income is zero or negative.
	SentinelDTIRatio = 100.0

	// SentinelLiquidityRatio is reported when the loan amount is zero or negative.
	SentinelLiquidityRatio = 0.0

	// DefaultRiskRejectThreshold is the score above which the risk model rejects.
	DefaultRiskRejectThreshold = 70

	// DefaultRiskTimeout bounds the single scorer call.
	DefaultRiskTimeout = 15 * time.Second

	// RiskTransactionSample is how many recent transactions are sent to the scorer.
	RiskTransactionSample = 5
)

// Rule names used in explanations.
const (
	RuleDTI          = "dti_ratio"
	RuleLiquidity    = "liquidity_ratio"
	RuleBalanceTrend = "balance_trend"
)

// Decision reasons.
const (
	ReasonHighDTI         = "High DTI (>40%)"
	ReasonLowLiquidity    = "Low liquidity (<50%)"
	ReasonNegativeTrend   = "Negative balance trend"
	ReasonPassedRules     = "Passed all rules"
	ReasonAnalysisError   = "Error in financial analysis"
	ReasonNonCompliant    = "Non-Sharia-compliant transactions detected"
	ReasonPassedAllChecks = "Passed all checks"
	ReasonRiskUnavailable = "(risk model unavailable)"
	ManualReviewNote      = "This application requires manual review by a credit officer due to conflicting assessments."
)
