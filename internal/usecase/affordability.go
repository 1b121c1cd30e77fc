package usecase

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gocredit/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// AffordabilityRuleEngine applies the ordered DTI, liquidity and trend rules.
type AffordabilityRuleEngine struct {
	logger zerolog.Logger
}

// NewAffordabilityRuleEngine creates a new AffordabilityRuleEngine.
func NewAffordabilityRuleEngine(logger zerolog.Logger) *AffordabilityRuleEngine {
	return &AffordabilityRuleEngine{logger: logger}
}

// Evaluate never panics; a fault inside the calculation becomes a Reject
// verdict carrying the diagnostic in Explanation.Error.
func (e *AffordabilityRuleEngine) Evaluate(profile domain.FinancialProfile, loanAmount decimal.Decimal) (verdict domain.RuleVerdict) {
	explanation := domain.RuleExplanation{
		MonthlyIncome:  profile.MonthlyIncome,
		MonthlyDebt:    profile.MonthlyDebt,
		CurrentBalance: profile.CurrentBalance,
		LoanAmount:     loanAmount,
		BalanceTrend: domain.TrendExplanation{
			Value:  profile.BalanceTrend,
			Status: profile.BalanceTrendStatus,
		},
		Checks: []domain.RuleCheck{},
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", domain.ErrRuleEngineFault, r)
			e.logger.Error().Err(err).Msg("affordability evaluation failed")
			verdict = faultVerdict(profile, explanation, err)
		}
	}()

	dti := DTIRatio(profile.MonthlyDebt.Value, profile.MonthlyIncome.Value)
	liquidity := LiquidityRatio(profile.CurrentBalance.Value, loanAmount)
	if !finite(dti) || !finite(liquidity) {
		err := fmt.Errorf("%w: non-finite ratio (dti=%v, liquidity=%v)", domain.ErrRuleEngineFault, dti, liquidity)
		e.logger.Error().Err(err).Msg("affordability evaluation failed")
		return faultVerdict(profile, explanation, err)
	}

	explanation.Checks = []domain.RuleCheck{
		{Rule: RuleDTI, Value: dti, Threshold: MaxDTIRatio, Passed: dti <= MaxDTIRatio},
		{Rule: RuleLiquidity, Value: liquidity, Threshold: MinLiquidityRatio, Passed: liquidity >= MinLiquidityRatio},
		{Rule: RuleBalanceTrend, Passed: profile.BalanceTrend != domain.TrendNegative},
	}

	verdict = domain.RuleVerdict{
		Decision: domain.VerdictApprove,
		Reason:   ReasonPassedRules,
		Metrics: domain.RuleMetrics{
			DTIRatio:       dti,
			LiquidityRatio: liquidity,
			BalanceTrend:   profile.BalanceTrend,
		},
		Explanation: explanation,
	}

	// First failing rule wins.
	switch {
	case dti > MaxDTIRatio:
		verdict.Decision, verdict.Reason = domain.VerdictReject, ReasonHighDTI
	case liquidity < MinLiquidityRatio:
		verdict.Decision, verdict.Reason = domain.VerdictReject, ReasonLowLiquidity
	case profile.BalanceTrend == domain.TrendNegative:
		verdict.Decision, verdict.Reason = domain.VerdictReject, ReasonNegativeTrend
	}

	e.logger.Debug().
		Float64("dti_ratio", dti).
		Float64("liquidity_ratio", liquidity).
		Str("balance_trend", string(profile.BalanceTrend)).
		Str("decision", string(verdict.Decision)).
		Msg("affordability evaluated")

	return verdict
}

// DTIRatio is debt as a percentage of income, or SentinelDTIRatio when
// income is not positive. Negative debt is taken by magnitude.
func DTIRatio(debt, income decimal.Decimal) float64 {
	if !income.IsPositive() {
		return SentinelDTIRatio
	}
	return debt.Abs().Div(income).Mul(hundred).InexactFloat64()
}

// LiquidityRatio is balance as a percentage of the loan amount, or
// SentinelLiquidityRatio when the loan amount is not positive. A negative
// balance yields zero.
func LiquidityRatio(balance, loanAmount decimal.Decimal) float64 {
	if !loanAmount.IsPositive() || !balance.IsPositive() {
		return SentinelLiquidityRatio
	}
	return balance.Div(loanAmount).Mul(hundred).InexactFloat64()
}

func faultVerdict(profile domain.FinancialProfile, explanation domain.RuleExplanation, err error) domain.RuleVerdict {
	explanation.Error = err.Error()
	return domain.RuleVerdict{
		Decision: domain.VerdictReject,
		Reason:   ReasonAnalysisError,
		Metrics: domain.RuleMetrics{
			DTIRatio:       SentinelDTIRatio,
			LiquidityRatio: SentinelLiquidityRatio,
			BalanceTrend:   profile.BalanceTrend,
		},
		Explanation: explanation,
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}
