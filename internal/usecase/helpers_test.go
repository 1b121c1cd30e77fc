package usecase_test

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gocredit/internal/domain"
)

func profileOf(income, debt, balance int64, trend domain.BalanceTrend) domain.FinancialProfile {
	return domain.FinancialProfile{
		Transactions:       []domain.Transaction{},
		MonthlyIncome:      domain.PresentAmount(decimal.NewFromInt(income)),
		MonthlyDebt:        domain.PresentAmount(decimal.NewFromInt(debt)),
		CurrentBalance:     domain.PresentAmount(decimal.NewFromInt(balance)),
		BalanceTrend:       trend,
		BalanceTrendStatus: domain.FieldPresent,
	}
}

func verdictOf(v domain.Verdict, reason string) *domain.RuleVerdict {
	return &domain.RuleVerdict{Decision: v, Reason: reason}
}

func scored(score int, reason string) *domain.RiskAssessment {
	return &domain.RiskAssessment{
		RiskScore: score,
		Reason:    reason,
		Available: true,
		Status:    domain.RiskAvailable,
	}
}
