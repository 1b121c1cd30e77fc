package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/iho/gocredit/internal/domain"
	"github.com/iho/gocredit/internal/infrastructure/tracing"
)

// RiskAssessor adapts a RiskProvider into a result that is always usable.
type RiskAssessor struct {
	provider RiskProvider
	logger   zerolog.Logger
	timeout  time.Duration
}

// NewRiskAssessor creates a new RiskAssessor. A nil provider means no scorer
// is configured and every assessment falls back.
func NewRiskAssessor(provider RiskProvider, timeout time.Duration, logger zerolog.Logger) *RiskAssessor {
	if timeout <= 0 {
		timeout = DefaultRiskTimeout
	}
	return &RiskAssessor{
		provider: provider,
		logger:   logger,
		timeout:  timeout,
	}
}

// BuildRiskRequest assembles the fixed-schema scorer input.
func BuildRiskRequest(profile domain.FinancialProfile, loanAmount decimal.Decimal) domain.RiskRequest {
	return domain.RiskRequest{
		MonthlyIncome:      profile.MonthlyIncome.Value,
		RecentTransactions: domain.RecentTransactions(profile.Transactions, RiskTransactionSample),
		LoanAmount:         loanAmount,
		CurrentBalance:     profile.CurrentBalance.Value,
		BalanceTrend:       profile.BalanceTrend,
	}
}

// Assess makes exactly one scorer call. Every failure, including a panic in
// the provider, resolves to a fallback assessment with Available=false.
func (a *RiskAssessor) Assess(ctx context.Context, profile domain.FinancialProfile, loanAmount decimal.Decimal) (assessment domain.RiskAssessment) {
	if a.provider == nil {
		return fallback(domain.RiskUnconfigured, "Risk model not configured", nil)
	}

	ctx, span := tracing.StartSpan(ctx, "risk.assess")
	defer func() {
		span.SetAttributes(
			attribute.Bool("risk.available", assessment.Available),
			attribute.String("risk.status", string(assessment.Status)),
			attribute.Int("risk.score", assessment.RiskScore),
		)
		span.End()
	}()

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// The provider runs on its own goroutine so that one ignoring callCtx
	// still cannot hold the pipeline past the timeout.
	done := make(chan scoreResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- scoreResult{panicked: r}
			}
		}()
		reply, err := a.provider.Score(callCtx, BuildRiskRequest(profile, loanAmount))
		done <- scoreResult{reply: reply, err: err}
	}()

	var res scoreResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res = scoreResult{err: callCtx.Err()}
	}

	if res.panicked != nil {
		a.logger.Error().Interface("panic", res.panicked).Msg("risk provider panicked")
		return fallback(domain.RiskTransportError, fmt.Sprintf("Risk model error: %v", res.panicked), nil)
	}

	// A reply arriving after the deadline is not trusted.
	if res.err == nil && callCtx.Err() != nil {
		res.err = callCtx.Err()
	}

	reply, err := res.reply, res.err
	if err != nil {
		assessment = a.classify(callCtx, err)
		a.logger.Warn().
			Err(err).
			Str("status", string(assessment.Status)).
			Msg("risk model unavailable, using fallback assessment")
		return assessment
	}

	if reply == nil || !domain.ValidRiskScore(reply.RiskScore) || reply.Reason == "" {
		a.logger.Warn().Msg("risk model reply failed validation, using fallback assessment")
		return fallback(domain.RiskMalformedResponse, "Malformed risk model response", nil)
	}

	return domain.RiskAssessment{
		RiskScore: reply.RiskScore,
		Reason:    reply.Reason,
		Details:   reply.Details,
		Available: true,
		Status:    domain.RiskAvailable,
	}
}

type scoreResult struct {
	reply    *domain.RiskReply
	err      error
	panicked any
}

func (a *RiskAssessor) classify(callCtx context.Context, err error) domain.RiskAssessment {
	switch {
	case errors.Is(err, domain.ErrRiskQuotaExceeded):
		return fallback(domain.RiskQuotaExceeded, "Risk model quota exceeded", map[string]any{
			"error":          "risk provider quota exceeded",
			"recommendation": "Check the risk provider billing status and quota limits",
		})
	case errors.Is(err, domain.ErrMalformedRiskResponse):
		return fallback(domain.RiskMalformedResponse, "Malformed risk model response", nil)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return fallback(domain.RiskTimeout, fmt.Sprintf("Risk model timed out after %s", a.timeout), nil)
	case errors.Is(err, context.Canceled):
		return fallback(domain.RiskTransportError, "Risk model call cancelled", nil)
	default:
		return fallback(domain.RiskTransportError, fmt.Sprintf("Risk model error: %v", err), nil)
	}
}

func fallback(status domain.RiskStatus, cause string, details map[string]any) domain.RiskAssessment {
	return domain.RiskAssessment{
		RiskScore: domain.FallbackRiskScore,
		Reason:    cause + " " + ReasonRiskUnavailable,
		Details:   details,
		Available: false,
		Status:    status,
	}
}
