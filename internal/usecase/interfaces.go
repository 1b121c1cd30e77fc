package usecase

import (
	"context"
	"time"

	"github.com/iho/gocredit/internal/domain"
)

// RiskProvider scores an applicant through an external probabilistic model.
// Implementations classify their failures with domain.ErrRiskQuotaExceeded,
// domain.ErrMalformedRiskResponse or domain.ErrRiskProviderUnavailable.
type RiskProvider interface {
	Score(ctx context.Context, req domain.RiskRequest) (*domain.RiskReply, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// DecisionRecorder receives one observation per finished pipeline stage.
type DecisionRecorder interface {
	ObserveCompliance(result domain.ComplianceResult)
	ObserveRuleVerdict(verdict domain.RuleVerdict)
	ObserveRiskAssessment(assessment domain.RiskAssessment, duration time.Duration)
	ObserveDecision(decision domain.Decision, duration time.Duration)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not produce a replayable response.
	Release(ctx context.Context, key string) error
}

type noopRecorder struct{}

func (noopRecorder) ObserveCompliance(domain.ComplianceResult) {}
func (noopRecorder) ObserveRuleVerdict(domain.RuleVerdict) {}
func (noopRecorder) ObserveRiskAssessment(domain.RiskAssessment, time.Duration) {}
func (noopRecorder) ObserveDecision(domain.Decision, time.Duration) {}
