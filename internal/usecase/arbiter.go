package usecase

import (
	"fmt"

	"github.com/iho/gocredit/internal/domain"
)

// ConflictPolicy selects how the arbiter resolves a rule/risk disagreement.
type ConflictPolicy string

const (
	// PolicyAffordabilityFloor rejects whenever the rule engine rejects.
	PolicyAffordabilityFloor ConflictPolicy = "affordability_floor"
	// PolicyRiskOverride lets an acceptable risk score approve over a rule rejection.
	PolicyRiskOverride ConflictPolicy = "risk_override"
	// PolicyManualReview hands every genuine disagreement to a credit officer.
	PolicyManualReview ConflictPolicy = "manual_review"
)

// ParseConflictPolicy validates a configured policy name.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(s); p {
	case PolicyAffordabilityFloor, PolicyRiskOverride, PolicyManualReview:
		return p, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q", s)
	}
}

// DecisionArbiter combines the compliance gate, rule verdict and risk
// assessment into one Decision.
type DecisionArbiter struct {
	policy          ConflictPolicy
	rejectThreshold int
}

// NewDecisionArbiter creates a new DecisionArbiter. A negative threshold
// selects DefaultRiskRejectThreshold; zero is honoured and rejects any
// non-zero score. An empty policy selects PolicyAffordabilityFloor.
func NewDecisionArbiter(policy ConflictPolicy, rejectThreshold int) *DecisionArbiter {
	if policy == "" {
		policy = PolicyAffordabilityFloor
	}
	if rejectThreshold < 0 {
		rejectThreshold = DefaultRiskRejectThreshold
	}
	return &DecisionArbiter{policy: policy, rejectThreshold: rejectThreshold}
}

// Policy returns the configured conflict policy.
func (a *DecisionArbiter) Policy() ConflictPolicy {
	return a.policy
}

// Arbitrate applies the decision matrix. rule and risk may be nil only when
// the compliance gate has already failed.
func (a *DecisionArbiter) Arbitrate(compliance domain.ComplianceResult, rule *domain.RuleVerdict, risk *domain.RiskAssessment) domain.Decision {
	if !compliance.Compliant {
		return domain.Decision{
			Decision: domain.OutcomeReject,
			Reason:   ReasonNonCompliant,
			Details: domain.DecisionDetails{
				ShariaCompliant: boolPtr(false),
				Violations:      compliance.Violations,
			},
		}
	}

	if rule == nil || risk == nil {
		return domain.ErrorDecision(domain.ErrMissingVerdict)
	}

	details := a.details(rule, risk)

	if !risk.Available {
		return domain.Decision{
			Decision: outcomeOf(rule.Decision),
			Reason:   rule.Reason + " " + ReasonRiskUnavailable,
			Details:  details,
		}
	}

	riskRejects := risk.RiskScore > a.rejectThreshold

	switch {
	case !rule.Approved() && riskRejects:
		return domain.Decision{
			Decision: domain.OutcomeReject,
			Reason:   fmt.Sprintf("Rejected by rule-based and risk assessments: %s; %s", rule.Reason, risk.Reason),
			Details:  details,
		}

	case !rule.Approved():
		return a.resolveRuleReject(rule, risk, details)

	case riskRejects:
		if a.policy == PolicyManualReview {
			return manualReview(details)
		}
		return domain.Decision{
			Decision: domain.OutcomeReject,
			Reason:   "Rule-based approved but risk model rejected: " + risk.Reason,
			Details:  details,
		}

	default:
		return domain.Decision{
			Decision: domain.OutcomeApprove,
			Reason:   ReasonPassedAllChecks,
			Details:  details,
		}
	}
}

func (a *DecisionArbiter) resolveRuleReject(rule *domain.RuleVerdict, risk *domain.RiskAssessment, details domain.DecisionDetails) domain.Decision {
	switch a.policy {
	case PolicyRiskOverride:
		details.Recommendation = fmt.Sprintf(
			"Approved by risk model override (score %d) of rule-based rejection: %s", risk.RiskScore, rule.Reason)
		return domain.Decision{
			Decision: domain.OutcomeApprove,
			Reason:   "Risk model override: " + risk.Reason,
			Details:  details,
		}
	case PolicyManualReview:
		return manualReview(details)
	default:
		return domain.Decision{
			Decision: domain.OutcomeReject,
			Reason:   "Rule-based rejected despite acceptable risk score: " + rule.Reason,
			Details:  details,
		}
	}
}

func (a *DecisionArbiter) details(rule *domain.RuleVerdict, risk *domain.RiskAssessment) domain.DecisionDetails {
	score := risk.RiskScore
	return domain.DecisionDetails{
		ShariaCompliant:   boolPtr(true),
		RuleBased:         rule,
		RuleBasedApproved: boolPtr(rule.Approved()),
		LLMRiskScore:      &score,
		LLMAvailable:      boolPtr(risk.Available),
		LLMStatus:         risk.Status,
		LLMReason:         risk.Reason,
		LLMDetails:        risk.Details,
	}
}

func manualReview(details domain.DecisionDetails) domain.Decision {
	details.Recommendation = ManualReviewNote
	return domain.Decision{
		Decision: domain.OutcomeManualReview,
		Reason:   "Conflicting assessments between rule-based and risk systems",
		Details:  details,
	}
}

func outcomeOf(v domain.Verdict) domain.Outcome {
	if v == domain.VerdictApprove {
		return domain.OutcomeApprove
	}
	return domain.OutcomeReject
}

func boolPtr(b bool) *bool {
	return &b
}
