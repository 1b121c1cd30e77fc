package domain

import "time"

// Outcome is the terminal decision value.
type Outcome string

const (
	OutcomeApprove      Outcome = "Approve"
	OutcomeReject       Outcome = "Reject"
	OutcomeManualReview Outcome = "Up to the bank"
	OutcomeError        Outcome = "Error"
)

// IsBusinessOutcome reports whether o is a decision rather than the Error escape hatch.
func (o Outcome) IsBusinessOutcome() bool {
	return o == OutcomeApprove || o == OutcomeReject || o == OutcomeManualReview
}

// DecisionDetails is the explanation payload. Optional blocks are omitted only
// when the stage that would produce them never ran.
type DecisionDetails struct {
	RuleBased         *RuleVerdict   `json:"rule_based,omitempty"`
	RuleBasedApproved *bool          `json:"rule_based_approved,omitempty"`
	LLMRiskScore      *int           `json:"llm_risk_score,omitempty"`
	LLMAvailable      *bool          `json:"llm_available,omitempty"`
	LLMDetails        map[string]any `json:"llm_details,omitempty"`
	ShariaCompliant   *bool          `json:"sharia_compliant,omitempty"`
	LLMStatus         RiskStatus     `json:"llm_status,omitempty"`
	LLMReason         string         `json:"llm_reason,omitempty"`
	Recommendation    string         `json:"recommendation,omitempty"`
	Error             string         `json:"error,omitempty"`
	Violations        []Violation    `json:"non_compliant_transactions,omitempty"`
}

// Decision is the pipeline's terminal output. Reason and Details are always set.
type Decision struct {
	EvaluatedAt time.Time       `json:"evaluated_at"`
	ID          string          `json:"id,omitempty"`
	Decision    Outcome         `json:"decision"`
	Reason      string          `json:"reason"`
	Details     DecisionDetails `json:"details"`
}

// ErrorDecision builds the diagnostic escape-hatch decision.
func ErrorDecision(err error) Decision {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Decision{
		Decision: OutcomeError,
		Reason:   "Error processing application",
		Details:  DecisionDetails{Error: msg},
	}
}
