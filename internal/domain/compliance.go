package domain

// ViolationRule names which screening rule a transaction tripped.
type ViolationRule string

const (
	ViolationCategory ViolationRule = "category"
	ViolationKeyword  ViolationRule = "keyword"
)

// Violation is a transaction that failed the compliance screen.
type Violation struct {
	TransactionID string        `json:"transaction_id,omitempty"`
	Category      string        `json:"category,omitempty"`
	Description   string        `json:"description,omitempty"`
	Rule          ViolationRule `json:"rule"`
	Match         string        `json:"match"`
}

// ComplianceResult is the outcome of screening a transaction list.
type ComplianceResult struct {
	Violations []Violation `json:"violations"`
	Compliant  bool        `json:"compliant"`
}
