package dto

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by the liveness probe.
type HealthResponse struct {
	Status         string `json:"status"`
	Environment    string `json:"environment"`
	RiskProvider   string `json:"risk_provider"`
	RiskConfigured bool   `json:"risk_model_configured"`
	ConflictPolicy string `json:"conflict_policy"`
}

// ReadinessResponse is returned by the readiness probe.
type ReadinessResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis"`
}
