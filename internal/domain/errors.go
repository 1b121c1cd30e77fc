package domain

import "errors"

var (
	// Risk provider errors
	ErrRiskProviderUnavailable = errors.New("risk provider unavailable")
	ErrRiskQuotaExceeded       = errors.New("risk provider quota exceeded")
	ErrMalformedRiskResponse   = errors.New("malformed risk provider response")

	// Rule engine errors
	ErrRuleEngineFault = errors.New("rule engine fault")

	// Input errors
	ErrInvalidLoanAmount = errors.New("invalid loan amount")
	ErrMissingVerdict    = errors.New("missing verdict for arbitration")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrUnauthorized = errors.New("unauthorized")
)
