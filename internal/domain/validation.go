package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxLoanAmount = "1000000000000" // 1 trillion
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"SAR": true, "AED": true, "BHD": true, "KWD": true,
	"OMR": true, "QAR": true, "EGP": true, "JOD": true,
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"INR": true, "TRY": true, "MYR": true, "IDR": true,
}

var maxLoanAmount = decimal.RequireFromString(MaxLoanAmount)

// ValidateLoanAmount rejects amounts the engine cannot meaningfully evaluate.
// Zero and negative amounts are accepted; the rule engine treats them with
// its liquidity sentinel.
func ValidateLoanAmount(amount decimal.Decimal) error {
	if amount.GreaterThan(maxLoanAmount) {
		return fmt.Errorf("%w: %w: maximum amount is %s", ErrInvalidLoanAmount, ErrAmountTooLarge, MaxLoanAmount)
	}

	return nil
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}
