package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gocredit/internal/domain"
	"github.com/iho/gocredit/internal/usecase"
)

// DecisionRequest represents a loan application submitted for a decision.
type DecisionRequest struct {
	LoanAmount  decimal.NullDecimal `json:"loan_amount"`
	Currency    string              `json:"currency,omitempty"`
	AccountData *domain.AccountData `json:"account_data"`
}

// ToUseCaseInput converts to use case input.
func (r *DecisionRequest) ToUseCaseInput() (usecase.EvaluateInput, error) {
	if !r.LoanAmount.Valid {
		return usecase.EvaluateInput{}, fmt.Errorf("%w: loan_amount is required", domain.ErrInvalidLoanAmount)
	}
	if err := domain.ValidateLoanAmount(r.LoanAmount.Decimal); err != nil {
		return usecase.EvaluateInput{}, err
	}
	if r.Currency != "" {
		if err := domain.ValidateCurrency(r.Currency); err != nil {
			return usecase.EvaluateInput{}, err
		}
	}

	return usecase.EvaluateInput{
		AccountData: r.AccountData,
		LoanAmount:  r.LoanAmount.Decimal,
	}, nil
}

// ComplianceScreenRequest represents a batch of raw transactions to screen.
type ComplianceScreenRequest struct {
	Transactions []domain.RawTransaction `json:"transactions"`
}

// ToTransactions normalizes the raw aggregator transactions.
func (r *ComplianceScreenRequest) ToTransactions() []domain.Transaction {
	return domain.NormalizeProfile(&domain.AccountData{Transactions: r.Transactions}).Transactions
}
