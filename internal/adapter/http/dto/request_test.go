package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gocredit/internal/domain"
)

func TestDecisionRequestToUseCaseInput(t *testing.T) {
	body := `{
		"loan_amount": "50000",
		"currency": "SAR",
		"account_data": {
			"accountBalance": {"balances": [{"amount": {"value": 75000, "currency": "SAR"}}]},
			"balanceInsights": {"trend": "positive"}
		}
	}`

	var req DecisionRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	input, err := req.ToUseCaseInput()
	require.NoError(t, err)

	assert.Equal(t, "50000", input.LoanAmount.String())
	require.NotNil(t, input.AccountData)
	assert.Equal(t, "positive", input.AccountData.BalanceInsights.Trend)
}

func TestDecisionRequestNumericLoanAmount(t *testing.T) {
	var req DecisionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"loan_amount": 1250.50}`), &req))

	input, err := req.ToUseCaseInput()
	require.NoError(t, err)
	assert.Equal(t, "1250.5", input.LoanAmount.String())
	assert.Nil(t, input.AccountData)
}

func TestDecisionRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"missing amount", `{"account_data": {}}`, domain.ErrInvalidLoanAmount},
		{"null amount", `{"loan_amount": null}`, domain.ErrInvalidLoanAmount},
		{"too large", `{"loan_amount": "1000000000001"}`, domain.ErrAmountTooLarge},
		{"bad currency", `{"loan_amount": 10, "currency": "XXX"}`, domain.ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req DecisionRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			_, err := req.ToUseCaseInput()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestComplianceScreenRequestToTransactions(t *testing.T) {
	body := `{"transactions": [
		{"transactionId": "t1", "type": "GAMBLING", "amount": {"value": 100, "currency": "SAR"}},
		{"transactionId": "t2", "transactionDescription": "Salary"}
	]}`

	var req ComplianceScreenRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	txs := req.ToTransactions()
	require.Len(t, txs, 2)
	assert.Equal(t, "t1", txs[0].ID)
	assert.Equal(t, "GAMBLING", txs[0].Category)
	assert.Equal(t, "Salary", txs[1].Description)
}
