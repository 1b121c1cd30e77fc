package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gocredit/internal/domain"
	"github.com/iho/gocredit/internal/usecase"
)

func TestComplianceScreen_Screen(t *testing.T) {
	screen := usecase.NewComplianceScreen()

	tests := []struct {
		name       string
		txs        []domain.Transaction
		compliant  bool
		violations int
		rule       domain.ViolationRule
		match      string
	}{
		{
			name:      "empty list is compliant",
			txs:       nil,
			compliant: true,
		},
		{
			name: "clean transactions pass",
			txs: []domain.Transaction{
				{ID: "t1", Category: "GROCERIES", Description: "Tamimi Markets"},
				{ID: "t2", Category: "SALARY", Description: "Monthly payroll"},
			},
			compliant: true,
		},
		{
			name:       "prohibited category",
			txs:        []domain.Transaction{{ID: "t1", Category: "gambling", Description: "Weekend outing"}},
			compliant:  false,
			violations: 1,
			rule:       domain.ViolationCategory,
			match:      "gambling",
		},
		{
			name:       "keyword matches case-insensitively",
			txs:        []domain.Transaction{{ID: "t1", Description: "Casino Night Deposit"}},
			compliant:  false,
			violations: 1,
			rule:       domain.ViolationKeyword,
			match:      "casino",
		},
		{
			name:       "keyword inside a longer word",
			txs:        []domain.Transaction{{ID: "t1", Description: "Credit card INTEREST charge"}},
			compliant:  false,
			violations: 1,
			rule:       domain.ViolationKeyword,
			match:      "interest",
		},
		{
			name:       "arabic keyword",
			txs:        []domain.Transaction{{ID: "t1", Description: "دفعة كازينو"}},
			compliant:  false,
			violations: 1,
			rule:       domain.ViolationKeyword,
			match:      "كازينو",
		},
		{
			name: "every violation is reported",
			txs: []domain.Transaction{
				{ID: "t1", Category: "ALCOHOL"},
				{ID: "t2", Description: "Groceries"},
				{ID: "t3", Description: "lottery ticket"},
			},
			compliant:  false,
			violations: 2,
			rule:       domain.ViolationCategory,
			match:      "ALCOHOL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := screen.Screen(tt.txs)

			assert.Equal(t, tt.compliant, result.Compliant)
			require.Len(t, result.Violations, tt.violations)
			assert.NotNil(t, result.Violations)
			if tt.violations > 0 {
				assert.Equal(t, tt.rule, result.Violations[0].Rule)
				assert.Equal(t, tt.match, result.Violations[0].Match)
				assert.Equal(t, "t1", result.Violations[0].TransactionID)
			}
		})
	}
}

func TestComplianceScreen_CategoryWinsOverKeyword(t *testing.T) {
	result := usecase.NewComplianceScreen().Screen([]domain.Transaction{
		{ID: "t1", Category: "TOBACCO", Description: "casino cigars"},
	})

	require.Len(t, result.Violations, 1)
	assert.Equal(t, domain.ViolationCategory, result.Violations[0].Rule)
}
