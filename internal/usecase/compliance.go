package usecase

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/iho/gocredit/internal/domain"
)

// ProhibitedCategories are transaction categories that fail the screen outright.
var ProhibitedCategories = []string{"GAMBLING", "ALCOHOL", "TOBACCO"}

// ProhibitedKeywords are matched case-insensitively against descriptions.
var ProhibitedKeywords = []string{
	"interest", "riba", "gambling", "casino", "betting", "lottery",
	"قمار", "كازينو", "ربا", "يانصيب", "رهان",
}

// ComplianceScreen is the hard gate over the applicant's transactions.
type ComplianceScreen struct {
	categories map[string]struct{}
	keywords   []string
}

// NewComplianceScreen creates a ComplianceScreen with the fixed prohibited lists.
func NewComplianceScreen() *ComplianceScreen {
	fold := cases.Fold()

	categories := make(map[string]struct{}, len(ProhibitedCategories))
	for _, c := range ProhibitedCategories {
		categories[fold.String(c)] = struct{}{}
	}

	keywords := make([]string, len(ProhibitedKeywords))
	for i, k := range ProhibitedKeywords {
		keywords[i] = fold.String(k)
	}

	return &ComplianceScreen{categories: categories, keywords: keywords}
}

// Screen reports every transaction matching a prohibited category or keyword.
// An empty list is compliant.
func (s *ComplianceScreen) Screen(txs []domain.Transaction) domain.ComplianceResult {
	fold := cases.Fold()
	violations := []domain.Violation{}

	for _, tx := range txs {
		if v, ok := s.check(fold, tx); ok {
			violations = append(violations, v)
		}
	}

	return domain.ComplianceResult{
		Compliant:  len(violations) == 0,
		Violations: violations,
	}
}

func (s *ComplianceScreen) check(fold cases.Caser, tx domain.Transaction) (domain.Violation, bool) {
	v := domain.Violation{
		TransactionID: tx.ID,
		Category:      tx.Category,
		Description:   tx.Description,
	}

	if category := strings.TrimSpace(tx.Category); category != "" {
		if _, ok := s.categories[fold.String(category)]; ok {
			v.Rule = domain.ViolationCategory
			v.Match = tx.Category
			return v, true
		}
	}

	if tx.Description == "" {
		return v, false
	}

	description := fold.String(tx.Description)
	for _, keyword := range s.keywords {
		if strings.Contains(description, keyword) {
			v.Rule = domain.ViolationKeyword
			v.Match = keyword
			return v, true
		}
	}

	return v, false
}
