package scorer

import (
	"context"
	"fmt"

	"github.com/iho/gocredit/internal/domain"
)

// StubProvider returns the same score for every applicant. It is meant for
// local runs and demos without model credentials.
type StubProvider struct {
	score int
}

// NewStubProvider creates a StubProvider. score is clamped to [0,100].
func NewStubProvider(score int) *StubProvider {
	score = max(domain.MinRiskScore, min(domain.MaxRiskScore, score))
	return &StubProvider{score: score}
}

// Score implements usecase.RiskProvider.
func (s *StubProvider) Score(ctx context.Context, req domain.RiskRequest) (*domain.RiskReply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.RiskReply{
		RiskScore: s.score,
		Reason:    fmt.Sprintf("Stub risk assessment (fixed score %d)", s.score),
		Details: map[string]any{
			"provider":     "stub",
			"transactions": len(req.RecentTransactions),
		},
	}, nil
}
