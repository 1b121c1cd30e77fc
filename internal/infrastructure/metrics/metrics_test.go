package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gocredit/internal/domain"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)
	require.NotNil(t, m.Decisions)
	require.NotNil(t, m.HTTPRequests)
	require.NotNil(t, m.RiskAssessments)

	m.HTTPRequests.WithLabelValues("GET", "/health", "200").Inc()

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewTwiceOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestObserveCompliance(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCompliance(domain.ComplianceResult{Compliant: true})
	m.ObserveCompliance(domain.ComplianceResult{
		Compliant: false,
		Violations: []domain.Violation{
			{TransactionID: "t1", Rule: domain.ViolationCategory},
			{TransactionID: "t2", Rule: domain.ViolationKeyword},
			{TransactionID: "t3", Rule: domain.ViolationKeyword},
		},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComplianceScreens.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComplianceScreens.WithLabelValues("false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ComplianceViolations.WithLabelValues("keyword")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComplianceViolations.WithLabelValues("category")))
}

func TestObserveRiskAssessment(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRiskAssessment(domain.RiskAssessment{Status: domain.RiskAvailable, Available: true, RiskScore: 30}, 200*time.Millisecond)
	m.ObserveRiskAssessment(domain.RiskAssessment{Status: domain.RiskTimeout, RiskScore: domain.FallbackRiskScore}, 15*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RiskAssessments.WithLabelValues("available")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RiskAssessments.WithLabelValues("timeout")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RiskScore))
}

func TestObserveRuleVerdictAndDecision(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRuleVerdict(domain.RuleVerdict{
		Decision: domain.VerdictReject,
		Reason:   "High DTI (>40%)",
		Metrics:  domain.RuleMetrics{DTIRatio: 55},
	})
	m.ObserveDecision(domain.Decision{Decision: domain.OutcomeManualReview}, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RuleVerdicts.WithLabelValues("Reject", "High DTI (>40%)")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("Up to the bank")))
}
