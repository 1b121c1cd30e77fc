package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/gocredit/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Decision metrics
	Decisions        *prometheus.CounterVec
	DecisionDuration prometheus.Histogram

	// Compliance metrics
	ComplianceScreens    *prometheus.CounterVec
	ComplianceViolations *prometheus.CounterVec

	// Rule engine metrics
	RuleVerdicts *prometheus.CounterVec
	DTIRatio     prometheus.Histogram

	// Risk model metrics
	RiskAssessments *prometheus.CounterVec
	RiskScore       prometheus.Histogram
	RiskDuration    prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Decision metrics
		Decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gocredit_decisions_total",
				Help: "Total loan decisions by outcome",
			},
			[]string{"decision"},
		),
		DecisionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "gocredit_decision_duration_seconds",
			Help:    "End-to-end duration of loan evaluations",
			Buckets: prometheus.DefBuckets,
		}),

		// Compliance metrics
		ComplianceScreens: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gocredit_compliance_screens_total",
				Help: "Total compliance screens by result",
			},
			[]string{"compliant"},
		),
		ComplianceViolations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gocredit_compliance_violations_total",
				Help: "Total flagged transactions by matching rule",
			},
			[]string{"rule"},
		),

		// Rule engine metrics
		RuleVerdicts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gocredit_rule_verdicts_total",
				Help: "Total affordability verdicts by decision and reason",
			},
			[]string{"decision", "reason"},
		),
		DTIRatio: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "gocredit_dti_ratio_percent",
			Help:    "Observed debt-to-income ratios",
			Buckets: []float64{10, 20, 30, 40, 50, 75, 100},
		}),

		// Risk model metrics
		RiskAssessments: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gocredit_risk_assessments_total",
				Help: "Total risk assessments by status",
			},
			[]string{"status"},
		),
		RiskScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "gocredit_risk_score",
			Help:    "Risk scores returned by the risk model",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		RiskDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "gocredit_risk_duration_seconds",
			Help:    "Duration of risk model calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gocredit_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gocredit_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "gocredit_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Redis metrics
		RedisOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gocredit_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gocredit_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gocredit_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}

// ObserveCompliance records a compliance screen result.
func (m *Metrics) ObserveCompliance(result domain.ComplianceResult) {
	m.ComplianceScreens.WithLabelValues(strconv.FormatBool(result.Compliant)).Inc()
	for _, v := range result.Violations {
		m.ComplianceViolations.WithLabelValues(string(v.Rule)).Inc()
	}
}

// ObserveRuleVerdict records an affordability verdict.
func (m *Metrics) ObserveRuleVerdict(verdict domain.RuleVerdict) {
	m.RuleVerdicts.WithLabelValues(string(verdict.Decision), verdict.Reason).Inc()
	m.DTIRatio.Observe(verdict.Metrics.DTIRatio)
}

// ObserveRiskAssessment records a risk assessment and the time spent on it.
func (m *Metrics) ObserveRiskAssessment(assessment domain.RiskAssessment, elapsed time.Duration) {
	m.RiskAssessments.WithLabelValues(string(assessment.Status)).Inc()
	if assessment.Available {
		m.RiskScore.Observe(float64(assessment.RiskScore))
	}
	m.RiskDuration.Observe(elapsed.Seconds())
}

// ObserveDecision records a terminal decision.
func (m *Metrics) ObserveDecision(decision domain.Decision, elapsed time.Duration) {
	m.Decisions.WithLabelValues(string(decision.Decision)).Inc()
	m.DecisionDuration.Observe(elapsed.Seconds())
}
