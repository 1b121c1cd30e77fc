package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gocredit/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gocredit/internal/adapter/http/middleware"
	"github.com/iho/gocredit/internal/adapter/scorer"
	"github.com/iho/gocredit/internal/domain"
	"github.com/iho/gocredit/internal/infrastructure/auth"
	"github.com/iho/gocredit/internal/infrastructure/metrics"
	"github.com/iho/gocredit/internal/usecase"
	"github.com/iho/gocredit/internal/usecase/mocks"
)

type sequenceIDs struct{ n int }

func (s *sequenceIDs) Generate() string {
	s.n++
	return "id-" + string(rune('0'+s.n))
}

func newRouterConfig(opts ...func(cfg *RouterConfig)) RouterConfig {
	logger := zerolog.Nop()
	screen := usecase.NewComplianceScreen()
	uc := usecase.NewDecisionUseCase(usecase.DecisionUseCaseConfig{
		Screen:  screen,
		Rules:   usecase.NewAffordabilityRuleEngine(logger),
		Risk:    usecase.NewRiskAssessor(scorer.NewStubProvider(30), time.Second, logger),
		Arbiter: usecase.NewDecisionArbiter(usecase.PolicyAffordabilityFloor, 70),
		IDGen:   &sequenceIDs{},
		Logger:  logger,
	})

	cfg := RouterConfig{
		DecisionHandler: handler.NewDecisionHandler(uc, screen),
		HealthHandler:   handler.NewHealthHandler(nil, handler.HealthInfo{Environment: "test", RiskProvider: "stub"}),
		Logger:          logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

const approvablePayload = `{
	"loan_amount": 50000,
	"account_data": {
		"incomeInsights": {"accounts": [{"recurringCreditSummary": [{"avgAmount": 25000}]}]},
		"spendingInsights": {"accounts": [{"recurringDebitSummary": [{"avgAmount": 2000}]}]},
		"accountBalance": {"balances": [{"amount": {"value": 75000, "currency": "SAR"}}]},
		"balanceInsights": {"trend": "positive"},
		"transactions": [{"transactionId": "t1", "type": "GROCERIES", "transactionDescription": "Danube"}]
	}
}`

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestNewRouter_DecisionEndToEnd(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions", strings.NewReader(approvablePayload))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decision domain.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, domain.OutcomeApprove, decision.Decision)
	assert.Equal(t, "Passed all checks", decision.Reason)
	assert.Equal(t, "id-1", decision.ID)
	require.NotNil(t, decision.Details.LLMRiskScore)
	assert.Equal(t, 30, *decision.Details.LLMRiskScore)
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	assert.Equal(t, http.StatusOK, rec1.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestNewRouter_IdempotentReplay(t *testing.T) {
	store := mocks.NewMemoryIdempotencyStore()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
		cfg.IdempotencyTTL = time.Minute
	}))

	var ids []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions", strings.NewReader(approvablePayload))
		req.Header.Set(apimiddleware.IdempotencyKeyHeader, "app-42")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var decision domain.Decision
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
		ids = append(ids, decision.ID)
	}

	assert.Equal(t, ids[0], ids[1])
}

func TestNewRouter_AuthGuardsAPI(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = manager
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/decisions", strings.NewReader(approvablePayload)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := manager.Generate("branch-01", "branch")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions", strings.NewReader(approvablePayload))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "health stays public")
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.Gatherer = reg
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gocredit_http_requests_total")
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Gatherer = prometheus.NewRegistry()
	}))

	chiRoutes, ok := router.(chi.Routes)
	require.True(t, ok, "router does not implement chi.Routes")

	want := map[string]bool{
		"GET /health":                    false,
		"GET /ready":                     false,
		"GET /metrics":                   false,
		"POST /api/v1/decisions":         false,
		"POST /api/v1/compliance/screen": false,
	}

	err := chi.Walk(chiRoutes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		key := method + " " + route
		if _, ok := want[key]; ok {
			want[key] = true
		}
		return nil
	})
	require.NoError(t, err)

	for route, found := range want {
		assert.True(t, found, "route %s not registered", route)
	}
}

func TestNewRouter_CancelledRequestStillAnswers(t *testing.T) {
	router := NewRouter(newRouterConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions", strings.NewReader(approvablePayload)).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decision domain.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, domain.OutcomeApprove, decision.Decision)
	assert.Contains(t, decision.Reason, "(risk model unavailable)")
}
