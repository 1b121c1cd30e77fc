package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/iho/gocredit/internal/infrastructure/metrics"
)

func TestRateLimiterBlocksPerIP(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	rl := NewRateLimiter(1, 1, m)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("1.2.3.4:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("1.2.3.4:2000"))
	assert.Equal(t, http.StatusOK, send("5.6.7.8:1000"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitHits.WithLabelValues("1.2.3.4")))
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10, nil)
	rl.now = func() time.Time { return now }

	rl.getLimiter("old")
	now = now.Add(2 * time.Hour)
	rl.getLimiter("fresh")

	assert.Equal(t, 1, rl.CleanupLimiters(time.Hour))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "fresh")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.RemoteAddr = "10.0.0.2"
	assert.Equal(t, "10.0.0.2", clientIP(req))
}
