package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gocredit/internal/adapter/http/dto"
)

// HealthInfo describes the running configuration reported by Liveness.
type HealthInfo struct {
	Environment    string
	RiskProvider   string
	RiskConfigured bool
	ConflictPolicy string
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	redisClient *redis.Client
	info        HealthInfo
}

// NewHealthHandler creates a new HealthHandler. redisClient may be nil when
// idempotent replay is disabled.
func NewHealthHandler(redisClient *redis.Client, info HealthInfo) *HealthHandler {
	return &HealthHandler{
		redisClient: redisClient,
		info:        info,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Status:         "ok",
		Environment:    h.info.Environment,
		RiskProvider:   h.info.RiskProvider,
		RiskConfigured: h.info.RiskConfigured,
		ConflictPolicy: h.info.ConflictPolicy,
	})
}

// Readiness returns 200 if the service is ready to accept traffic. An
// unavailable risk model does not make the service unready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.redisClient == nil {
		writeJSON(w, http.StatusOK, dto.ReadinessResponse{Status: "ready", Redis: "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "redis unhealthy", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReadinessResponse{Status: "ready", Redis: "ok"})
}
