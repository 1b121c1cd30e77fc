package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	httpAdapter "github.com/iho/gocredit/internal/adapter/http"
	"github.com/iho/gocredit/internal/adapter/http/handler"
	"github.com/iho/gocredit/internal/adapter/http/middleware"
	"github.com/iho/gocredit/internal/adapter/idgen"
	redisRepo "github.com/iho/gocredit/internal/adapter/repository/redis"
	"github.com/iho/gocredit/internal/adapter/scorer"
	"github.com/iho/gocredit/internal/infrastructure/auth"
	"github.com/iho/gocredit/internal/infrastructure/config"
	"github.com/iho/gocredit/internal/infrastructure/logger"
	"github.com/iho/gocredit/internal/infrastructure/metrics"
	"github.com/iho/gocredit/internal/infrastructure/redis"
	"github.com/iho/gocredit/internal/infrastructure/tracing"
	"github.com/iho/gocredit/internal/usecase"
)

var version = "dev"

const limiterIdleTTL = 10 * time.Minute

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:           "gocredit-server",
		Short:         "Hybrid loan decision service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if port != "" {
				cfg.HTTPPort = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "HTTP port (overrides HTTP_PORT)")

	return cmd
}

// application is the wired service, ready to be served.
type application struct {
	handler     http.Handler
	limiter     *middleware.RateLimiter
	redisClient *goredis.Client
	logger      zerolog.Logger
}

func (a *application) close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
		Version:     version,
	})

	shutdownTracing, err := tracing.Init(ctx, cfg.OTLPEndpoint, version, log)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to flush traces")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := newApplication(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer app.close()

	go sweepLimiters(ctx, app.limiter, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      app.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("version", version).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// newApplication wires the decision pipeline and its HTTP surface.
func newApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*application, error) {
	m := metrics.New(reg)

	provider, err := scorer.New(ctx, scorer.Options{
		Provider:  cfg.RiskProvider,
		APIKey:    cfg.RiskAPIKey,
		BaseURL:   cfg.RiskBaseURL,
		Model:     cfg.RiskModel,
		StubScore: cfg.RiskStubScore,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create risk provider: %w", err)
	}
	if provider == nil {
		log.Warn().Msg("no risk provider configured, decisions will rely on rules only")
	}

	policy, err := usecase.ParseConflictPolicy(cfg.ConflictPolicy)
	if err != nil {
		return nil, err
	}

	decisions := usecase.NewDecisionUseCase(usecase.DecisionUseCaseConfig{
		Screen:   usecase.NewComplianceScreen(),
		Rules:    usecase.NewAffordabilityRuleEngine(log),
		Risk:     usecase.NewRiskAssessor(provider, cfg.RiskTimeout, log),
		Arbiter:  usecase.NewDecisionArbiter(policy, cfg.RiskRejectThreshold),
		IDGen:    idgen.NewULIDGenerator(),
		Recorder: m,
		Logger:   log,
	})

	app := &application{
		limiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m),
		logger:  log,
	}

	var store usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, redis.DefaultConnectOptions(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info().Msg("connected to redis")
		app.redisClient = client
		store = redisRepo.NewIdempotencyStore(client, m)
	}

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)
	}

	app.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		DecisionHandler: handler.NewDecisionHandler(decisions, usecase.NewComplianceScreen()),
		HealthHandler: handler.NewHealthHandler(app.redisClient, handler.HealthInfo{
			Environment:    cfg.Environment,
			RiskProvider:   cfg.RiskProvider,
			RiskConfigured: provider != nil,
			ConflictPolicy: string(policy),
		}),
		Logger:           log,
		Metrics:          m,
		Gatherer:         reg,
		RateLimiter:      app.limiter,
		JWTManager:       jwtManager,
		IdempotencyStore: store,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	})

	return app, nil
}

func sweepLimiters(ctx context.Context, limiter *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.CleanupLimiters(limiterIdleTTL); n > 0 {
				log.Debug().Int("removed", n).Msg("evicted idle rate limiters")
			}
		}
	}
}
