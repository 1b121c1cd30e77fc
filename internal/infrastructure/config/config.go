package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Risk provider names accepted by RISK_PROVIDER.
const (
	RiskProviderOpenAI   = "openai"
	RiskProviderDeepSeek = "deepseek"
	RiskProviderStub     = "stub"
	RiskProviderNone     = "none"
)

// Config holds all application configuration.
type Config struct {
	// Environment
	Environment string `env:"APP_ENV" envDefault:"development"`

	// Redis (optional - leave empty to disable idempotent replay)
	RedisURL       string        `env:"REDIS_URL"       envDefault:""`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Authentication (optional - leave empty to disable)
	JWTSecret   string `env:"JWT_SECRET"   envDefault:""`
	AuthEnabled bool   `env:"AUTH_ENABLED" envDefault:"false"`

	// Risk model
	RiskProvider        string        `env:"RISK_PROVIDER"         envDefault:"none"`
	RiskAPIKey          string        `env:"RISK_API_KEY"          envDefault:""`
	RiskBaseURL         string        `env:"RISK_BASE_URL"         envDefault:""`
	RiskModel           string        `env:"RISK_MODEL"            envDefault:"gpt-3.5-turbo"`
	RiskTimeout         time.Duration `env:"RISK_TIMEOUT"          envDefault:"15s"`
	RiskStubScore       int           `env:"RISK_STUB_SCORE"       envDefault:"30"`
	RiskRejectThreshold int           `env:"RISK_REJECT_THRESHOLD" envDefault:"70"`

	// Arbitration
	ConflictPolicy string `env:"CONFLICT_POLICY" envDefault:"affordability_floor"`

	// Tracing
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
}

// Load loads configuration from an optional .env file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints the env parser cannot express.
func (c *Config) Validate() error {
	switch c.RiskProvider {
	case RiskProviderOpenAI, RiskProviderDeepSeek:
		if c.RiskAPIKey == "" {
			return fmt.Errorf("RISK_API_KEY is required for risk provider %q", c.RiskProvider)
		}
	case RiskProviderStub, RiskProviderNone, "":
	default:
		return fmt.Errorf("unknown RISK_PROVIDER %q", c.RiskProvider)
	}

	switch c.ConflictPolicy {
	case "affordability_floor", "risk_override", "manual_review":
	default:
		return fmt.Errorf("unknown CONFLICT_POLICY %q", c.ConflictPolicy)
	}

	if c.RiskRejectThreshold < 0 || c.RiskRejectThreshold > 100 {
		return fmt.Errorf("RISK_REJECT_THRESHOLD must be within [0,100], got %d", c.RiskRejectThreshold)
	}

	if c.RiskStubScore < 0 || c.RiskStubScore > 100 {
		return fmt.Errorf("RISK_STUB_SCORE must be within [0,100], got %d", c.RiskStubScore)
	}

	if c.AuthEnabled && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is true")
	}

	return nil
}
