package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/iho/gocredit/internal/domain"
	"github.com/iho/gocredit/internal/infrastructure/tracing"
)

// EvaluateInput represents input for evaluating a loan application.
type EvaluateInput struct {
	AccountData *domain.AccountData
	LoanAmount  decimal.Decimal
}

// DecisionUseCase runs the full decision pipeline.
type DecisionUseCase struct {
	screen   *ComplianceScreen
	rules    *AffordabilityRuleEngine
	risk     *RiskAssessor
	arbiter  *DecisionArbiter
	idGen    IDGenerator
	recorder DecisionRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// DecisionUseCaseConfig holds the collaborators of a DecisionUseCase.
type DecisionUseCaseConfig struct {
	Screen   *ComplianceScreen
	Rules    *AffordabilityRuleEngine
	Risk     *RiskAssessor
	Arbiter  *DecisionArbiter
	IDGen    IDGenerator
	Recorder DecisionRecorder
	Logger   zerolog.Logger
}

// NewDecisionUseCase creates a new DecisionUseCase. Missing optional
// collaborators get defaults.
func NewDecisionUseCase(cfg DecisionUseCaseConfig) *DecisionUseCase {
	if cfg.Screen == nil {
		cfg.Screen = NewComplianceScreen()
	}
	if cfg.Rules == nil {
		cfg.Rules = NewAffordabilityRuleEngine(cfg.Logger)
	}
	if cfg.Risk == nil {
		cfg.Risk = NewRiskAssessor(nil, DefaultRiskTimeout, cfg.Logger)
	}
	if cfg.Arbiter == nil {
		cfg.Arbiter = NewDecisionArbiter(PolicyAffordabilityFloor, DefaultRiskRejectThreshold)
	}
	if cfg.Recorder == nil {
		cfg.Recorder = noopRecorder{}
	}

	return &DecisionUseCase{
		screen:   cfg.Screen,
		rules:    cfg.Rules,
		risk:     cfg.Risk,
		arbiter:  cfg.Arbiter,
		idGen:    cfg.IDGen,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate never panics and always returns a fully structured Decision.
// Only an unexpected defect yields OutcomeError.
func (uc *DecisionUseCase) Evaluate(ctx context.Context, input EvaluateInput) (decision domain.Decision) {
	start := uc.now()

	ctx, span := tracing.StartSpan(ctx, "decision.evaluate",
		attribute.String("loan.amount", input.LoanAmount.String()))

	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("decision pipeline failed")
			decision = domain.ErrorDecision(fmt.Errorf("%v", r))
		}

		uc.stamp(&decision, start)
		uc.observe(decision, uc.now().Sub(start))

		span.SetAttributes(
			attribute.String("decision.id", decision.ID),
			attribute.String("decision.outcome", string(decision.Decision)),
		)
		span.End()

		uc.logger.Info().
			Str("decision_id", decision.ID).
			Str("decision", string(decision.Decision)).
			Str("reason", decision.Reason).
			Str("loan_amount", input.LoanAmount.String()).
			Dur("duration", uc.now().Sub(start)).
			Msg("loan application evaluated")
	}()

	profile := domain.NormalizeProfile(input.AccountData)

	compliance := uc.screen.Screen(profile.Transactions)
	uc.recorder.ObserveCompliance(compliance)
	if !compliance.Compliant {
		return uc.arbiter.Arbitrate(compliance, nil, nil)
	}

	rule, risk := uc.assess(ctx, profile, input.LoanAmount)

	return uc.arbiter.Arbitrate(compliance, &rule, &risk)
}

// assess runs the rule engine and the risk assessor concurrently against the
// same profile snapshot. Neither returns an error.
func (uc *DecisionUseCase) assess(ctx context.Context, profile domain.FinancialProfile, loanAmount decimal.Decimal) (domain.RuleVerdict, domain.RiskAssessment) {
	var (
		rule domain.RuleVerdict
		risk domain.RiskAssessment
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				uc.logger.Error().Interface("panic", r).Msg("risk assessment failed")
				risk = fallback(domain.RiskTransportError, fmt.Sprintf("Risk model error: %v", r), nil)
			}
		}()

		start := time.Now()
		risk = uc.risk.Assess(gctx, profile, loanAmount)
		uc.recorder.ObserveRiskAssessment(risk, time.Since(start))
		return nil
	})

	rule = uc.rules.Evaluate(profile, loanAmount)
	uc.recorder.ObserveRuleVerdict(rule)

	_ = g.Wait()

	return rule, risk
}

// stamp sets the evaluation time and ID. A failing ID generator turns the
// decision into an Error decision instead of escaping Evaluate.
func (uc *DecisionUseCase) stamp(decision *domain.Decision, start time.Time) {
	decision.EvaluatedAt = start
	if uc.idGen == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error().Interface("panic", r).Msg("decision id generation failed")
			*decision = domain.ErrorDecision(fmt.Errorf("decision id generation failed: %v", r))
			decision.EvaluatedAt = start
		}
	}()

	decision.ID = uc.idGen.Generate()
}

// observe records the final decision. The decision is already made, so a
// recorder failure is only logged.
func (uc *DecisionUseCase) observe(decision domain.Decision, elapsed time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error().Interface("panic", r).Msg("recording decision failed")
		}
	}()

	uc.recorder.ObserveDecision(decision, elapsed)
}
