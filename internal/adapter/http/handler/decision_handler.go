package handler

import (
	"context"
	"net/http"

	"github.com/iho/gocredit/internal/adapter/http/dto"
	"github.com/iho/gocredit/internal/domain"
	"github.com/iho/gocredit/internal/usecase"
)

// DecisionService evaluates loan applications.
type DecisionService interface {
	Evaluate(ctx context.Context, input usecase.EvaluateInput) domain.Decision
}

// ComplianceService screens transactions.
type ComplianceService interface {
	Screen(txs []domain.Transaction) domain.ComplianceResult
}

// DecisionHandler handles loan decision HTTP requests.
type DecisionHandler struct {
	decisions  DecisionService
	compliance ComplianceService
}

// NewDecisionHandler creates a new DecisionHandler.
func NewDecisionHandler(decisions DecisionService, compliance ComplianceService) *DecisionHandler {
	return &DecisionHandler{
		decisions:  decisions,
		compliance: compliance,
	}
}

// Decide evaluates a loan application.
func (h *DecisionHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req dto.DecisionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid loan application", err.Error())
		return
	}

	decision := h.decisions.Evaluate(r.Context(), input)

	writeJSON(w, statusForDecision(decision.Decision), decision)
}

// Screen runs only the compliance screen over a batch of transactions.
func (h *DecisionHandler) Screen(w http.ResponseWriter, r *http.Request) {
	var req dto.ComplianceScreenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.compliance.Screen(req.ToTransactions()))
}
