package scorer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/iho/gocredit/internal/domain"
)

const systemPrompt = `You are a financial risk assessment AI for an Islamic bank in Saudi Arabia. ` +
	`You answer with a single JSON object and nothing else.`

var userPrompt = template.Must(template.New("risk").Parse(`Analyze this Saudi applicant's financial data for loan risk assessment.

Financial Data:
- Monthly Income: {{.MonthlyIncome}} SAR
- Recent Transactions: {{.Transactions}}
- Requested Loan Amount: {{.LoanAmount}} SAR
- Current Balance: {{.CurrentBalance}} SAR
- Balance Trend: {{.BalanceTrend}}

Assessment Tasks:
1. Calculate a risk score (0-100, higher is riskier) based on:
   - Income stability and amount
   - Transaction patterns
   - Balance trends
   - Loan amount relative to income
2. Identify any risky patterns (gambling, overdrafts, etc.)
3. Check if spending aligns with income

Return a JSON object with:
{
  "risk_score": number (0-100),
  "reason": "string explaining the risk assessment",
  "details": {
    "income_risk": "string",
    "transaction_risk": "string",
    "balance_risk": "string"
  }
}`))

type promptTransaction struct {
	ID          string `json:"id,omitempty"`
	BookedAt    string `json:"booked_at,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Direction   string `json:"direction,omitempty"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency,omitempty"`
}

// BuildPrompt renders the user message for req.
func BuildPrompt(req domain.RiskRequest) (string, error) {
	txs := make([]promptTransaction, 0, len(req.RecentTransactions))
	for _, tx := range req.RecentTransactions {
		pt := promptTransaction{
			ID:          tx.ID,
			Category:    tx.Category,
			Description: tx.Description,
			Direction:   string(tx.CreditDebit),
			Amount:      tx.Amount.String(),
			Currency:    tx.Currency,
		}
		if !tx.BookedAt.IsZero() {
			pt.BookedAt = tx.BookedAt.Format("2006-01-02")
		}
		txs = append(txs, pt)
	}

	txJSON, err := json.Marshal(txs)
	if err != nil {
		return "", fmt.Errorf("encode transactions: %w", err)
	}

	var buf bytes.Buffer
	err = userPrompt.Execute(&buf, map[string]string{
		"MonthlyIncome":  req.MonthlyIncome.String(),
		"Transactions":   string(txJSON),
		"LoanAmount":     req.LoanAmount.String(),
		"CurrentBalance": req.CurrentBalance.String(),
		"BalanceTrend":   string(req.BalanceTrend),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	return buf.String(), nil
}

type replyPayload struct {
	RiskScore *float64       `json:"risk_score"`
	Reason    string         `json:"reason"`
	Details   map[string]any `json:"details"`
}

// ParseReply decodes a model answer. Markdown code fences around the JSON
// object are tolerated; fractional scores are rounded.
func ParseReply(content string) (*domain.RiskReply, error) {
	payload, err := decodeFirstObject(content)
	if err != nil {
		return nil, err
	}

	if payload.RiskScore == nil {
		return nil, fmt.Errorf("%w: risk_score missing", domain.ErrMalformedRiskResponse)
	}
	score := math.Round(*payload.RiskScore)
	if score < domain.MinRiskScore || score > domain.MaxRiskScore {
		return nil, fmt.Errorf("%w: risk_score %v out of range", domain.ErrMalformedRiskResponse, *payload.RiskScore)
	}

	reason := strings.TrimSpace(payload.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason missing", domain.ErrMalformedRiskResponse)
	}

	return &domain.RiskReply{
		RiskScore: int(score),
		Reason:    reason,
		Details:   payload.Details,
	}, nil
}

// decodeFirstObject decodes the first JSON object found in content. Text
// around it, including code fences and trailing prose, is ignored.
func decodeFirstObject(content string) (replyPayload, error) {
	var lastErr error
	for offset := 0; ; {
		i := strings.IndexByte(content[offset:], '{')
		if i < 0 {
			break
		}
		start := offset + i

		var payload replyPayload
		err := json.NewDecoder(strings.NewReader(content[start:])).Decode(&payload)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		offset = start + 1
	}

	if lastErr == nil {
		return replyPayload{}, fmt.Errorf("%w: no JSON object in reply", domain.ErrMalformedRiskResponse)
	}
	return replyPayload{}, fmt.Errorf("%w: %v", domain.ErrMalformedRiskResponse, lastErr)
}
