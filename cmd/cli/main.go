package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gocredit/internal/adapter/http/dto"
	"github.com/iho/gocredit/internal/domain"
	"github.com/iho/gocredit/internal/infrastructure/auth"
)

var (
	baseURL string
	timeout time.Duration
	token   string
	rawJSON bool
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	approveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	rejectStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	reviewStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gocredit-cli",
		Short:         "GoCredit CLI tool",
		Long:          `A command line interface for submitting loan applications to the GoCredit decision API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoCredit API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("GOCREDIT_TOKEN"), "Bearer token for the decision API")
	rootCmd.PersistentFlags().BoolVar(&rawJSON, "json", false, "Print the raw JSON response")

	rootCmd.AddCommand(decideCmd(), screenCmd(), healthCmd(), tokenCmd())

	return rootCmd
}

func newClient() *resty.Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return client
}

func decideCmd() *cobra.Command {
	var (
		file           string
		amount         string
		currency       string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Submit a loan application for a decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := buildDecisionRequest(file, amount, currency)
			if err != nil {
				return err
			}

			req := newClient().R().SetBody(body)
			if idempotencyKey != "" {
				req.SetHeader("Idempotency-Key", idempotencyKey)
			}

			resp, err := req.Post("/api/v1/decisions")
			if err != nil {
				return fmt.Errorf("error making request: %w", err)
			}

			if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusInternalServerError {
				return fmt.Errorf("decision request failed (status %d): %s", resp.StatusCode(), resp.String())
			}

			if rawJSON {
				fmt.Fprintln(cmd.OutOrStdout(), resp.String())
				return nil
			}

			var decision domain.Decision
			if err := json.Unmarshal(resp.Body(), &decision); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderDecision(decision))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the aggregator account data JSON")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Requested loan amount")
	cmd.Flags().StringVar(&currency, "currency", "SAR", "Loan currency")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// buildDecisionRequest reads account data from path. The file may hold either
// the bare aggregator bundle or a full decision request.
func buildDecisionRequest(path, amount, currency string) (*dto.DecisionRequest, error) {
	loan, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var envelope struct {
		AccountData *domain.AccountData `json:"account_data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	data := envelope.AccountData
	if data == nil {
		data = &domain.AccountData{}
		if err := json.Unmarshal(raw, data); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	return &dto.DecisionRequest{
		LoanAmount:  decimal.NewNullDecimal(loan),
		Currency:    currency,
		AccountData: data,
	}, nil
}

func screenCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Run the compliance screen over a transaction list",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			var body dto.ComplianceScreenRequest
			if err := json.Unmarshal(raw, &body); err != nil {
				return fmt.Errorf("failed to parse %s: %w", file, err)
			}

			var result domain.ComplianceResult
			resp, err := newClient().R().SetBody(body).SetResult(&result).Post("/api/v1/compliance/screen")
			if err != nil {
				return fmt.Errorf("error making request: %w", err)
			}
			if resp.IsError() {
				return fmt.Errorf("screen request failed (status %d): %s", resp.StatusCode(), resp.String())
			}

			if rawJSON {
				fmt.Fprintln(cmd.OutOrStdout(), resp.String())
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderCompliance(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to a JSON file with a transactions array")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var health dto.HealthResponse
			resp, err := newClient().R().SetResult(&health).Get("/health")
			if err != nil {
				return fmt.Errorf("error making request: %w", err)
			}
			if resp.IsError() {
				return fmt.Errorf("health check FAILED (status %d): %s", resp.StatusCode(), resp.String())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status: %s\n", health.Status)
			fmt.Fprintf(out, "Environment: %s\n", health.Environment)
			fmt.Fprintf(out, "Risk provider: %s (configured: %v)\n", health.RiskProvider, health.RiskConfigured)
			fmt.Fprintf(out, "Conflict policy: %s\n", health.ConflictPolicy)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		channel string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the decision API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
			}
			signed, err := auth.NewJWTManager(secret, ttl).Generate(subject, channel)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject")
	cmd.Flags().StringVar(&channel, "channel", "branch", "Origination channel claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}

func outcomeStyle(o domain.Outcome) lipgloss.Style {
	switch o {
	case domain.OutcomeApprove:
		return approveStyle
	case domain.OutcomeManualReview:
		return reviewStyle
	default:
		return rejectStyle
	}
}

func renderDecision(d domain.Decision) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Loan decision"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Decision:"), outcomeStyle(d.Decision).Render(string(d.Decision)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Reason:  "), truncate(d.Reason, 120))
	if d.ID != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("ID:      "), d.ID)
	}

	details := d.Details
	if rb := details.RuleBased; rb != nil {
		fmt.Fprintf(&b, "\n%s %s (%s)\n", labelStyle.Render("Rules:   "), rb.Decision, rb.Reason)
		fmt.Fprintf(&b, "  DTI %.1f%%  liquidity %.1f%%  trend %s\n",
			rb.Metrics.DTIRatio, rb.Metrics.LiquidityRatio, rb.Metrics.BalanceTrend)
	}
	if details.LLMRiskScore != nil {
		available := details.LLMAvailable != nil && *details.LLMAvailable
		fmt.Fprintf(&b, "%s %d (available: %v, %s)\n", labelStyle.Render("Risk:    "), *details.LLMRiskScore, available, details.LLMStatus)
		if details.LLMReason != "" {
			fmt.Fprintf(&b, "  %s\n", truncate(details.LLMReason, 120))
		}
	}
	if len(details.Violations) > 0 {
		b.WriteString("\n")
		b.WriteString(renderViolations(details.Violations))
	}
	if details.Recommendation != "" {
		fmt.Fprintf(&b, "\n%s\n", details.Recommendation)
	}
	if details.Error != "" {
		fmt.Fprintf(&b, "\n%s %s\n", rejectStyle.Render("Error:"), details.Error)
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderCompliance(result domain.ComplianceResult) string {
	if result.Compliant {
		return approveStyle.Render("Compliant: no prohibited transactions found")
	}
	return rejectStyle.Render("Non-compliant") + "\n" + renderViolations(result.Violations)
}

func renderViolations(violations []domain.Violation) string {
	sorted := make([]domain.Violation, len(violations))
	copy(sorted, violations)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TransactionID < sorted[j].TransactionID })

	var b strings.Builder
	b.WriteString(labelStyle.Render("Prohibited transactions:"))
	b.WriteString("\n")
	for _, v := range sorted {
		fmt.Fprintf(&b, "  - %s [%s: %s] %s\n", v.TransactionID, v.Rule, v.Match, truncate(v.Description, 60))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
