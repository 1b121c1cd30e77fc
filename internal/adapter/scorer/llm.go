// Package scorer provides risk providers backed by chat models and a
// deterministic stub.
package scorer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	aclopenai "github.com/cloudwego/eino-ext/libs/acl/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/iho/gocredit/internal/domain"
)

const (
	temperature = 0.3
	maxTokens   = 500

	defaultDeepSeekModel = "deepseek-chat"
)

// LLMProvider scores applicants with a chat model. It makes exactly one
// Generate call per Score.
type LLMProvider struct {
	model  model.BaseChatModel
	name   string
	logger zerolog.Logger
}

// NewLLMProvider wraps an existing chat model.
func NewLLMProvider(chatModel model.BaseChatModel, name string, logger zerolog.Logger) *LLMProvider {
	return &LLMProvider{
		model:  chatModel,
		name:   name,
		logger: logger.With().Str("risk_provider", name).Logger(),
	}
}

// NewOpenAIProvider builds a provider on an OpenAI-compatible endpoint.
// An empty baseURL uses the public OpenAI API.
func NewOpenAIProvider(ctx context.Context, apiKey, baseURL, modelName string, logger zerolog.Logger) (*LLMProvider, error) {
	cm, err := openai.NewChatModel(ctx, openAIConfig(apiKey, baseURL, modelName))
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return NewLLMProvider(cm, "openai", logger), nil
}

// openAIConfig requests a JSON object reply so the schema is enforced by the
// API as well as by the prompt.
func openAIConfig(apiKey, baseURL, modelName string) *openai.ChatModelConfig {
	tokens := maxTokens
	return &openai.ChatModelConfig{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		Model:     modelName,
		MaxTokens: &tokens,
		ResponseFormat: &aclopenai.ChatCompletionResponseFormat{
			Type: aclopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
}

// NewDeepSeekProvider builds a provider on the DeepSeek API.
func NewDeepSeekProvider(ctx context.Context, apiKey, modelName string, logger zerolog.Logger) (*LLMProvider, error) {
	if modelName == "" || strings.HasPrefix(modelName, "gpt-") {
		modelName = defaultDeepSeekModel
	}
	cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
		APIKey:    apiKey,
		Model:     modelName,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create deepseek chat model: %w", err)
	}
	return NewLLMProvider(cm, "deepseek", logger), nil
}

// Score implements usecase.RiskProvider.
func (p *LLMProvider) Score(ctx context.Context, req domain.RiskRequest) (*domain.RiskReply, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRiskProviderUnavailable, err)
	}

	msg, err := p.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	}, model.WithTemperature(temperature), model.WithMaxTokens(maxTokens))
	if err != nil {
		return nil, classifyError(ctx, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty reply", domain.ErrMalformedRiskResponse)
	}

	p.logger.Debug().Str("content", msg.Content).Msg("risk model replied")

	return ParseReply(msg.Content)
}

// classifyError maps transport failures onto domain errors so the assessor
// can tell quota exhaustion and timeouts apart from other failures.
func classifyError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") {
		return fmt.Errorf("%w: %v", domain.ErrRiskQuotaExceeded, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrRiskProviderUnavailable, err)
}
