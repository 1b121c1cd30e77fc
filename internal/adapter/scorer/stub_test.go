package scorer

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubProviderIsDeterministic(t *testing.T) {
	p := NewStubProvider(30)

	first, err := p.Score(context.Background(), sampleRequest())
	require.NoError(t, err)
	second, err := p.Score(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, 30, first.RiskScore)
	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.NotEmpty(t, first.Reason)
}

func TestStubProviderClampsScore(t *testing.T) {
	assert.Equal(t, 100, NewStubProvider(250).score)
	assert.Equal(t, 0, NewStubProvider(-5).score)
}

func TestStubProviderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStubProvider(10).Score(ctx, sampleRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	p, err := New(ctx, Options{Provider: "none"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = New(ctx, Options{Provider: "stub", StubScore: 25}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &StubProvider{}, p)

	p, err = New(ctx, Options{Provider: "openai", APIKey: "sk-test", Model: "gpt-3.5-turbo"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LLMProvider{}, p)

	_, err = New(ctx, Options{Provider: "gemini"}, zerolog.Nop())
	assert.Error(t, err)
}
