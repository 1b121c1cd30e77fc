package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeIsBusinessOutcome(t *testing.T) {
	assert.True(t, OutcomeApprove.IsBusinessOutcome())
	assert.True(t, OutcomeReject.IsBusinessOutcome())
	assert.True(t, OutcomeManualReview.IsBusinessOutcome())
	assert.False(t, OutcomeError.IsBusinessOutcome())
}

func TestErrorDecisionIsFullyPopulated(t *testing.T) {
	d := ErrorDecision(errors.New("nil map write"))

	assert.Equal(t, OutcomeError, d.Decision)
	assert.Equal(t, "Error processing application", d.Reason)
	assert.Equal(t, "nil map write", d.Details.Error)

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "reason")
	assert.Contains(t, decoded, "details")
	assert.Equal(t, "nil map write", decoded["details"].(map[string]any)["error"])

	assert.Equal(t, "unknown error", ErrorDecision(nil).Details.Error)
}
